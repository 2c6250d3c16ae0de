// Package usecase はローソク足データ取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"stock_dashboard/internal/feature/candles/domain/entity"
)

const (
	// DefaultInterval はチャートと保存済みデータ参照の既定の時間足です。
	DefaultInterval = "1day"
	// DefaultLatest は保存済みデータ参照で件数未指定のときの返却件数です。
	DefaultLatest = 200
	// MaxLatest は保存済みデータ参照の最大返却件数です。
	MaxLatest = 5000
)

// Intervals は取り込みと参照の対象となる時間足です。
var Intervals = []string{"1day", "1week", "1month"}

// CandleRepository はローソク足データの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CandleRepository interface {
	// Find はデータベースから新しい順にローソク足データを検索します。
	Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
	// UpsertBatch はローソク足を一括で挿入（既存なら更新）します。
	UpsertBatch(ctx context.Context, candles []entity.Candle) error
}

// StoredCandlesUsecase は取り込み済み（またはチャート取得時に保存された）ローソク足を参照します。
type StoredCandlesUsecase struct {
	store CandleRepository
}

// NewStoredCandlesUsecase は新しい StoredCandlesUsecase を作成します。
func NewStoredCandlesUsecase(store CandleRepository) *StoredCandlesUsecase {
	return &StoredCandlesUsecase{store: store}
}

// Latest は直近 n 本を古い順に返します。
// n が0以下なら DefaultLatest 本、MaxLatest を超える場合は MaxLatest 本に丸めます。
func (u *StoredCandlesUsecase) Latest(ctx context.Context, symbol, interval string, n int) ([]entity.Candle, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}
	if interval == "" {
		interval = DefaultInterval
	}
	if !slices.Contains(Intervals, interval) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInterval, interval)
	}
	switch {
	case n <= 0:
		n = DefaultLatest
	case n > MaxLatest:
		n = MaxLatest
	}

	cs, err := u.store.Find(ctx, symbol, interval, n)
	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", symbol, interval, err)
	}
	if len(cs) == 0 {
		return nil, fmt.Errorf("%w for ticker %s", ErrNotFound, symbol)
	}
	// Find は新しい順なので反転する
	slices.Reverse(cs)
	return cs, nil
}

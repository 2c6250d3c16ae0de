package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"stock_dashboard/internal/feature/candles/domain/entity"
)

// MarketRepository は外部の株価データプロバイダーを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	// GetTimeSeries は期間またはoutputsize（0なら無制限）で時系列データを取得します。
	// 並び順はプロバイダー依存です。
	GetTimeSeries(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error)
}

// FetchUsecase はダッシュボード用に日足の時系列データを取得します。
// 1回の呼び出しにつきプロバイダーへのリクエストは1回のみで、リトライは行いません。
// 取得以外の副作用は持ちません（DBへの書き込みは WriteBehindMarket が担います）。
type FetchUsecase struct {
	market MarketRepository
}

// NewFetchUsecase は新しい FetchUsecase を作成します。
func NewFetchUsecase(market MarketRepository) *FetchUsecase {
	return &FetchUsecase{market: market}
}

// Fetch は銘柄の日足を日付の昇順（重複なし）で返します。
// プロバイダーが空の結果を返した場合は ErrNotFound を返します。
func (fu *FetchUsecase) Fetch(ctx context.Context, symbol string, rng entity.Range) ([]entity.Candle, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}
	if !rng.Valid() {
		return nil, ErrInvalidRange
	}

	raw, err := fu.market.GetTimeSeries(ctx, symbol, DefaultInterval, rng, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	cs := normalize(raw, symbol, DefaultInterval, rng)
	if len(cs) == 0 {
		return nil, fmt.Errorf("%w for ticker %s", ErrNotFound, symbol)
	}
	return cs, nil
}

// normalize は入力をコピーし、期間外の足を除外して日付昇順に並べ替えます。
// 同じ日付の足が複数ある場合は後から来たものを採用します。
func normalize(raw []entity.Candle, symbol, interval string, rng entity.Range) []entity.Candle {
	out := make([]entity.Candle, 0, len(raw))
	for _, c := range raw {
		if !rng.Contains(c.Time) {
			continue
		}
		c.Symbol = symbol
		c.Interval = interval
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	dedup := out[:0]
	for _, c := range out {
		if n := len(dedup); n > 0 && sameDay(dedup[n-1].Time, c.Time) {
			dedup[n-1] = c
			continue
		}
		dedup = append(dedup, c)
	}
	return dedup
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

package usecase

import (
	"context"
	"log/slog"
	"strings"

	"stock_dashboard/internal/feature/candles/domain/entity"
)

// WriteBehindMarket はプロバイダーから実際に取得した結果を DB にも書き込みます。
// キャッシュデコレーターの内側に置くと、メモ化されたヒットでは書き込みが発生しません。
type WriteBehindMarket struct {
	inner MarketRepository
	store CandleRepository
}

var _ MarketRepository = (*WriteBehindMarket)(nil)

// NewWriteBehindMarket は inner を包みます。store が nil の場合は inner をそのまま呼び出すだけです。
func NewWriteBehindMarket(inner MarketRepository, store CandleRepository) *WriteBehindMarket {
	return &WriteBehindMarket{inner: inner, store: store}
}

// GetTimeSeries は inner の結果をそのまま返します。
// 書き込みはベストエフォートで、失敗してもチャート描画は継続します。
func (w *WriteBehindMarket) GetTimeSeries(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
	out, err := w.inner.GetTimeSeries(ctx, symbol, interval, rng, outputsize)
	if err != nil || len(out) == 0 || w.store == nil {
		return out, err
	}

	cs := normalize(out, strings.ToUpper(symbol), interval, rng)
	if len(cs) == 0 {
		return out, nil
	}
	if err := w.store.UpsertBatch(ctx, cs); err != nil {
		slog.Warn("failed to store fetched candles", "symbol", symbol, "interval", interval, "count", len(cs), "error", err)
	}
	return out, nil
}

package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
)

// CachingMarketRepository はマーケットデータ提供元の応答を Redis でキャッシュします。
// 同じ銘柄・期間の再描画でプロバイダーを呼ばないためのメモ化で、最後に書いたものが勝ちます。
// 空の結果とエラーはキャッシュしません。
type CachingMarketRepository struct {
	inner usecase.MarketRepository
	store redisStore
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository は inner をキャッシュで包みます。既定の名前空間は "market" です。
func NewCachingMarketRepository(rdb *redis.Client, inner usecase.MarketRepository, opts Options) *CachingMarketRepository {
	return &CachingMarketRepository{
		inner: inner,
		store: newRedisStore(rdb, opts, "market"),
	}
}

// GetTimeSeries はキャッシュにあればそれを返し、なければ提供元から取得して保存します。
func (c *CachingMarketRepository) GetTimeSeries(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
	if !c.store.enabled() {
		return c.inner.GetTimeSeries(ctx, symbol, interval, rng, outputsize)
	}

	key := c.store.key(symbol, interval, dateKey(rng.Start), dateKey(rng.End), strconv.Itoa(outputsize))
	var cached []entity.Candle
	if c.store.load(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.inner.GetTimeSeries(ctx, symbol, interval, rng, outputsize)
	if err != nil {
		return nil, err
	}
	if len(out) > 0 {
		c.store.save(ctx, key, out)
	}
	return out, nil
}

func dateKey(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}

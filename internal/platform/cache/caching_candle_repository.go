package cache

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
)

// CachingCandleRepository は保存済みローソク足の参照を Redis でキャッシュします。
// 書き込み時は同じ銘柄・間隔のキーをまとめて無効化します。
type CachingCandleRepository struct {
	inner usecase.CandleRepository
	store redisStore
}

var _ usecase.CandleRepository = (*CachingCandleRepository)(nil)

// NewCachingCandleRepository は inner をキャッシュで包みます。既定の名前空間は "candles" です。
func NewCachingCandleRepository(rdb *redis.Client, inner usecase.CandleRepository, opts Options) *CachingCandleRepository {
	return &CachingCandleRepository{
		inner: inner,
		store: newRedisStore(rdb, opts, "candles"),
	}
}

// UpsertBatch は内部リポジトリに書き込んだ後、関連するキャッシュを削除します。
func (c *CachingCandleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if err := c.inner.UpsertBatch(ctx, candles); err != nil {
		return err
	}
	if !c.store.enabled() || len(candles) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	for _, cd := range candles {
		prefix := c.store.key(cd.Symbol, cd.Interval)
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		if err := c.store.deleteByPattern(ctx, prefix+":*"); err != nil {
			// 無効化に失敗したキーは TTL まで古い値を返す
			c.store.logger.Warn("cache invalidation failed", "pattern", prefix+":*", "error", err)
		}
	}
	return nil
}

// Find はキャッシュを確認し、なければ内部リポジトリから取得して保存します。
// キーは namespace:symbol:interval:outputsize です。
func (c *CachingCandleRepository) Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	if !c.store.enabled() {
		return c.inner.Find(ctx, symbol, interval, outputsize)
	}

	key := c.store.key(symbol, interval, strconv.Itoa(outputsize))
	var cached []entity.Candle
	if c.store.load(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.inner.Find(ctx, symbol, interval, outputsize)
	if err != nil {
		return nil, err
	}
	// 未取り込みの銘柄は次の ingest で埋まるので空の結果は保存しない
	if len(out) > 0 {
		c.store.save(ctx, key, out)
	}
	return out, nil
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/platform/metrics"
)

// mockMarketRepository はMarketRepositoryのモック実装です。呼び出し回数を記録します。
type mockMarketRepository struct {
	getFn func(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error)
	calls int
}

func (m *mockMarketRepository) GetTimeSeries(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
	m.calls++
	if m.getFn != nil {
		return m.getFn(ctx, symbol, interval, rng, outputsize)
	}
	return nil, nil
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCachingMarketRepository_MemoizesSameQuery(t *testing.T) {
	t.Parallel()

	mr, rdb := newMiniredis(t)
	bars := []entity.Candle{
		{Symbol: "GOOGL", Interval: "1day", Time: day("2024-07-29"), Open: 170, High: 172, Low: 169, Close: 171.5, Volume: 1000},
		{Symbol: "GOOGL", Interval: "1day", Time: day("2024-07-30"), Open: 171, High: 173, Low: 170, Close: 172.0, Volume: 1200},
	}
	inner := &mockMarketRepository{
		getFn: func(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
			return bars, nil
		},
	}
	reg := prometheus.NewRegistry()
	repo := NewCachingMarketRepository(rdb, inner, Options{
		TTL:     FixedTTL(time.Hour),
		Metrics: metrics.New(reg),
	})
	rng := entity.Range{Start: day("2023-01-01"), End: day("2024-07-30")}

	first, err := repo.GetTimeSeries(context.Background(), "GOOGL", "1day", rng, 0)
	require.NoError(t, err)
	second, err := repo.GetTimeSeries(context.Background(), "GOOGL", "1day", rng, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Len(t, second, 2)
	assert.True(t, first[1].Time.Equal(second[1].Time))
	assert.Equal(t, first[1].Close, second[1].Close)

	key := "market:GOOGL:1day:2023-01-01:2024-07-30:0"
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	families, err := reg.Gather()
	require.NoError(t, err)
	got := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "dashboard_cache_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			got[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"hit": 1, "miss": 1}, got)
}

func TestCachingMarketRepository_DistinctRangesDoNotCollide(t *testing.T) {
	t.Parallel()

	_, rdb := newMiniredis(t)
	inner := &mockMarketRepository{
		getFn: func(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
			return []entity.Candle{{Symbol: symbol, Time: rng.Start}}, nil
		},
	}
	repo := NewCachingMarketRepository(rdb, inner, Options{})

	_, err := repo.GetTimeSeries(context.Background(), "AAPL", "1day", entity.Range{Start: day("2024-01-01")}, 0)
	require.NoError(t, err)
	_, err = repo.GetTimeSeries(context.Background(), "AAPL", "1day", entity.Range{Start: day("2024-02-01")}, 0)
	require.NoError(t, err)
	_, err = repo.GetTimeSeries(context.Background(), "EURUSD=X", "1day", entity.Range{Start: day("2024-01-01")}, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, inner.calls)
}

func TestCachingMarketRepository_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	mr, rdb := newMiniredis(t)
	inner := &mockMarketRepository{
		getFn: func(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
			return []entity.Candle{{Symbol: symbol, Close: 1}}, nil
		},
	}
	repo := NewCachingMarketRepository(rdb, inner, Options{TTL: FixedTTL(time.Minute)})

	_, err := repo.GetTimeSeries(context.Background(), "MSFT", "1day", entity.Range{}, 0)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = repo.GetTimeSeries(context.Background(), "MSFT", "1day", entity.Range{}, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachingMarketRepository_DoesNotCacheEmptyOrError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		out  []entity.Candle
		err  error
	}{
		{name: "empty result", out: []entity.Candle{}},
		{name: "provider error", err: errors.New("provider unavailable")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mr, rdb := newMiniredis(t)
			inner := &mockMarketRepository{
				getFn: func(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
					return tt.out, tt.err
				},
			}
			repo := NewCachingMarketRepository(rdb, inner, Options{})

			for i := 0; i < 2; i++ {
				_, err := repo.GetTimeSeries(context.Background(), "ZZZZ", "1day", entity.Range{}, 0)
				if tt.err != nil {
					assert.ErrorIs(t, err, tt.err)
				} else {
					assert.NoError(t, err)
				}
			}
			assert.Equal(t, 2, inner.calls)
			assert.Empty(t, mr.Keys())
		})
	}
}

func TestCachingMarketRepository_NilRedisBypasses(t *testing.T) {
	t.Parallel()

	inner := &mockMarketRepository{
		getFn: func(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
			return []entity.Candle{{Symbol: symbol}}, nil
		},
	}
	repo := NewCachingMarketRepository(nil, inner, Options{})

	for i := 0; i < 3; i++ {
		out, err := repo.GetTimeSeries(context.Background(), "NVDA", "1day", entity.Range{}, 0)
		require.NoError(t, err)
		require.Len(t, out, 1)
	}
	assert.Equal(t, 3, inner.calls)
}

func TestCachingMarketRepository_CorruptedEntryFallsBack(t *testing.T) {
	t.Parallel()

	mr, rdb := newMiniredis(t)
	key := "market:META:1day:-:-:0"
	require.NoError(t, mr.Set(key, "not json"))

	inner := &mockMarketRepository{
		getFn: func(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
			return []entity.Candle{{Symbol: symbol, Close: 500}}, nil
		},
	}
	repo := NewCachingMarketRepository(rdb, inner, Options{})

	out, err := repo.GetTimeSeries(context.Background(), "META", "1day", entity.Range{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 500.0, out[0].Close)
	assert.Equal(t, 1, inner.calls)

	raw, err := mr.Get(key)
	require.NoError(t, err)
	assert.NotEqual(t, "not json", raw)
}

// キャッシュヒットでは DB への書き込みも stored candles の無効化も起きないことを確認します。
func TestCachingMarketRepository_HitSkipsWriteBehind(t *testing.T) {
	t.Parallel()

	_, rdb := newMiniredis(t)
	inner := &mockMarketRepository{
		getFn: func(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
			return storedBars(symbol), nil
		},
	}
	upserts := 0
	store := &mockCandleRepository{upsertBatchFn: func(context.Context, []entity.Candle) error {
		upserts++
		return nil
	}}
	repo := NewCachingMarketRepository(rdb, usecase.NewWriteBehindMarket(inner, store), Options{TTL: FixedTTL(time.Hour)})
	rng := entity.Range{Start: day("2024-07-01"), End: day("2024-07-30")}

	for i := 0; i < 3; i++ {
		out, err := repo.GetTimeSeries(context.Background(), "GOOGL", "1day", rng, 0)
		require.NoError(t, err)
		require.Len(t, out, 2)
	}
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, upserts, "only the provider miss is written to the store")
}

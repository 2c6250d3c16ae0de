package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/candles/domain/entity"
)

func TestWriteBehindMarket_GetTimeSeries(t *testing.T) {
	newestFirst := []entity.Candle{
		{Time: day(2024, 1, 3), Close: 103},
		{Time: day(2024, 1, 2), Close: 102},
		{Time: day(2024, 1, 1), Close: 101},
	}

	tests := []struct {
		name       string
		rng        entity.Range
		rows       []entity.Candle
		marketErr  error
		storeErr   error
		wantErr    error
		wantLen    int
		wantStored []float64
	}{
		{
			name:       "success: stores ascending bars",
			rows:       newestFirst,
			wantLen:    3,
			wantStored: []float64{101, 102, 103},
		},
		{
			name:       "success: only bars inside the range are stored",
			rng:        entity.Range{Start: day(2024, 1, 2), End: day(2024, 1, 3)},
			rows:       newestFirst,
			wantLen:    3,
			wantStored: []float64{102, 103},
		},
		{
			name:       "success: store failure is not fatal",
			rows:       newestFirst,
			storeErr:   ErrDB,
			wantLen:    3,
			wantStored: []float64{101, 102, 103},
		},
		{
			name:    "empty result is not stored",
			rows:    []entity.Candle{},
			wantLen: 0,
		},
		{
			name:      "provider error is returned and not stored",
			marketErr: ErrNotFound,
			wantErr:   ErrNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			market := &mockMarketRepository{
				GetTimeSeriesFunc: func(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
					return tc.rows, tc.marketErr
				},
			}
			var stored []entity.Candle
			store := &mockCandleRepository{
				UpsertBatchFunc: func(ctx context.Context, candles []entity.Candle) error {
					stored = append(stored, candles...)
					return tc.storeErr
				},
			}

			got, err := NewWriteBehindMarket(market, store).GetTimeSeries(context.Background(), "googl", "1day", tc.rng, 0)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, stored)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tc.wantLen)

			closes := make([]float64, 0, len(stored))
			for _, c := range stored {
				closes = append(closes, c.Close)
				assert.Equal(t, "GOOGL", c.Symbol)
				assert.Equal(t, "1day", c.Interval)
			}
			if tc.wantStored == nil {
				assert.Empty(t, closes)
			} else {
				assert.Equal(t, tc.wantStored, closes)
			}
		})
	}
}

func TestWriteBehindMarket_DoesNotMutateProviderSlice(t *testing.T) {
	raw := []entity.Candle{
		{Time: day(2024, 1, 2), Close: 2},
		{Time: day(2024, 1, 1), Close: 1},
	}
	market := &mockMarketRepository{
		GetTimeSeriesFunc: func(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
			return raw, nil
		},
	}
	store := &mockCandleRepository{
		UpsertBatchFunc: func(ctx context.Context, candles []entity.Candle) error { return nil },
	}

	got, err := NewWriteBehindMarket(market, store).GetTimeSeries(context.Background(), "AAPL", "1day", entity.Range{}, 0)
	require.NoError(t, err)

	assert.Equal(t, 2.0, got[0].Close)
	assert.Equal(t, 2.0, raw[0].Close)
	assert.Empty(t, raw[0].Symbol)
}

func TestWriteBehindMarket_NilStore(t *testing.T) {
	market := &mockMarketRepository{
		GetTimeSeriesFunc: func(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
			return []entity.Candle{{Time: day(2024, 1, 1), Close: 1}}, nil
		},
	}

	got, err := NewWriteBehindMarket(market, nil).GetTimeSeries(context.Background(), "AAPL", "1day", entity.Range{}, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, market.GetTimeSeriesCalls)
}

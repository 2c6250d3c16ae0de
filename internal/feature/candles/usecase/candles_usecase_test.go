package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/candles/domain/entity"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

// mockCandleRepository はCandleRepositoryインターフェースのモック実装です。
type mockCandleRepository struct {
	FindFunc        func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
	UpsertBatchFunc func(ctx context.Context, candles []entity.Candle) error
	FindCalls       int
}

func (m *mockCandleRepository) Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	m.FindCalls++
	if m.FindFunc != nil {
		return m.FindFunc(ctx, symbol, interval, outputsize)
	}
	return nil, errors.New("FindFunc is not implemented")
}

func (m *mockCandleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, candles)
	}
	return errors.New("UpsertBatchFunc is not implemented")
}

func TestStoredCandlesUsecase_Latest(t *testing.T) {
	t.Parallel()

	d := func(day int) time.Time { return time.Date(2024, 7, day, 0, 0, 0, 0, time.UTC) }
	newestFirst := []entity.Candle{{Time: d(3), Close: 3}, {Time: d(2), Close: 2}, {Time: d(1), Close: 1}}

	tests := []struct {
		name         string
		symbol       string
		interval     string
		n            int
		rows         []entity.Candle
		findErr      error
		wantSymbol   string
		wantInterval string
		wantN        int
		wantCloses   []float64
		wantErr      error
	}{
		{
			name:         "defaults and ascending order",
			symbol:       " googl ",
			rows:         newestFirst,
			wantSymbol:   "GOOGL",
			wantInterval: "1day",
			wantN:        DefaultLatest,
			wantCloses:   []float64{1, 2, 3},
		},
		{
			name:         "explicit interval and size",
			symbol:       "AAPL",
			interval:     "1week",
			n:            10,
			rows:         newestFirst[:1],
			wantSymbol:   "AAPL",
			wantInterval: "1week",
			wantN:        10,
			wantCloses:   []float64{3},
		},
		{
			name:         "size above max is clamped",
			symbol:       "AAPL",
			interval:     "1month",
			n:            MaxLatest + 1,
			rows:         newestFirst,
			wantSymbol:   "AAPL",
			wantInterval: "1month",
			wantN:        MaxLatest,
			wantCloses:   []float64{1, 2, 3},
		},
		{name: "empty symbol", symbol: "  ", wantErr: ErrInvalidSymbol},
		{name: "unknown interval", symbol: "AAPL", interval: "5min", wantErr: ErrInvalidInterval},
		{
			name:         "nothing stored",
			symbol:       "ZZZZ",
			wantSymbol:   "ZZZZ",
			wantInterval: "1day",
			wantN:        DefaultLatest,
			wantErr:      ErrNotFound,
		},
		{
			name:         "store error",
			symbol:       "AAPL",
			findErr:      ErrDB,
			wantSymbol:   "AAPL",
			wantInterval: "1day",
			wantN:        DefaultLatest,
			wantErr:      ErrDB,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockCandleRepository{
				FindFunc: func(_ context.Context, symbol, interval string, n int) ([]entity.Candle, error) {
					assert.Equal(t, tt.wantSymbol, symbol)
					assert.Equal(t, tt.wantInterval, interval)
					assert.Equal(t, tt.wantN, n)
					if tt.findErr != nil {
						return nil, tt.findErr
					}
					// リポジトリが返したスライスを反転しても呼び出し元のデータは壊れない
					return append([]entity.Candle(nil), tt.rows...), nil
				},
			}

			got, err := NewStoredCandlesUsecase(repo).Latest(context.Background(), tt.symbol, tt.interval, tt.n)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantSymbol == "" {
					assert.Zero(t, repo.FindCalls, "validation errors must not hit the store")
				}
				return
			}
			require.NoError(t, err)
			closes := make([]float64, len(got))
			for i, c := range got {
				closes[i] = c.Close
			}
			assert.Equal(t, tt.wantCloses, closes)
		})
	}
}

package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/candles/domain/entity"
)

var ErrMarketAPI = errors.New("market API error")

// mockMarketRepository is a mock implementation of the MarketRepository interface.
type mockMarketRepository struct {
	GetTimeSeriesFunc  func(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error)
	GetTimeSeriesCalls int
}

func (m *mockMarketRepository) GetTimeSeries(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
	m.GetTimeSeriesCalls++
	if m.GetTimeSeriesFunc != nil {
		return m.GetTimeSeriesFunc(ctx, symbol, interval, rng, outputsize)
	}
	return nil, errors.New("GetTimeSeriesFunc is not implemented")
}

// mockRateLimiter is a mock implementation of the ratelimiter.Limiter interface.
type mockRateLimiter struct {
	WaitCalls int
	WaitErr   error
}

func (m *mockRateLimiter) Wait(context.Context) error {
	m.WaitCalls++
	return m.WaitErr
}

type call struct{ symbol, interval string }

// recordingStore は UpsertBatch に渡された足を銘柄・時間足ごとに記録します。
type recordingStore struct {
	mu    sync.Mutex
	saved map[call][]entity.Candle
	err   func(symbol, interval string) error
}

func (s *recordingStore) Find(context.Context, string, string, int) ([]entity.Candle, error) {
	return nil, nil
}

func (s *recordingStore) UpsertBatch(_ context.Context, candles []entity.Candle) error {
	c := call{candles[0].Symbol, candles[0].Interval}
	if s.err != nil {
		if err := s.err(c.symbol, c.interval); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		s.saved = map[call][]entity.Candle{}
	}
	s.saved[c] = candles
	return nil
}

func bars(n int) []entity.Candle {
	day0 := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	out := make([]entity.Candle, n)
	for i := range out {
		out[i] = entity.Candle{Time: day0.AddDate(0, 0, i), Open: 100, High: 101, Low: 99, Close: 100.5}
	}
	return out
}

func TestIngestUsecase_IngestAll(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		symbols     []string
		fetch       func(symbol, interval string) ([]entity.Candle, error)
		storeErr    func(symbol, interval string) error
		wantCalls   int
		wantResult  IngestResult
		wantSavedOK []call
	}{
		{
			name:       "all symbols and intervals",
			symbols:    []string{"GOOGL", "EURUSD=X"},
			fetch:      func(string, string) ([]entity.Candle, error) { return bars(2), nil },
			wantCalls:  6,
			wantResult: IngestResult{Succeeded: 6, Stored: 12},
			wantSavedOK: []call{
				{"GOOGL", "1day"}, {"GOOGL", "1week"}, {"GOOGL", "1month"},
				{"EURUSD=X", "1day"}, {"EURUSD=X", "1week"}, {"EURUSD=X", "1month"},
			},
		},
		{
			name:        "codes are normalized and blanks skipped",
			symbols:     []string{" aapl ", ""},
			fetch:       func(string, string) ([]entity.Candle, error) { return bars(1), nil },
			wantCalls:   3,
			wantResult:  IngestResult{Succeeded: 3, Stored: 3},
			wantSavedOK: []call{{"AAPL", "1day"}},
		},
		{
			name:      "empty symbol list",
			symbols:   nil,
			wantCalls: 0,
		},
		{
			name:    "provider error does not stop the batch",
			symbols: []string{"AAPL", "INVALID", "MSFT"},
			fetch: func(symbol, _ string) ([]entity.Candle, error) {
				if symbol == "INVALID" {
					return nil, ErrMarketAPI
				}
				return bars(1), nil
			},
			wantCalls:   9,
			wantResult:  IngestResult{Succeeded: 6, Failed: 3, Stored: 6},
			wantSavedOK: []call{{"AAPL", "1month"}, {"MSFT", "1day"}},
		},
		{
			name:    "empty provider result counts as failure",
			symbols: []string{"ZZZZ"},
			fetch: func(string, string) ([]entity.Candle, error) {
				return nil, nil
			},
			wantCalls:  3,
			wantResult: IngestResult{Failed: 3},
		},
		{
			name:    "store error does not stop the batch",
			symbols: []string{"AAPL", "MSFT"},
			fetch:   func(string, string) ([]entity.Candle, error) { return bars(2), nil },
			storeErr: func(symbol, _ string) error {
				if symbol == "AAPL" {
					return ErrDB
				}
				return nil
			},
			wantCalls:   6,
			wantResult:  IngestResult{Succeeded: 3, Failed: 3, Stored: 6},
			wantSavedOK: []call{{"MSFT", "1week"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			market := &mockMarketRepository{
				GetTimeSeriesFunc: func(_ context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
					assert.True(t, rng.Start.IsZero() && rng.End.IsZero(), "ingest asks for the latest bars")
					assert.Equal(t, ingestBars, outputsize)
					return tt.fetch(symbol, interval)
				},
			}
			store := &recordingStore{err: tt.storeErr}
			rl := &mockRateLimiter{}

			res, err := NewIngestUsecase(market, store, rl).IngestAll(ctx, tt.symbols)
			require.NoError(t, err)

			assert.Equal(t, tt.wantResult, res)
			assert.Equal(t, tt.wantCalls, market.GetTimeSeriesCalls)
			assert.Equal(t, tt.wantCalls, rl.WaitCalls, "one limiter wait per request")
			for _, c := range tt.wantSavedOK {
				saved, ok := store.saved[c]
				if assert.True(t, ok, "%v not saved", c) {
					for _, cd := range saved {
						assert.Equal(t, c.symbol, cd.Symbol)
						assert.Equal(t, c.interval, cd.Interval)
					}
				}
			}
		})
	}
}

func TestIngestUsecase_DoesNotMutateProviderSlice(t *testing.T) {
	raw := bars(3)
	market := &mockMarketRepository{
		GetTimeSeriesFunc: func(context.Context, string, string, entity.Range, int) ([]entity.Candle, error) {
			return raw, nil
		},
	}

	_, err := NewIngestUsecase(market, &recordingStore{}, &mockRateLimiter{}).IngestAll(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	for _, c := range raw {
		assert.Empty(t, c.Symbol)
		assert.Empty(t, c.Interval)
	}
}

func TestIngestUsecase_IngestAll_StopsWhenLimiterCanceled(t *testing.T) {
	market := &mockMarketRepository{
		GetTimeSeriesFunc: func(context.Context, string, string, entity.Range, int) ([]entity.Candle, error) {
			t.Error("GetTimeSeries should not be called")
			return nil, nil
		},
	}
	rl := &mockRateLimiter{WaitErr: context.Canceled}

	res, err := NewIngestUsecase(market, &recordingStore{}, rl).IngestAll(context.Background(), []string{"AAPL", "GOOG"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, IngestResult{}, res)
	assert.Equal(t, 1, rl.WaitCalls)
}

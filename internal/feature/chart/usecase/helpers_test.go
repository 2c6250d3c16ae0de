package usecase

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	candleentity "stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/chart/domain/indicator"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// makeBars は day0 から1日おきに n 本の日足を作ります。終値は close(i) です。
func makeBars(n int, close func(i int) float64) []candleentity.Candle {
	out := make([]candleentity.Candle, n)
	for i := range out {
		c := close(i)
		out[i] = candleentity.Candle{
			Symbol:   "GOOGL",
			Interval: "1day",
			Time:     day0.AddDate(0, 0, i),
			Open:     c - 0.5,
			High:     c + 1,
			Low:      c - 1,
			Close:    c,
			Volume:   int64(1000 + i),
		}
	}
	return out
}

func wavy(i int) float64 {
	return 100 + float64(i)*0.3 + 5*math.Sin(float64(i)/4)
}

// assertSameColumn は NaN 同士を等しいとみなして比較します。
func assertSameColumn(t *testing.T, want, got indicator.Column, msgAndArgs ...any) {
	t.Helper()
	if !assert.Len(t, got, len(want), msgAndArgs...) {
		return
	}
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "index %d: want NaN, got %v", i, got[i])
			continue
		}
		assert.InDelta(t, want[i], got[i], 1e-9, "index %d", i)
	}
}

package usecase

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	candleentity "stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/chart/domain/indicator"
)

func fullSpec() entity.ChartSpec {
	return entity.ChartSpec{
		Symbol:    "GOOGL",
		EMASpans:  []int{20, 50},
		MAShort:   20,
		MALong:    100,
		Envelope:  &entity.EnvelopeSpec{Window: 20, Pct: 5},
		RSI:       true,
		RSIWindow: 14,
		MACD:      true,
	}
}

func TestEnrich_Columns(t *testing.T) {
	t.Parallel()

	s := Enrich(makeBars(150, wavy), fullSpec())

	assert.Equal(t, []string{
		"EMA_20", "EMA_50", "MA_20", "MA_100",
		entity.ColumnEnvelopeMA, entity.ColumnUpperEnvelope, entity.ColumnLowerEnvelope,
		entity.ColumnRSI,
		entity.ColumnMACD, entity.ColumnSignal, entity.ColumnHistogram,
	}, s.Names())

	for _, n := range s.Names() {
		c, ok := s.Column(n)
		require.True(t, ok, n)
		assert.Len(t, c, 150, n)
	}

	ma, _ := s.Column("MA_100")
	assert.True(t, math.IsNaN(ma[98]))
	assert.False(t, math.IsNaN(ma[99]))
}

func TestEnrich_NoOptionalColumns(t *testing.T) {
	t.Parallel()

	s := Enrich(makeBars(10, wavy), entity.ChartSpec{Symbol: "GOOGL"})
	assert.Empty(t, s.Names())
	assert.Equal(t, 10, s.Len())
}

func TestEnrich_Deterministic(t *testing.T) {
	t.Parallel()

	bars := makeBars(200, wavy)
	a := Enrich(bars, fullSpec())
	b := Enrich(bars, fullSpec())

	require.Equal(t, a.Names(), b.Names())
	for _, n := range a.Names() {
		ca, _ := a.Column(n)
		cb, _ := b.Column(n)
		assertSameColumn(t, ca, cb, n)
	}
}

func TestEnrich_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	bars := makeBars(60, wavy)
	orig := make([]candleentity.Candle, len(bars))
	copy(orig, bars)

	s := Enrich(bars, fullSpec())
	s.Bars[0].Close = -1

	assert.Equal(t, orig, bars)
}

func TestVisible_IndicatorsComputedBeforeTruncation(t *testing.T) {
	t.Parallel()

	bars := makeBars(300, wavy)
	spec := fullSpec()
	spec.Range = candleentity.Range{Start: day0.AddDate(0, 0, 150), End: day0.AddDate(0, 0, 269)}
	spec.Days = 60

	full := Enrich(bars, spec)
	vis := Visible(full, spec)
	require.Equal(t, 60, vis.Len())
	assert.Equal(t, day0.AddDate(0, 0, 210), vis.Bars[0].Time)
	assert.Equal(t, day0.AddDate(0, 0, 269), vis.Bars[59].Time)

	const offset = 210
	for _, n := range full.Names() {
		fc, _ := full.Column(n)
		vc, _ := vis.Column(n)
		assertSameColumn(t, fc[offset:offset+60], vc, n)
	}

	// 切り詰めてから計算すると値が変わる
	late := Enrich(bars[offset:offset+60], spec)
	fe, _ := vis.Column("EMA_50")
	le, _ := late.Column("EMA_50")
	assert.NotEqual(t, fe[0], le[0])
	assert.NotEqual(t, fe[10], le[10])
}

func TestWarmupBars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec entity.ChartSpec
		want int
	}{
		{name: "nothing", spec: entity.ChartSpec{}, want: 0},
		{name: "ema spans", spec: entity.ChartSpec{EMASpans: []int{20, 200}}, want: 200},
		{name: "rsi", spec: entity.ChartSpec{RSI: true, RSIWindow: 14}, want: 15},
		{name: "macd", spec: entity.ChartSpec{MACD: true}, want: indicator.MACDSlow + indicator.MACDSignal},
		{name: "envelope", spec: entity.ChartSpec{Envelope: &entity.EnvelopeSpec{Window: 40, Pct: 2}}, want: 40},
		{name: "largest wins", spec: fullSpec(), want: 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, WarmupBars(tt.spec))
		})
	}
}

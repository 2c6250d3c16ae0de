package usecase

import (
	"fmt"

	candleentity "stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/chart/domain/indicator"
)

// EMAColumn は指数移動平均列の名前を返します。
func EMAColumn(span int) string { return fmt.Sprintf("EMA_%d", span) }

// MAColumn は単純移動平均列の名前を返します。
func MAColumn(window int) string { return fmt.Sprintf("MA_%d", window) }

// Enrich はバーをコピーし、spec で要求された指標列を全期間で計算して追加します。
// 表示用の切り詰めはこの後に行うこと。先に切り詰めるとウォームアップがずれて値が変わります。
func Enrich(bars []candleentity.Candle, spec entity.ChartSpec) entity.Series {
	s := entity.NewSeries(spec.Symbol, bars)
	closes := s.Closes()

	for _, span := range spec.EMASpans {
		s = s.WithColumn(EMAColumn(span), indicator.EMA(closes, span))
	}
	for _, w := range []int{spec.MAShort, spec.MALong} {
		if w > 0 {
			s = s.WithColumn(MAColumn(w), indicator.SMA(closes, w))
		}
	}
	if spec.Envelope != nil {
		env := indicator.Envelope(closes, spec.Envelope.Window, spec.Envelope.Pct)
		s = s.WithColumn(entity.ColumnEnvelopeMA, env.MA).
			WithColumn(entity.ColumnUpperEnvelope, env.Upper).
			WithColumn(entity.ColumnLowerEnvelope, env.Lower)
	}
	if spec.RSI {
		s = s.WithColumn(entity.ColumnRSI, indicator.RSI(closes, spec.RSIWindow))
	}
	if spec.MACD {
		m := indicator.MACD(closes)
		s = s.WithColumn(entity.ColumnMACD, m.MACD).
			WithColumn(entity.ColumnSignal, m.Signal).
			WithColumn(entity.ColumnHistogram, m.Histogram)
	}
	return s
}

// Visible は表示期間に切り詰めます。Range で切り出した後、Days > 0 なら末尾 Days 本に絞ります。
func Visible(s entity.Series, spec entity.ChartSpec) entity.Series {
	s = s.Between(spec.Range)
	if spec.Days > 0 {
		s = s.Tail(spec.Days)
	}
	return s
}

// WarmupBars は表示開始時点で指標が安定するのに必要な先行バー数を返します。
func WarmupBars(spec entity.ChartSpec) int {
	n := 0
	grow := func(v int) {
		if v > n {
			n = v
		}
	}
	for _, span := range spec.EMASpans {
		grow(span)
	}
	grow(spec.MAShort)
	grow(spec.MALong)
	if spec.Envelope != nil {
		grow(spec.Envelope.Window)
	}
	if spec.RSI {
		grow(spec.RSIWindow + 1)
	}
	if spec.MACD {
		grow(indicator.MACDSlow + indicator.MACDSignal)
	}
	return n
}

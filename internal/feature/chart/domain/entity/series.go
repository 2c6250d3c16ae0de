package entity

import (
	candleentity "stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/chart/domain/indicator"
)

// 指標列の名前です。CSVエクスポートの列名にもなります。
const (
	ColumnRSI           = "RSI"
	ColumnMACD          = "MACD"
	ColumnSignal        = "Signal Line"
	ColumnHistogram     = "MACD Hist"
	ColumnEnvelopeMA    = "MA"
	ColumnUpperEnvelope = "Upper Envelope"
	ColumnLowerEnvelope = "Lower Envelope"
)

// Series は価格系列と、それに整列した指標列を保持します。
// すべての列はバーと同じ長さで、同じ index が同じ日付を表します。
type Series struct {
	Symbol string
	Bars   []candleentity.Candle

	names   []string
	columns map[string]indicator.Column
}

// NewSeries はバーをコピーして新しい Series を作成します。
func NewSeries(symbol string, bars []candleentity.Candle) Series {
	cp := make([]candleentity.Candle, len(bars))
	copy(cp, bars)
	return Series{Symbol: symbol, Bars: cp, columns: map[string]indicator.Column{}}
}

// Len はバーの本数を返します。
func (s Series) Len() int { return len(s.Bars) }

// WithColumn は列を追加した新しい Series を返します。同名の列は置き換えます。
func (s Series) WithColumn(name string, col indicator.Column) Series {
	out := Series{
		Symbol:  s.Symbol,
		Bars:    s.Bars,
		names:   make([]string, 0, len(s.names)+1),
		columns: make(map[string]indicator.Column, len(s.columns)+1),
	}
	for _, n := range s.names {
		out.names = append(out.names, n)
		out.columns[n] = s.columns[n]
	}
	if _, ok := out.columns[name]; !ok {
		out.names = append(out.names, name)
	}
	out.columns[name] = col
	return out
}

// Column は名前で指標列を返します。
func (s Series) Column(name string) (indicator.Column, bool) {
	c, ok := s.columns[name]
	return c, ok
}

// Names は追加順の列名を返します。
func (s Series) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Closes は終値の列を返します。
func (s Series) Closes() []float64 {
	return s.field(func(c candleentity.Candle) float64 { return c.Close })
}

// Opens は始値の列を返します。
func (s Series) Opens() []float64 {
	return s.field(func(c candleentity.Candle) float64 { return c.Open })
}

// Highs は高値の列を返します。
func (s Series) Highs() []float64 {
	return s.field(func(c candleentity.Candle) float64 { return c.High })
}

// Lows は安値の列を返します。
func (s Series) Lows() []float64 {
	return s.field(func(c candleentity.Candle) float64 { return c.Low })
}

// Volumes は出来高の列を返します。
func (s Series) Volumes() []float64 {
	return s.field(func(c candleentity.Candle) float64 { return float64(c.Volume) })
}

// Dates はバーの日付を YYYY-MM-DD 形式で返します。
func (s Series) Dates() []string {
	out := make([]string, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Time.UTC().Format("2006-01-02")
	}
	return out
}

// Tail は末尾 n 本に切り詰めた Series を返します。n <= 0 または全長以上なら全体のコピーです。
func (s Series) Tail(n int) Series {
	if n <= 0 || n >= len(s.Bars) {
		return s.slice(0, len(s.Bars))
	}
	return s.slice(len(s.Bars)-n, len(s.Bars))
}

// Between は rng に含まれる日付だけを残した Series を返します。
// バーは昇順である前提で、連続区間として切り出します。
func (s Series) Between(rng candleentity.Range) Series {
	from, to := 0, 0
	found := false
	for i, b := range s.Bars {
		if !rng.Contains(b.Time) {
			continue
		}
		if !found {
			from, found = i, true
		}
		to = i + 1
	}
	return s.slice(from, to)
}

func (s Series) slice(from, to int) Series {
	out := Series{
		Symbol:  s.Symbol,
		Bars:    make([]candleentity.Candle, to-from),
		names:   make([]string, len(s.names)),
		columns: make(map[string]indicator.Column, len(s.columns)),
	}
	copy(out.Bars, s.Bars[from:to])
	copy(out.names, s.names)
	for n, c := range s.columns {
		out.columns[n] = c.Slice(from, to)
	}
	return out
}

func (s Series) field(f func(candleentity.Candle) float64) []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = f(b)
	}
	return out
}

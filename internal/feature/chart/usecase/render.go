package usecase

import (
	"fmt"
	"math"
	"strconv"

	"stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/chart/domain/indicator"
	themeentity "stock_dashboard/internal/feature/theme/domain/entity"
)

const (
	baseHeight      = 400
	panelHeight     = 200
	panelGap        = 0.04
	pricePanelShare = 0.5
	rangePad        = 0.05
	frameDuration   = 20 // ms
)

type panelKind int

const (
	panelPrice panelKind = iota
	panelRSI
	panelMACD
	panelVolume
)

func panelsOf(spec entity.ChartSpec) []panelKind {
	panels := []panelKind{panelPrice}
	if spec.RSI {
		panels = append(panels, panelRSI)
	}
	if spec.MACD {
		panels = append(panels, panelMACD)
	}
	if spec.Volume {
		panels = append(panels, panelVolume)
	}
	return panels
}

// Render は表示用に切り詰めた Series から図を組み立てます。副作用はありません。
//
// 価格パネルを最上段に置き、RSI・MACD・出来高のパネルを順に下へ積みます。
// すべてのパネルは x 軸を共有します。spec.Animate の場合は価格パネルのトレースを
// 1本ずつ伸ばすフレームと、再生ボタン・日付スライダーを付けます。
func Render(s entity.Series, spec entity.ChartSpec, th themeentity.Theme) entity.Figure {
	panels := panelsOf(spec)
	domains := panelDomains(len(panels))
	dates := s.Dates()

	fig := entity.Figure{Data: []entity.Trace{}}
	layout := baseLayout(s.Symbol, spec, th, len(panels))

	var animated []int
	for i, p := range panels {
		xref, yref := entity.AxisKey("x", i), entity.AxisKey("y", i)

		var (
			traces []entity.Trace
			yrange []any
			title  string
		)
		switch p {
		case panelPrice:
			traces, yrange = priceTraces(s, spec, dates)
			title = "Price"
			if spec.Market == entity.MarketForex {
				title = "Exchange Rate"
			}
		case panelRSI:
			traces, yrange = rsiTraces(s, dates)
			title = "RSI"
		case panelMACD:
			traces, yrange = macdTraces(s, dates)
			title = "MACD"
		case panelVolume:
			traces, yrange = volumeTraces(s, dates)
			title = "Volume"
		}

		for j := range traces {
			traces[j].XAxis, traces[j].YAxis = xref, yref
			if p == panelPrice {
				animated = append(animated, len(fig.Data)+j)
			}
		}
		fig.Data = append(fig.Data, traces...)

		layout.XAxes = append(layout.XAxes, xAxis(i, len(panels), th))
		layout.YAxes = append(layout.YAxes, entity.Axis{
			Title:    &entity.Title{Text: title, Font: &entity.Font{Color: th.FontColor}},
			Domain:   domains[i],
			Range:    yrange,
			Anchor:   xref,
			TickFont: &entity.Font{Color: th.FontColor},
		})
	}

	if spec.Animate && s.Len() > 0 {
		fig.Frames = animationFrames(fig.Data, animated, s.Len())
		for _, idx := range animated {
			fig.Data[idx] = truncateTrace(fig.Data[idx], 1)
		}
		// フレームごとに軸が再計算されないよう x の範囲を固定する
		fixed := []any{dates[0], dates[len(dates)-1]}
		for i := range layout.XAxes {
			layout.XAxes[i].Range = fixed
		}
		layout.UpdateMenus = []entity.UpdateMenu{playButton()}
		layout.Sliders = []entity.Slider{dateSlider(dates)}
	}

	fig.Layout = layout
	return fig
}

func baseLayout(symbol string, spec entity.ChartSpec, th themeentity.Theme, panels int) entity.Layout {
	title := fmt.Sprintf("%s Stock Price and Indicators", symbol)
	if spec.Market == entity.MarketForex {
		title = fmt.Sprintf("%s Exchange Rate", symbol)
	}
	return entity.Layout{
		Title:        entity.Title{Text: title},
		Height:       baseHeight + panelHeight*(panels-1),
		HoverMode:    "x unified",
		ShowLegend:   true,
		PaperBGColor: th.ChartBackground,
		PlotBGColor:  th.ChartBackground,
		Font:         entity.Font{Color: th.FontColor},
		Margin:       entity.Margin{L: 50, R: 50, T: 50, B: 50},
	}
}

func xAxis(i, panels int, th themeentity.Theme) entity.Axis {
	ax := entity.Axis{
		Type:        "date",
		Anchor:      entity.AxisKey("y", i),
		TickFont:    &entity.Font{Color: th.FontColor},
		RangeSlider: &entity.RangeSlider{Visible: false},
	}
	if i > 0 {
		ax.Matches = "x"
	}
	if i < panels-1 {
		hidden := false
		ax.ShowTickLabels = &hidden
	} else {
		ax.Title = &entity.Title{Text: "Date", Font: &entity.Font{Color: th.FontColor}}
	}
	return ax
}

// panelDomains は上から順に各パネルの y 方向の domain を返します。
// 価格パネルが利用可能な高さの半分を使い、残りを指標パネルで等分します。
func panelDomains(n int) [][]float64 {
	if n <= 1 {
		return [][]float64{{0, 1}}
	}
	usable := 1 - panelGap*float64(n-1)
	price := usable * pricePanelShare
	other := (usable - price) / float64(n-1)

	out := make([][]float64, n)
	top := 1.0
	for i := 0; i < n; i++ {
		h := other
		if i == 0 {
			h = price
		}
		bottom := math.Max(0, top-h)
		if i == n-1 {
			bottom = 0
		}
		out[i] = []float64{round4(bottom), round4(top)}
		top = bottom - panelGap
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func priceTraces(s entity.Series, spec entity.ChartSpec, dates []string) ([]entity.Trace, []any) {
	var (
		traces []entity.Trace
		seen   []indicator.Column
	)

	switch spec.Style {
	case entity.StyleCandlestick, entity.StyleOHLC:
		t := entity.Trace{
			Type:  "candlestick",
			Name:  "Candlestick",
			X:     dates,
			Open:  s.Opens(),
			High:  s.Highs(),
			Low:   s.Lows(),
			Close: s.Closes(),
		}
		if spec.Style == entity.StyleOHLC {
			t.Type, t.Name = "ohlc", "OHLC"
		}
		traces = append(traces, t)
		seen = append(seen, s.Lows(), s.Highs())
	case entity.StyleLine:
		traces = append(traces, lineTrace("Close Price", dates, s.Closes(), nil))
		seen = append(seen, s.Closes())
	}

	overlay := func(column, name string, line *entity.Line) {
		c, ok := s.Column(column)
		if !ok {
			return
		}
		traces = append(traces, lineTrace(name, dates, c, line))
		seen = append(seen, c)
	}
	for _, span := range spec.EMASpans {
		overlay(EMAColumn(span), EMAColumn(span), nil)
	}
	if spec.MAShort > 0 {
		overlay(MAColumn(spec.MAShort), fmt.Sprintf("Short %d-day MA", spec.MAShort), &entity.Line{Color: "blue"})
	}
	if spec.MALong > 0 {
		overlay(MAColumn(spec.MALong), fmt.Sprintf("Long %d-day MA", spec.MALong), &entity.Line{Color: "red"})
	}
	if spec.Envelope != nil {
		overlay(entity.ColumnEnvelopeMA, fmt.Sprintf("MA %d", spec.Envelope.Window), &entity.Line{Color: "orange", Width: 2, Dash: "dash"})
		overlay(entity.ColumnUpperEnvelope, entity.ColumnUpperEnvelope, &entity.Line{Color: "green", Width: 2, Dash: "dash"})
		overlay(entity.ColumnLowerEnvelope, entity.ColumnLowerEnvelope, &entity.Line{Color: "red", Width: 2, Dash: "dash"})
	}

	return traces, paddedRange(seen...)
}

func rsiTraces(s entity.Series, dates []string) ([]entity.Trace, []any) {
	c, ok := s.Column(entity.ColumnRSI)
	if !ok {
		return nil, []any{0, 100}
	}
	return []entity.Trace{lineTrace("RSI", dates, c, nil)}, []any{0, 100}
}

func macdTraces(s entity.Series, dates []string) ([]entity.Trace, []any) {
	var (
		traces []entity.Trace
		seen   []indicator.Column
	)
	if c, ok := s.Column(entity.ColumnMACD); ok {
		traces = append(traces, lineTrace("MACD", dates, c, nil))
		seen = append(seen, c)
	}
	if c, ok := s.Column(entity.ColumnSignal); ok {
		traces = append(traces, lineTrace("Signal Line", dates, c, nil))
		seen = append(seen, c)
	}
	if c, ok := s.Column(entity.ColumnHistogram); ok {
		traces = append(traces, entity.Trace{Type: "bar", Name: "MACD Hist", X: dates, Y: entity.Values(c)})
		seen = append(seen, c)
	}
	return traces, paddedRange(seen...)
}

func volumeTraces(s entity.Series, dates []string) ([]entity.Trace, []any) {
	vol := s.Volumes()
	t := entity.Trace{Type: "bar", Name: "Volume", X: dates, Y: vol}
	_, hi, ok := indicator.Column(vol).MinMax()
	if !ok || hi <= 0 {
		return []entity.Trace{t}, nil
	}
	return []entity.Trace{t}, []any{0, hi * (1 + rangePad)}
}

func lineTrace(name string, dates []string, y []float64, line *entity.Line) entity.Trace {
	return entity.Trace{Type: "scatter", Mode: "lines", Name: name, X: dates, Y: y, Line: line}
}

// paddedRange は定義済みの値の最小・最大を ±5% 広げた範囲を返します。
// 値がひとつもなければ nil（autorange）です。
func paddedRange(cols ...indicator.Column) []any {
	lo, hi := math.Inf(1), math.Inf(-1)
	found := false
	for _, c := range cols {
		l, h, ok := c.MinMax()
		if !ok {
			continue
		}
		lo, hi, found = math.Min(lo, l), math.Max(hi, h), true
	}
	if !found {
		return nil
	}
	pad := (hi - lo) * rangePad
	if pad == 0 {
		pad = math.Abs(lo) * rangePad
		if pad == 0 {
			pad = 1
		}
	}
	return []any{lo - pad, hi + pad}
}

func animationFrames(data []entity.Trace, animated []int, n int) []entity.Frame {
	frames := make([]entity.Frame, n)
	for k := 0; k < n; k++ {
		fd := make([]entity.Trace, len(animated))
		for j, idx := range animated {
			fd[j] = truncateTrace(data[idx], k+1)
		}
		frames[k] = entity.Frame{Name: strconv.Itoa(k), Data: fd, Traces: animated}
	}
	return frames
}

func truncateTrace(t entity.Trace, n int) entity.Trace {
	cut := func(v entity.Values) entity.Values {
		if v == nil || n >= len(v) {
			return v
		}
		return v[:n]
	}
	out := t
	if n < len(t.X) {
		out.X = t.X[:n]
	}
	out.Y = cut(t.Y)
	out.Open = cut(t.Open)
	out.High = cut(t.High)
	out.Low = cut(t.Low)
	out.Close = cut(t.Close)
	return out
}

func animateArgs() map[string]any {
	return map[string]any{
		"frame": map[string]any{"duration": frameDuration, "redraw": true},
		"mode":  "immediate",
	}
}

func playButton() entity.UpdateMenu {
	args := animateArgs()
	args["fromcurrent"] = true
	return entity.UpdateMenu{
		Type:       "buttons",
		ShowActive: false,
		Buttons: []entity.Button{{
			Label:  "Play",
			Method: "animate",
			Args:   []any{nil, args},
		}},
	}
}

func dateSlider(dates []string) entity.Slider {
	steps := make([]entity.SliderStep, len(dates))
	for k, d := range dates {
		steps[k] = entity.SliderStep{
			Label:  d,
			Method: "animate",
			Args:   []any{[]string{strconv.Itoa(k)}, animateArgs()},
		}
	}
	return entity.Slider{
		Steps:      steps,
		Transition: map[string]int{"duration": 0},
		X:          0.1,
		Len:        0.9,
	}
}

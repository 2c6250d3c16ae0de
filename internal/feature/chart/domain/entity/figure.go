package entity

import (
	"encoding/json"
	"math"
	"strconv"
)

// Figure は plotly.js にそのまま渡せる図の定義です。
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
	Frames []Frame `json:"frames,omitempty"`
}

// Values は数値列です。NaN と Inf は JSON の null（plotly では欠損）として出力されます。
type Values []float64

// MarshalJSON implements json.Marshaler.
func (v Values) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	b := make([]byte, 0, 2+len(v)*10)
	b = append(b, '[')
	for i, f := range v {
		if i > 0 {
			b = append(b, ',')
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			b = append(b, "null"...)
			continue
		}
		b = strconv.AppendFloat(b, f, 'f', -1, 64)
	}
	return append(b, ']'), nil
}

// UnmarshalJSON implements json.Unmarshaler. null は NaN に戻します。
func (v *Values) UnmarshalJSON(b []byte) error {
	var raw []*float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*v = nil
		return nil
	}
	out := make(Values, len(raw))
	for i, p := range raw {
		if p == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *p
	}
	*v = out
	return nil
}

// Trace は1本の系列（candlestick, ohlc, scatter, bar）です。
type Trace struct {
	Type   string   `json:"type"`
	Name   string   `json:"name,omitempty"`
	Mode   string   `json:"mode,omitempty"`
	X      []string `json:"x"`
	Y      Values   `json:"y,omitempty"`
	Open   Values   `json:"open,omitempty"`
	High   Values   `json:"high,omitempty"`
	Low    Values   `json:"low,omitempty"`
	Close  Values   `json:"close,omitempty"`
	XAxis  string   `json:"xaxis,omitempty"`
	YAxis  string   `json:"yaxis,omitempty"`
	Line   *Line    `json:"line,omitempty"`
	Marker *Marker  `json:"marker,omitempty"`
}

// Marker は棒グラフなどの塗りの設定です。
type Marker struct {
	Color string `json:"color,omitempty"`
}

// Line は折れ線の見た目です。
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

// Font は文字の見た目です。
type Font struct {
	Color string `json:"color,omitempty"`
}

// Title はタイトル文字列です。
type Title struct {
	Text string `json:"text"`
	Font *Font  `json:"font,omitempty"`
}

// RangeSlider は x 軸下のレンジスライダーの表示設定です。
type RangeSlider struct {
	Visible bool `json:"visible"`
}

// Axis は x 軸または y 軸の設定です。Range が nil の場合は autorange になります。
type Axis struct {
	Title          *Title       `json:"title,omitempty"`
	Type           string       `json:"type,omitempty"`
	Domain         []float64    `json:"domain,omitempty"`
	Range          []any        `json:"range,omitempty"`
	Anchor         string       `json:"anchor,omitempty"`
	Matches        string       `json:"matches,omitempty"`
	ShowTickLabels *bool        `json:"showticklabels,omitempty"`
	TickFont       *Font        `json:"tickfont,omitempty"`
	RangeSlider    *RangeSlider `json:"rangeslider,omitempty"`
}

// Margin は図の余白です。
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Layout は図全体のレイアウトです。
// XAxes, YAxes はパネル順に並び、JSON では xaxis, xaxis2, ... のキーに展開されます。
type Layout struct {
	Title        Title        `json:"title"`
	Height       int          `json:"height"`
	HoverMode    string       `json:"hovermode"`
	ShowLegend   bool         `json:"showlegend"`
	PaperBGColor string       `json:"paper_bgcolor,omitempty"`
	PlotBGColor  string       `json:"plot_bgcolor,omitempty"`
	Font         Font         `json:"font"`
	Margin       Margin       `json:"margin"`
	UpdateMenus  []UpdateMenu `json:"updatemenus,omitempty"`
	Sliders      []Slider     `json:"sliders,omitempty"`

	XAxes []Axis `json:"-"`
	YAxes []Axis `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (l Layout) MarshalJSON() ([]byte, error) {
	type plain Layout
	b, err := json.Marshal(plain(l))
	if err != nil {
		return nil, err
	}
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for i, ax := range l.XAxes {
		raw, err := json.Marshal(ax)
		if err != nil {
			return nil, err
		}
		m[AxisKey("xaxis", i)] = raw
	}
	for i, ax := range l.YAxes {
		raw, err := json.Marshal(ax)
		if err != nil {
			return nil, err
		}
		m[AxisKey("yaxis", i)] = raw
	}
	return json.Marshal(m)
}

// AxisKey は i 番目（0始まり）のパネルの軸キーを返します。
// prefix が "xaxis" なら xaxis, xaxis2, ...、"x" ならトレースが参照する x, x2, ... になります。
func AxisKey(prefix string, i int) string {
	if i == 0 {
		return prefix
	}
	return prefix + strconv.Itoa(i+1)
}

// Frame はアニメーションの1コマです。Traces は Data の差し替え先 index です。
type Frame struct {
	Name   string  `json:"name"`
	Data   []Trace `json:"data"`
	Traces []int   `json:"traces"`
}

// UpdateMenu は再生ボタンなどのメニューです。
type UpdateMenu struct {
	Type       string   `json:"type"`
	ShowActive bool     `json:"showactive"`
	Buttons    []Button `json:"buttons"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
}

// Button はメニューのボタンです。Args は plotly の animate 引数をそのまま渡します。
type Button struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// Slider はフレームを選ぶスライダーです。
type Slider struct {
	Steps      []SliderStep   `json:"steps"`
	Transition map[string]int `json:"transition"`
	X          float64        `json:"x"`
	Len        float64        `json:"len"`
}

// SliderStep はスライダーの1目盛りです。
type SliderStep struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

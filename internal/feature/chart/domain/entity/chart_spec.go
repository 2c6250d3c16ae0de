// Package entity defines the domain models for the chart feature.
package entity

import (
	candleentity "stock_dashboard/internal/feature/candles/domain/entity"
)

// Market は銘柄の種類です。forex は描画スタイルが制限されます。
type Market string

const (
	MarketStock Market = "stock"
	MarketForex Market = "forex"
)

// Style は価格パネルの描画スタイルです。
type Style string

const (
	StyleCandlestick Style = "candlestick"
	StyleOHLC        Style = "ohlc"
	StyleLine        Style = "line"
	StyleMAOnly      Style = "ma_only"
)

// AllowedStyles は市場ごとに選択可能なスタイルを返します。
func AllowedStyles(m Market) []Style {
	if m == MarketForex {
		return []Style{StyleLine, StyleOHLC}
	}
	return []Style{StyleCandlestick, StyleLine, StyleMAOnly, StyleOHLC}
}

// Allows は市場 m でスタイル s が使えるかを返します。
func (s Style) Allows(m Market) bool {
	for _, a := range AllowedStyles(m) {
		if a == s {
			return true
		}
	}
	return false
}

// EnvelopeSpec は移動平均エンベロープの設定です。
type EnvelopeSpec struct {
	Window int
	Pct    float64
}

// ChartSpec は1回の描画に必要な設定をすべて保持します。
// リクエストごとに組み立てられ、リクエスト間で共有されません。
type ChartSpec struct {
	Symbol string
	Market Market
	Style  Style

	// Range は取得期間です。Days > 0 の場合は、指標計算後に末尾 Days 本へ切り詰めて表示します。
	Range candleentity.Range
	Days  int

	EMASpans []int
	// MAShort, MALong は単純移動平均の期間です。0 は無効を表します。
	MAShort  int
	MALong   int
	Envelope *EnvelopeSpec

	RSI       bool
	RSIWindow int
	MACD      bool
	Volume    bool
	Animate   bool
}

// Panels は縦に並ぶパネル数を返します（価格パネルを含む）。
func (s ChartSpec) Panels() int {
	n := 1
	for _, on := range []bool{s.RSI, s.MACD, s.Volume} {
		if on {
			n++
		}
	}
	return n
}

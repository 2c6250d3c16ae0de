// Package dto はchartフィーチャーのリクエスト型を定義します。
package dto

// ChartRequest は /api/chart と /api/chart/export.csv のクエリパラメータです。
// 1リクエストで描画に必要な設定をすべて受け取ります。
//
// 例: ?symbol=GOOGL&start=2023-01-01&end=2024-07-30&style=candlestick&ema=20,50&rsi=true
type ChartRequest struct {
	Symbol string `form:"symbol" binding:"required"`
	Market string `form:"market" binding:"omitempty,oneof=stock forex"`

	// Start, End は YYYY-MM-DD。Start が空で Period があればプリセットから計算します。
	Start  string `form:"start"`
	End    string `form:"end"`
	Period string `form:"period" binding:"omitempty,oneof=1m 3m 6m 1y 3y 5y"`
	Days   int    `form:"days" binding:"min=0"`

	Style string `form:"style"`
	// EMA はカンマ区切りの期間リストです（例: 20,50,200）。
	EMA            string  `form:"ema"`
	MAShort        int     `form:"ma_short"`
	MALong         int     `form:"ma_long"`
	EnvelopeWindow int     `form:"envelope_window"`
	EnvelopePct    float64 `form:"envelope_pct"`

	RSI       bool `form:"rsi"`
	RSIWindow int  `form:"rsi_window"`
	MACD      bool `form:"macd"`
	Volume    bool `form:"volume"`
	Animate   bool `form:"animate"`

	Theme string `form:"theme"`
}

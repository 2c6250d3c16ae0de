// Package dto はcandlesフィーチャーのHTTP DTOを定義します。
package dto

// CandlesQuery は GET /candles/:code のクエリです。
type CandlesQuery struct {
	Interval   string `form:"interval"`
	Outputsize int    `form:"outputsize" binding:"omitempty,min=0"`
}

// CandleResponse は1本分のローソク足です。
type CandleResponse struct {
	Time   string  `json:"time"` // 2006-01-02
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// CandlesResponse は保存済みローソク足の一覧（古い順）です。
type CandlesResponse struct {
	Symbol   string           `json:"symbol"`
	Interval string           `json:"interval"`
	Candles  []CandleResponse `json:"candles"`
}

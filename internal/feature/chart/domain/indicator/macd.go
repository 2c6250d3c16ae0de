package indicator

// MACDの標準パラメータです。
const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
)

// MACDResult はMACD線・シグナル線・ヒストグラムを保持します。
type MACDResult struct {
	MACD      Column
	Signal    Column
	Histogram Column
}

// MACD は標準パラメータ (12, 26, 9) でMACDを計算します。
func MACD(values []float64) MACDResult {
	return MACDWith(values, MACDFast, MACDSlow, MACDSignal)
}

// MACDWith は MACD = EMA(fast) - EMA(slow)、Signal = EMA(MACD, signal) を計算します。
func MACDWith(values []float64, fast, slow, signal int) MACDResult {
	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)

	macd := make(Column, len(values))
	for i := range values {
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	sig := EMA(macd, signal)

	hist := make(Column, len(values))
	for i := range values {
		hist[i] = macd[i] - sig[i]
	}
	return MACDResult{MACD: macd, Signal: sig, Histogram: hist}
}

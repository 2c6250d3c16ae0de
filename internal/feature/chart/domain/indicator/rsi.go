package indicator

import "math"

// DefaultRSIWindow はRSIのデフォルト期間です。
const DefaultRSIWindow = 14

var nan = math.NaN()

// RSI は直近 window 件の価格差の単純平均から相対力指数を計算します。
//
//	RSI = 100 - 100/(1 + avgGain/avgLoss)
//
// avgLoss が0の場合（横ばいを含む）は100とします。
// 先頭から window 件（index 0 と最初の window-1 個の差分）は NaN です。
func RSI(values []float64, window int) Column {
	if window < 1 {
		window = DefaultRSIWindow
	}
	n := len(values)
	out := undefined(n)
	if n <= window {
		return out
	}

	gains := make([]float64, n-1)
	losses := make([]float64, n-1)
	for i := 1; i < n; i++ {
		d := values[i] - values[i-1]
		if d > 0 {
			gains[i-1] = d
		} else {
			losses[i-1] = -d
		}
	}

	avgGain := SMA(gains, window)
	avgLoss := SMA(losses, window)
	for j := window - 1; j < n-1; j++ {
		out[j+1] = rsiValue(avgGain[j], avgLoss[j])
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	// 移動和の丸め誤差で生じる微小な負値は0とみなす
	if avgLoss <= 0 {
		return 100
	}
	if avgGain < 0 {
		avgGain = 0
	}
	v := 100 - 100/(1+avgGain/avgLoss)
	return math.Max(0, math.Min(100, v))
}

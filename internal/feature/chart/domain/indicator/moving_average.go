package indicator

import (
	"github.com/markcheno/go-talib"
)

// EMA は平滑化係数 2/(span+1) の指数移動平均を返します。
// 最初の値は系列の先頭値そのもの（単純平均による初期化は行わない）で、全位置で定義されます。
// span が1未満の場合は1として扱います。
func EMA(values []float64, span int) Column {
	if span < 1 {
		span = 1
	}
	out := make(Column, len(values))
	if len(values) == 0 {
		return out
	}
	// talib.Ema はSMAで初期化するため使わない
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// SMA は直近 window 件の単純移動平均を返します。先頭 window-1 件は NaN です。
func SMA(values []float64, window int) Column {
	if window < 1 {
		window = 1
	}
	if len(values) < window {
		return undefined(len(values))
	}
	out := Column(talib.Sma(values, window))
	for i := 0; i < window-1; i++ {
		out[i] = nan
	}
	return out
}

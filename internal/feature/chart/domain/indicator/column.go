// Package indicator はテクニカル指標の純粋関数を提供します。
//
// すべての関数は入力を変更せず、入力と同じ長さ・同じ順序の列を返します。
// ウォームアップ期間など値が定義されない位置は NaN で表し、0 では埋めません。
package indicator

import "math"

// Column は価格系列と1対1に対応する指標値の列です。
type Column []float64

// Defined は i 番目の値が定義済み（NaNでない）かどうかを返します。
func (c Column) Defined(i int) bool {
	return i >= 0 && i < len(c) && !math.IsNaN(c[i])
}

// Slice は [from, to) の範囲をコピーして返します。
func (c Column) Slice(from, to int) Column {
	out := make(Column, to-from)
	copy(out, c[from:to])
	return out
}

// MinMax は定義済みの値の最小値と最大値を返します。定義済みの値がなければ ok=false です。
func (c Column) MinMax() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		ok = true
	}
	return lo, hi, ok
}

func undefined(n int) Column {
	out := make(Column, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

package indicator

// EnvelopeResult は移動平均エンベロープの3本の線を保持します。
type EnvelopeResult struct {
	MA    Column
	Upper Column
	Lower Column
}

// Envelope は window 期間の単純移動平均と、その ±pct% の帯を返します。
// ウォームアップ期間は3本とも NaN です。
func Envelope(values []float64, window int, pct float64) EnvelopeResult {
	ma := SMA(values, window)
	upper := make(Column, len(ma))
	lower := make(Column, len(ma))
	for i, v := range ma {
		// NaN はそのまま伝播する
		upper[i] = v * (1 + pct/100)
		lower[i] = v * (1 - pct/100)
	}
	return EnvelopeResult{MA: ma, Upper: upper, Lower: lower}
}

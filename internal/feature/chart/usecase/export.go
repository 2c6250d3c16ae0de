package usecase

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"stock_dashboard/internal/feature/chart/domain/entity"
)

// ExportFilename はダウンロード時のファイル名を返します。
func ExportFilename(symbol string) string {
	return fmt.Sprintf("%s_data.csv", symbol)
}

// WriteCSV は Series を CSV で書き出します。
// 列は Date, Open, High, Low, Close, Volume の後に指標列が追加順に続きます。未定義値は空欄です。
func WriteCSV(w io.Writer, s entity.Series) error {
	cw := csv.NewWriter(w)

	names := s.Names()
	header := append([]string{"Date", "Open", "High", "Low", "Close", "Volume"}, names...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	dates := s.Dates()
	for i, b := range s.Bars {
		row := make([]string, 0, len(header))
		row = append(row,
			dates[i],
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			strconv.FormatInt(b.Volume, 10),
		)
		for _, n := range names {
			c, _ := s.Column(n)
			row = append(row, formatFloat(c[i]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Package handler はchartフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	candleusecase "stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/chart/transport/http/dto"
	"stock_dashboard/internal/feature/chart/usecase"
)

const (
	dateLayout         = "2006-01-02"
	defaultEnvelopePct = 5
)

//go:embed static/index.html
var indexHTML []byte

// DashboardUsecase はダッシュボードのパイプラインを定義します。
type DashboardUsecase interface {
	Chart(ctx context.Context, spec entity.ChartSpec, themeOverride string) (entity.Figure, error)
	Series(ctx context.Context, spec entity.ChartSpec) (entity.Series, entity.ChartSpec, error)
}

// ChartHandler はチャート描画・CSVエクスポート・トップページのリクエストを処理します。
type ChartHandler struct {
	uc  DashboardUsecase
	now func() time.Time
}

// NewChartHandler は新しい ChartHandler を作成します。
func NewChartHandler(uc DashboardUsecase) *ChartHandler {
	return &ChartHandler{uc: uc, now: time.Now}
}

// Index はダッシュボードのページ（plotly.js で /api/chart を描画する）を返します。
func (h *ChartHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// Chart はリクエストごとにパイプライン全体を実行し、plotly 形式の図を返します。
//
// エンドポイント例:
// GET /api/chart?symbol=GOOGL&start=2023-01-01&style=candlestick&ema=20,50&rsi=true&macd=true
func (h *ChartHandler) Chart(c *gin.Context) {
	req, spec, ok := h.bind(c)
	if !ok {
		return
	}

	fig, err := h.uc.Chart(c.Request.Context(), spec, req.Theme)
	if err != nil {
		writeError(c, err, spec.Symbol)
		return
	}
	c.JSON(http.StatusOK, fig)
}

// ExportCSV は表示期間の指標付きデータを <SYMBOL>_data.csv としてダウンロードさせます。
func (h *ChartHandler) ExportCSV(c *gin.Context) {
	_, spec, ok := h.bind(c)
	if !ok {
		return
	}

	s, spec, err := h.uc.Series(c.Request.Context(), spec)
	if err != nil {
		writeError(c, err, spec.Symbol)
		return
	}

	var buf bytes.Buffer
	if err := usecase.WriteCSV(&buf, s); err != nil {
		slog.Error("failed to export csv", "symbol", spec.Symbol, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to export csv"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, usecase.ExportFilename(spec.Symbol)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ChartHandler) bind(c *gin.Context) (dto.ChartRequest, entity.ChartSpec, bool) {
	var req dto.ChartRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return req, entity.ChartSpec{}, false
	}
	spec, err := h.toSpec(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return req, entity.ChartSpec{}, false
	}
	return req, spec, true
}

func (h *ChartHandler) toSpec(req dto.ChartRequest) (entity.ChartSpec, error) {
	spec := entity.ChartSpec{
		Symbol:    strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Market:    entity.Market(strings.ToLower(req.Market)),
		Style:     entity.Style(strings.ToLower(req.Style)),
		Days:      req.Days,
		MAShort:   req.MAShort,
		MALong:    req.MALong,
		RSI:       req.RSI,
		RSIWindow: req.RSIWindow,
		MACD:      req.MACD,
		Volume:    req.Volume,
		Animate:   req.Animate,
	}

	var err error
	if spec.Range.Start, err = parseDate(req.Start); err != nil {
		return spec, fmt.Errorf("invalid start date: %w", err)
	}
	if spec.Range.End, err = parseDate(req.End); err != nil {
		return spec, fmt.Errorf("invalid end date: %w", err)
	}
	if spec.Range.Start.IsZero() && req.Period != "" {
		end := spec.Range.End
		if end.IsZero() {
			end = h.now().UTC().Truncate(24 * time.Hour)
		}
		if spec.Range.Start, err = usecase.PeriodStart(req.Period, end); err != nil {
			return spec, err
		}
	}

	if spec.EMASpans, err = parseSpans(req.EMA); err != nil {
		return spec, err
	}
	if req.EnvelopeWindow > 0 {
		pct := req.EnvelopePct
		if pct == 0 {
			pct = defaultEnvelopePct
		}
		spec.Envelope = &entity.EnvelopeSpec{Window: req.EnvelopeWindow, Pct: pct}
	}
	return spec, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

func parseSpans(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ema span %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

// writeError はエラーを HTTP ステータスに変換します。
// - データなし: 404（チャートは返さない）
// - パラメータ不正: 400
// - プロバイダー障害など: 502
func writeError(c *gin.Context, err error, symbol string) {
	switch {
	case errors.Is(err, candleusecase.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: fmt.Sprintf("No data found for ticker %s.", symbol)})
	case errors.Is(err, usecase.ErrInvalidParameter),
		errors.Is(err, usecase.ErrUnsupportedStyle),
		errors.Is(err, candleusecase.ErrInvalidRange),
		errors.Is(err, candleusecase.ErrInvalidSymbol):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("chart pipeline failed", "symbol", symbol, "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "failed to fetch market data"})
	}
}

// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/transport/http/dto"
	"stock_dashboard/internal/feature/candles/usecase"
)

// CandlesUsecase は保存済みローソク足の参照を定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CandlesUsecase interface {
	Latest(ctx context.Context, symbol, interval string, n int) ([]entity.Candle, error)
}

// CandlesHandler は保存済みローソク足のHTTPリクエストを処理します。
type CandlesHandler struct {
	uc CandlesUsecase
}

// NewCandlesHandler は新しい CandlesHandler を作成します。
func NewCandlesHandler(uc CandlesUsecase) *CandlesHandler {
	return &CandlesHandler{uc: uc}
}

// Latest は取り込み済みのローソク足を古い順に返します。プロバイダーには問い合わせません。
//
// エンドポイント例:
// GET /candles/:code?interval=1week&outputsize=100
func (h *CandlesHandler) Latest(c *gin.Context) {
	var q dto.CandlesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "outputsize must be a non-negative integer"})
		return
	}
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	candles, err := h.uc.Latest(c.Request.Context(), code, q.Interval, q.Outputsize)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: fmt.Sprintf("No data found for ticker %s.", code)})
		return
	case errors.Is(err, usecase.ErrInvalidSymbol), errors.Is(err, usecase.ErrInvalidInterval):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	default:
		slog.Error("failed to load candles", "symbol", code, "interval", q.Interval, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load candles"})
		return
	}

	res := dto.CandlesResponse{
		Symbol:   code,
		Interval: candles[0].Interval,
		Candles:  make([]dto.CandleResponse, 0, len(candles)),
	}
	if res.Interval == "" {
		res.Interval = usecase.DefaultInterval
	}
	for _, x := range candles {
		res.Candles = append(res.Candles, dto.CandleResponse{
			Time:   x.Time.UTC().Format("2006-01-02"),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}
	c.JSON(http.StatusOK, res)
}

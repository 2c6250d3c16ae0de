// Package handler はthemeフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/theme/domain/entity"
	"stock_dashboard/internal/feature/theme/transport/http/dto"
	"stock_dashboard/internal/feature/theme/usecase"
)

// ThemeUsecase はテーマ操作のユースケースを定義します。
type ThemeUsecase interface {
	Current(ctx context.Context, override string) entity.Theme
	Set(ctx context.Context, name string, palette *usecase.Palette) (entity.Theme, error)
}

// ThemeHandler はテーマ設定のHTTPリクエストを処理します。
type ThemeHandler struct {
	uc ThemeUsecase
}

// NewThemeHandler は新しい ThemeHandler を作成します。
func NewThemeHandler(uc ThemeUsecase) *ThemeHandler {
	return &ThemeHandler{uc: uc}
}

// Get は現在のテーマを返します。?theme= でプリセットを一時的に上書きできます。
func (h *ThemeHandler) Get(c *gin.Context) {
	t := h.uc.Current(c.Request.Context(), c.Query("theme"))
	c.JSON(http.StatusOK, dto.ThemeResponse{Theme: t, Presets: entity.PresetNames()})
}

// Update はテーマを変更します。
// - 未知のテーマ名や不正な色は400
// - 保存失敗は500（直前のテーマが維持される）
func (h *ThemeHandler) Update(c *gin.Context) {
	var req dto.UpdateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	var palette *usecase.Palette
	if req.Theme == entity.NameCustom {
		palette = &usecase.Palette{
			PrimaryColor:    req.PrimaryColor,
			BackgroundColor: req.BackgroundColor,
			TextColor:       req.TextColor,
			ChartBackground: req.ChartBackground,
			FontColor:       req.FontColor,
		}
	}

	t, err := h.uc.Set(c.Request.Context(), req.Theme, palette)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidTheme) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("failed to save theme", "error", err, "theme", req.Theme)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to save theme"})
		return
	}
	c.JSON(http.StatusOK, dto.ThemeResponse{Theme: t, Presets: entity.PresetNames()})
}

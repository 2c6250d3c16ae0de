// Package dto defines data transfer objects for the theme HTTP API.
package dto

import "stock_dashboard/internal/feature/theme/domain/entity"

// UpdateThemeRequest は PUT /theme のリクエストボディです。
// Theme が custom の場合のみ色指定が使われます。
type UpdateThemeRequest struct {
	Theme           string `json:"theme" binding:"required"`
	PrimaryColor    string `json:"primary_color"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	ChartBackground string `json:"chart_background"`
	FontColor       string `json:"font_color"`
}

// ThemeResponse は現在のテーマと選択可能なプリセットを返します。
type ThemeResponse struct {
	Theme   entity.Theme `json:"theme"`
	Presets []string     `json:"presets"`
}

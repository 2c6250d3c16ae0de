// Package usecase implements the business logic for the dashboard theme.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"stock_dashboard/internal/feature/theme/domain/entity"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ThemeStore はテーマの永続化先を抽象化します。
// 保存先が存在しない場合、Load は ErrThemeNotFound を返します。
type ThemeStore interface {
	Load(ctx context.Context) (entity.Theme, error)
	Save(ctx context.Context, t entity.Theme) error
}

// Palette は custom テーマで呼び出し側が指定する配色です。
type Palette struct {
	PrimaryColor    string
	BackgroundColor string
	TextColor       string
	ChartBackground string
	FontColor       string
}

// ThemeUsecase はテーマの解決と変更を扱います。
type ThemeUsecase struct {
	store ThemeStore
}

// NewThemeUsecase は新しい ThemeUsecase を返します。
func NewThemeUsecase(store ThemeStore) *ThemeUsecase {
	return &ThemeUsecase{store: store}
}

// Current は現在有効なテーマを返します。
// override がプリセット名ならそれを優先し、そうでなければ保存済みのテーマを使います。
// 読み込みに失敗した場合はログに記録して light にフォールバックします。
func (u *ThemeUsecase) Current(ctx context.Context, override string) entity.Theme {
	if t, ok := entity.Preset(strings.ToLower(strings.TrimSpace(override))); ok {
		return t
	}

	t, err := u.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrThemeNotFound) {
			slog.Warn("failed to load theme, falling back to default", "error", err)
		}
		return entity.Default()
	}
	if t.Name == "" {
		t.Name = entity.NameCustom
	}
	return t
}

// Set はテーマを検証して保存します。
// 保存に失敗した場合はエラーを返し、直前のテーマがそのまま有効になります。
func (u *ThemeUsecase) Set(ctx context.Context, name string, palette *Palette) (entity.Theme, error) {
	t, err := resolve(strings.ToLower(strings.TrimSpace(name)), palette)
	if err != nil {
		return entity.Theme{}, err
	}
	if err := u.store.Save(ctx, t); err != nil {
		return entity.Theme{}, fmt.Errorf("save theme: %w", err)
	}
	slog.Info("theme changed", "theme", t.Name)
	return t, nil
}

func resolve(name string, palette *Palette) (entity.Theme, error) {
	if name != entity.NameCustom {
		t, ok := entity.Preset(name)
		if !ok {
			return entity.Theme{}, fmt.Errorf("%w: unknown theme %q", ErrInvalidTheme, name)
		}
		return t, nil
	}
	if palette == nil {
		return entity.Theme{}, fmt.Errorf("%w: custom theme requires a palette", ErrInvalidTheme)
	}

	// 指定のない色は light から引き継ぐ
	t := entity.Default()
	t.Name = entity.NameCustom
	fields := []struct {
		key string
		in  string
		dst *string
	}{
		{"primary_color", palette.PrimaryColor, &t.PrimaryColor},
		{"background_color", palette.BackgroundColor, &t.BackgroundColor},
		{"text_color", palette.TextColor, &t.TextColor},
		{"chart_background", palette.ChartBackground, &t.ChartBackground},
		{"font_color", palette.FontColor, &t.FontColor},
	}
	for _, f := range fields {
		if f.in == "" {
			continue
		}
		if !hexColor.MatchString(f.in) {
			return entity.Theme{}, fmt.Errorf("%w: %s must be #RRGGBB, got %q", ErrInvalidTheme, f.key, f.in)
		}
		*f.dst = strings.ToUpper(f.in)
	}
	return t, nil
}

// Package adapters はthemeフィーチャーの永続化実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"stock_dashboard/internal/feature/theme/domain/entity"
	"stock_dashboard/internal/feature/theme/usecase"
)

// themeFile はTOMLファイル全体の構造です。
type themeFile struct {
	Theme entity.Theme `toml:"theme"`
}

// themeTOML はテーマを [theme] テーブルを持つTOMLファイルに保存します。
type themeTOML struct {
	path string
	mu   sync.Mutex
}

var _ usecase.ThemeStore = (*themeTOML)(nil)

// NewThemeStore は path を読み書きする ThemeStore を返します。
func NewThemeStore(path string) *themeTOML {
	return &themeTOML{path: path}
}

// Load はテーマファイルを読み込みます。ファイルがなければ usecase.ErrThemeNotFound を返します。
func (s *themeTOML) Load(_ context.Context) (entity.Theme, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entity.Theme{}, usecase.ErrThemeNotFound
		}
		return entity.Theme{}, fmt.Errorf("read theme file: %w", err)
	}

	var f themeFile
	if err := toml.Unmarshal(b, &f); err != nil {
		return entity.Theme{}, fmt.Errorf("decode theme file: %w", err)
	}
	return f.Theme, nil
}

// Save は一時ファイルに書き込んでから rename で置き換えます。
// 失敗した場合、既存のファイルは変更されません。
func (s *themeTOML) Save(_ context.Context, t entity.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := toml.Marshal(themeFile{Theme: t})
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create theme dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".theme-*.toml")
	if err != nil {
		return fmt.Errorf("create temp theme file: %w", err)
	}
	defer os.Remove(tmp.Name()) // rename 後は no-op

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write theme file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close theme file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace theme file: %w", err)
	}
	return nil
}

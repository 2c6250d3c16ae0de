package adapters

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"stock_dashboard/internal/feature/symbollist/domain/entity"
)

//go:embed default_symbols.yaml
var defaultSymbols []byte

type seedEntry struct {
	Code     string `yaml:"code"`
	Name     string `yaml:"name"`
	Inactive bool   `yaml:"inactive"`
}

type seedFile struct {
	Stock []seedEntry `yaml:"stock"`
	Forex []seedEntry `yaml:"forex"`
}

// LoadSeed は銘柄リストを YAML から読み込みます。
// path が空、またはファイルが存在しない場合は組み込みの既定リストを使います。
func LoadSeed(path string) ([]entity.Symbol, error) {
	data := defaultSymbols
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			data = b
		case errors.Is(err, os.ErrNotExist):
			slog.Warn("symbols file not found, using built-in list", "path", path)
		default:
			return nil, fmt.Errorf("read symbols file: %w", err)
		}
	}
	return ParseSeed(data)
}

// ParseSeed は YAML の stock / forex リストを Symbol に変換します。SortKey はリスト内の順番です。
func ParseSeed(data []byte) ([]entity.Symbol, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse symbols yaml: %w", err)
	}

	out := make([]entity.Symbol, 0, len(f.Stock)+len(f.Forex))
	add := func(market string, entries []seedEntry) error {
		for i, e := range entries {
			code := strings.TrimSpace(e.Code)
			if code == "" {
				return fmt.Errorf("symbols yaml: %s entry %d has no code", market, i)
			}
			name := strings.TrimSpace(e.Name)
			if name == "" {
				name = code
			}
			out = append(out, entity.Symbol{
				Code:     code,
				Name:     name,
				Market:   market,
				IsActive: !e.Inactive,
				SortKey:  i + 1,
			})
		}
		return nil
	}
	if err := add(entity.MarketStock, f.Stock); err != nil {
		return nil, err
	}
	if err := add(entity.MarketForex, f.Forex); err != nil {
		return nil, err
	}
	return out, nil
}

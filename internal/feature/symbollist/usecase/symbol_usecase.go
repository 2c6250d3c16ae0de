// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"stock_dashboard/internal/feature/symbollist/domain/entity"
)

// ErrInvalidMarket is returned when the market filter is neither stock nor forex.
var ErrInvalidMarket = errors.New("market must be stock or forex")

// SymbolRepository abstracts the persistence layer for symbol data.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	// ListActive returns active symbols ordered by sort key. An empty market returns all markets.
	ListActive(ctx context.Context, market string) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	// Upsert inserts symbols whose code is not yet stored and returns the number inserted.
	Upsert(ctx context.Context, symbols []entity.Symbol) (int64, error)
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns the active symbols of a market ("" for all).
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context, market string) ([]entity.Symbol, error) {
	market = strings.ToLower(strings.TrimSpace(market))
	if market != "" && !entity.ValidMarket(market) {
		return nil, ErrInvalidMarket
	}
	return u.repo.ListActive(ctx, market)
}

// ListActiveCodes returns the tickers of all active symbols, used by the ingest batch.
func (u *SymbolUsecase) ListActiveCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}

// Seed stores the catalog entries that are not in the repository yet.
// Existing rows are left untouched so that manual edits (IsActive, SortKey) survive restarts.
func (u *SymbolUsecase) Seed(ctx context.Context, symbols []entity.Symbol) error {
	for _, s := range symbols {
		if !entity.ValidMarket(s.Market) {
			return fmt.Errorf("seed %s: %w", s.Code, ErrInvalidMarket)
		}
	}
	n, err := u.repo.Upsert(ctx, symbols)
	if err != nil {
		return fmt.Errorf("seed symbols: %w", err)
	}
	slog.Info("symbol catalog seeded", "inserted", n, "total", len(symbols))
	return nil
}

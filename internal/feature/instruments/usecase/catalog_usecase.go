package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"trademaster/internal/feature/instruments/domain/entity"
)

// CatalogRepository abstracts where the instrument catalog comes from
// (the broker's scrip-master file, a SQL table, a cache in front of either).
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CatalogRepository interface {
	ListInstruments(ctx context.Context) ([]entity.Instrument, error)
}

// CatalogInvalidator is implemented by repositories that keep their own copy of
// the catalog (e.g. a Redis cache). Reset makes the next load drop that copy too.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

// CatalogUsecase loads the instrument catalog once per session and serves it from memory.
// The loaded slice is never mutated; Reset drops it so the next call reloads.
type CatalogUsecase struct {
	repo CatalogRepository

	mu          sync.Mutex
	instruments []entity.Instrument
	indexes     map[string]*Index
	stale       bool
}

// NewCatalogUsecase creates a new CatalogUsecase backed by repo.
func NewCatalogUsecase(repo CatalogRepository) *CatalogUsecase {
	return &CatalogUsecase{repo: repo}
}

// Instruments returns the session catalog, loading it on first use.
// An empty catalog is reported as ErrEmptyCatalog and is not cached.
func (u *CatalogUsecase) Instruments(ctx context.Context) ([]entity.Instrument, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if len(u.instruments) > 0 {
		return u.instruments, nil
	}

	if u.stale {
		if inv, ok := u.repo.(CatalogInvalidator); ok {
			if err := inv.Invalidate(ctx); err != nil {
				slog.Warn("failed to invalidate cached instrument catalog", "error", err)
			}
		}
		u.stale = false
	}

	slog.Info("loading instrument catalog")
	list, err := u.repo.ListInstruments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load instrument catalog: %w", err)
	}
	if len(list) == 0 {
		slog.Error("instrument catalog is empty after loading")
		return nil, ErrEmptyCatalog
	}
	slog.Info("instrument catalog loaded", "count", len(list))
	u.instruments = list
	u.indexes = make(map[string]*Index)
	return u.instruments, nil
}

// Resolve looks ticker up in the session catalog for the given exchange segment.
func (u *CatalogUsecase) Resolve(ctx context.Context, ticker, exchange string) (string, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if _, err := u.Instruments(ctx); err != nil {
		return "", err
	}

	u.mu.Lock()
	idx, ok := u.indexes[exchange]
	if !ok {
		idx = NewIndex(u.instruments, exchange)
		u.indexes[exchange] = idx
	}
	u.mu.Unlock()

	tok, found := idx.Lookup(ticker)
	if !found {
		return "", fmt.Errorf("%s on %s: %w", ticker, exchange, ErrTokenNotFound)
	}
	return tok, nil
}

// EquitySymbols lists every equity trading symbol of the given exchange segment.
func (u *CatalogUsecase) EquitySymbols(ctx context.Context, exchange string) ([]string, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	list, err := u.Instruments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0)
	for _, in := range list {
		if in.Exchange == exchange && in.IsEquity() {
			out = append(out, in.Symbol)
		}
	}
	slog.Info("listed equity symbols", "exchange", exchange, "count", len(out))
	return out, nil
}

// Reset forgets the loaded catalog. Call it when a new broker session starts.
// The next load also invalidates the repository's cached copy, if it has one.
func (u *CatalogUsecase) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.instruments = nil
	u.indexes = nil
	u.stale = true
}

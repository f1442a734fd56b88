// Package usecase implements the business logic for the watchlist.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"stock_analysis/internal/feature/watchlist/domain/entity"
)

var (
	// ErrSymbolNotFound is returned when the code is not on the watchlist.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrInvalidCode is returned for codes that are not ticker-shaped.
	ErrInvalidCode = errors.New("invalid symbol code")
)

// codePattern accepts tickers such as "IBM", "BRK.B" and "7203.T".
var codePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,19}$`)

// SymbolRepository abstracts the persistence layer for watch-listed symbols.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, s *entity.Symbol) error
	Deactivate(ctx context.Context, code string) error
}

// SymbolUsecase provides business logic for watchlist operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns all active symbols.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// ActiveCodes returns the codes the batch job should analyze.
func (u *SymbolUsecase) ActiveCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}

// AddSymbol puts a symbol on the watchlist, reactivating it if it was removed.
func (u *SymbolUsecase) AddSymbol(ctx context.Context, code, name, exchange string, sortKey int) (*entity.Symbol, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	s := &entity.Symbol{
		Code:     code,
		Name:     strings.TrimSpace(name),
		Exchange: strings.TrimSpace(exchange),
		SortKey:  sortKey,
	}
	if err := u.repo.Upsert(ctx, s); err != nil {
		return nil, fmt.Errorf("upsert %s: %w", code, err)
	}
	return s, nil
}

// RemoveSymbol deactivates a symbol.
func (u *SymbolUsecase) RemoveSymbol(ctx context.Context, code string) error {
	code, err := NormalizeCode(code)
	if err != nil {
		return err
	}
	return u.repo.Deactivate(ctx, code)
}

// NormalizeCode upper-cases and validates a ticker code.
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !codePattern.MatchString(code) {
		return "", fmt.Errorf("%q: %w", code, ErrInvalidCode)
	}
	return code, nil
}

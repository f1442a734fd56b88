package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_analysis/internal/feature/watchlist/domain/entity"
	"stock_analysis/internal/feature/watchlist/usecase"
)

// mockSymbolRepository はSymbolRepositoryインターフェースのモック実装です。
type mockSymbolRepository struct {
	ListActiveFunc      func(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodesFunc func(ctx context.Context) ([]string, error)
	UpsertFunc          func(ctx context.Context, s *entity.Symbol) error
	DeactivateFunc      func(ctx context.Context, code string) error
}

func (m *mockSymbolRepository) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockSymbolRepository) ListActiveCodes(ctx context.Context) ([]string, error) {
	if m.ListActiveCodesFunc != nil {
		return m.ListActiveCodesFunc(ctx)
	}
	return nil, nil
}

func (m *mockSymbolRepository) Upsert(ctx context.Context, s *entity.Symbol) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, s)
	}
	return nil
}

func (m *mockSymbolRepository) Deactivate(ctx context.Context, code string) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, code)
	}
	return nil
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "aapl", want: "AAPL"},
		{in: " brk.b ", want: "BRK.B"},
		{in: "7203.T", want: "7203.T"},
		{in: "", wantErr: true},
		{in: "AA PL", wantErr: true},
		{in: "../etc", wantErr: true},
		{in: "ABCDEFGHIJKLMNOPQRSTU", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := usecase.NormalizeCode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, usecase.ErrInvalidCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSymbolUsecase_AddSymbol(t *testing.T) {
	t.Parallel()

	var stored *entity.Symbol
	uc := usecase.NewSymbolUsecase(&mockSymbolRepository{
		UpsertFunc: func(ctx context.Context, s *entity.Symbol) error {
			stored = s
			return nil
		},
	})

	s, err := uc.AddSymbol(context.Background(), "spy", " SPDR S&P 500 ", "NYSEARCA", 3)

	require.NoError(t, err)
	assert.Equal(t, "SPY", s.Code)
	assert.Equal(t, "SPDR S&P 500", stored.Name)
	assert.Equal(t, 3, stored.SortKey)
}

func TestSymbolUsecase_AddSymbol_RepositoryError(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("db down")
	uc := usecase.NewSymbolUsecase(&mockSymbolRepository{
		UpsertFunc: func(ctx context.Context, s *entity.Symbol) error { return dbErr },
	})

	_, err := uc.AddSymbol(context.Background(), "IBM", "", "", 0)
	assert.ErrorIs(t, err, dbErr)
}

func TestSymbolUsecase_RemoveSymbol(t *testing.T) {
	t.Parallel()

	uc := usecase.NewSymbolUsecase(&mockSymbolRepository{
		DeactivateFunc: func(ctx context.Context, code string) error {
			assert.Equal(t, "IBM", code)
			return usecase.ErrSymbolNotFound
		},
	})

	assert.ErrorIs(t, uc.RemoveSymbol(context.Background(), "ibm"), usecase.ErrSymbolNotFound)
	assert.ErrorIs(t, uc.RemoveSymbol(context.Background(), "bad code"), usecase.ErrInvalidCode)
}

func TestSymbolUsecase_ActiveCodes(t *testing.T) {
	t.Parallel()

	uc := usecase.NewSymbolUsecase(&mockSymbolRepository{
		ListActiveCodesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"AAPL", "MSFT"}, nil
		},
	})

	codes, err := uc.ActiveCodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, codes)
}

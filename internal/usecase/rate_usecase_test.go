package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/paymaster/internal/domain"
	"github.com/iho/paymaster/internal/usecase"
	"github.com/iho/paymaster/internal/usecase/mocks"
)

func TestRateFor(t *testing.T) {
	repo := mocks.NewMockRateRepository()
	repo.Rates["USD"] = decimal.RequireFromString("0.0132")
	uc := usecase.NewRateUseCase(repo)
	ctx := context.Background()

	rate, err := uc.RateFor(ctx, "usd")
	require.NoError(t, err)
	require.True(t, rate.Equal(decimal.RequireFromString("0.0132")))

	_, err = uc.RateFor(ctx, "EUR")
	require.ErrorIs(t, err, domain.ErrCurrencyNotFound)

	_, err = uc.RateFor(ctx, "not-a-code")
	require.ErrorIs(t, err, domain.ErrCurrencyNotFound)
}

func TestUpsertRates_NormalizesAndIsIdempotent(t *testing.T) {
	repo := mocks.NewMockRateRepository()
	uc := usecase.NewRateUseCase(repo)
	ctx := context.Background()

	rates := []domain.CurrencyRate{
		{Code: "usd", Rate: decimal.RequireFromString("0.0132")},
		{Code: "Eur", Rate: decimal.RequireFromString("0.0121")},
	}

	require.NoError(t, uc.UpsertRates(ctx, rates))
	require.NoError(t, uc.UpsertRates(ctx, rates))

	require.Len(t, repo.Rates, 2)
	require.True(t, repo.Rates["USD"].Equal(decimal.RequireFromString("0.0132")))
	require.True(t, repo.Rates["EUR"].Equal(decimal.RequireFromString("0.0121")))
}

func TestUpsertRates_RejectsMalformedCode(t *testing.T) {
	repo := mocks.NewMockRateRepository()
	uc := usecase.NewRateUseCase(repo)

	err := uc.UpsertRates(context.Background(), []domain.CurrencyRate{
		{Code: "toolong", Rate: decimal.RequireFromString("1")},
	})
	require.ErrorIs(t, err, domain.ErrCurrencyNotFound)
	require.Empty(t, repo.Rates)
}

func TestUpsertRates_EmptyInputIsNoOp(t *testing.T) {
	repo := mocks.NewMockRateRepository()
	called := false
	repo.UpsertAllFunc = func(ctx context.Context, rates []domain.CurrencyRate) error {
		called = true
		return nil
	}

	uc := usecase.NewRateUseCase(repo)
	require.NoError(t, uc.UpsertRates(context.Background(), nil))
	require.False(t, called)
}

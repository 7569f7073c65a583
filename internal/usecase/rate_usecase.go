package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/paymaster/internal/domain"
)

// RateUseCase exposes the currency rate table. Upserts come only from the
// periodic refresh job, never from request handling.
type RateUseCase struct {
	rateRepo RateRepository
}

// NewRateUseCase creates a new RateUseCase.
func NewRateUseCase(rateRepo RateRepository) *RateUseCase {
	return &RateUseCase{rateRepo: rateRepo}
}

// RateFor returns the rate for a currency code, case-insensitively.
func (uc *RateUseCase) RateFor(ctx context.Context, code string) (decimal.Decimal, error) {
	normalized, err := domain.NormalizeCurrency(code)
	if err != nil {
		return decimal.Zero, err
	}

	return uc.rateRepo.Get(ctx, normalized)
}

// UpsertRates replaces the rates for the given codes wholesale. Applying the
// same pairs twice is a no-op beyond the updated-at timestamps.
func (uc *RateUseCase) UpsertRates(ctx context.Context, rates []domain.CurrencyRate) error {
	now := time.Now().UTC()

	normalized := make([]domain.CurrencyRate, 0, len(rates))
	for _, r := range rates {
		code, err := domain.NormalizeCurrency(r.Code)
		if err != nil {
			return err
		}

		normalized = append(normalized, domain.CurrencyRate{
			Code:      code,
			Rate:      r.Rate,
			UpdatedAt: now,
		})
	}

	if len(normalized) == 0 {
		return nil
	}

	return uc.rateRepo.UpsertAll(ctx, normalized)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/paymaster/internal/domain"
)

// RateRepository implements usecase.RateRepository.
type RateRepository struct {
	pool *pgxpool.Pool
}

// NewRateRepository creates a new RateRepository.
func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

// Get returns the rate for an uppercase currency code.
func (r *RateRepository) Get(ctx context.Context, code string) (decimal.Decimal, error) {
	var rate pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT rate FROM currency_rates WHERE code = $1`, code,
	).Scan(&rate)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrCurrencyNotFound, code)
	}
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(rate), nil
}

// UpsertAll replaces rates for the given codes in one batch. Each code keeps
// only its latest rate; no history is kept.
func (r *RateRepository) UpsertAll(ctx context.Context, rates []domain.CurrencyRate) error {
	batch := &pgx.Batch{}
	for _, rate := range rates {
		batch.Queue(`
			INSERT INTO currency_rates (code, rate, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (code)
			DO UPDATE SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at`,
			rate.Code, decimalToNumeric(rate.Rate), rate.UpdatedAt)
	}

	return r.pool.SendBatch(ctx, batch).Close()
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

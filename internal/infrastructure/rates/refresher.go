package rates

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/paymaster/internal/domain"
)

// Fetcher retrieves the current rates from the remote service.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.CurrencyRate, error)
}

// Upserter stages fetched rates into the engine's rate table.
type Upserter interface {
	UpsertRates(ctx context.Context, rates []domain.CurrencyRate) error
}

// Refresher periodically replaces the rate table with fresh rates. A failed
// refresh is retried with exponential backoff and otherwise logged and
// skipped: the previous rates stay in place until a fetch succeeds.
type Refresher struct {
	fetcher  Fetcher
	upserter Upserter
	logger   zerolog.Logger
	interval time.Duration

	maxRetryTime time.Duration
}

// NewRefresher creates a new Refresher.
func NewRefresher(fetcher Fetcher, upserter Upserter, interval time.Duration, logger zerolog.Logger) *Refresher {
	return &Refresher{
		fetcher:      fetcher,
		upserter:     upserter,
		logger:       logger,
		interval:     interval,
		maxRetryTime: 5 * time.Minute,
	}
}

// Run refreshes once immediately, then on every tick until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	if err := r.Refresh(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("initial currency rate refresh failed")
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.logger.Warn().Err(err).Msg("currency rate refresh failed")
			}
		}
	}
}

// Refresh performs one fetch-and-upsert cycle with retries.
func (r *Refresher) Refresh(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = r.maxRetryTime

	return backoff.Retry(func() error {
		rates, err := r.fetcher.Fetch(ctx)
		if err != nil {
			r.logger.Debug().Err(err).Msg("rate fetch attempt failed")
			return err
		}

		if err := r.upserter.UpsertRates(ctx, rates); err != nil {
			return err
		}

		r.logger.Info().Int("currencies", len(rates)).Msg("currency rates refreshed")

		return nil
	}, backoff.WithContext(b, ctx))
}

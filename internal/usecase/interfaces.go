package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/paymaster/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	// Create inserts a fresh active account for the user id.
	Create(ctx context.Context, userID int64, now time.Time) (*domain.Account, error)
	// GetByUserID returns the account regardless of status.
	GetByUserID(ctx context.Context, userID int64) (*domain.Account, error)
	// GetActiveByUserID returns the account only if it is active.
	GetActiveByUserID(ctx context.Context, userID int64) (*domain.Account, error)
	// GetActiveByUserIDForUpdate locks the account row for the duration of tx.
	GetActiveByUserIDForUpdate(ctx context.Context, tx Transaction, userID int64) (*domain.Account, error)
	// GetActiveByUserIDsForUpdate locks several account rows, acquiring the
	// locks in ascending user id order.
	GetActiveByUserIDsForUpdate(ctx context.Context, tx Transaction, userIDs []int64) ([]*domain.Account, error)
	// UpdateStatus flips the account's status only when it currently holds
	// the expected one, so concurrent transitions cannot both win. Losing
	// the race surfaces as ErrAccountConflict.
	UpdateStatus(ctx context.Context, id int64, from, to domain.AccountStatus, updatedAt time.Time) error
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	// SumByAccount returns the signed minor-unit sum of all entries.
	SumByAccount(ctx context.Context, accountID int64) (int64, error)
	// SumByAccountTx is SumByAccount inside an open transaction, used for the
	// debit sufficiency check while the account row is locked.
	SumByAccountTx(ctx context.Context, tx Transaction, accountID int64) (int64, error)
	// History returns the ordered projection for one account page.
	History(ctx context.Context, accountID int64, order domain.HistoryOrder, limit, offset int) ([]domain.HistoryRecord, error)
}

// RateRepository defines data access for currency rates.
type RateRepository interface {
	// Get returns the rate for an uppercase currency code.
	Get(ctx context.Context, code string) (decimal.Decimal, error)
	// UpsertAll replaces the rates for the given codes in bulk.
	UpsertAll(ctx context.Context, rates []domain.CurrencyRate) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs a unit of work when the store reports a transient conflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

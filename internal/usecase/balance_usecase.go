package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/paymaster/internal/domain"
)

// BalanceUseCase computes balances and applies single-sided movements.
type BalanceUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	entryRepo    EntryRepository
	rateRepo     RateRepository
	retrier      Retrier
	baseCurrency string
}

// NewBalanceUseCase creates a new BalanceUseCase. A nil retrier runs each
// movement exactly once.
func NewBalanceUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	rateRepo RateRepository,
	retrier Retrier,
	baseCurrency string,
) *BalanceUseCase {
	return &BalanceUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		rateRepo:     rateRepo,
		retrier:      retrier,
		baseCurrency: baseCurrency,
	}
}

// ComputeBalance returns the signed minor-unit sum of the account's entries.
func (uc *BalanceUseCase) ComputeBalance(ctx context.Context, userID int64) (int64, error) {
	account, err := uc.accountRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	return uc.entryRepo.SumByAccount(ctx, account.ID)
}

// GetBalance returns the balance in major units, converted to the requested
// currency. An empty currency, or the base currency itself, means no
// conversion. Rounding is half away from zero to two places and happens only
// here, at the presentation boundary.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, userID int64, currency string) (decimal.Decimal, error) {
	minor, err := uc.ComputeBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := domain.FromMinorUnits(minor)

	if currency == "" {
		return balance.Round(2), nil
	}

	code, err := domain.NormalizeCurrency(currency)
	if err != nil {
		return decimal.Zero, err
	}

	if code == uc.baseCurrency {
		return balance.Round(2), nil
	}

	rate, err := uc.rateRepo.Get(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}

	return balance.Mul(rate).Round(2), nil
}

// ApplyMovementInput describes a single-sided balance change. The sign of
// Amount selects credit or debit; there is no separate operation type.
type ApplyMovementInput struct {
	Description string
	UserID      int64
	Amount      decimal.Decimal
}

// ApplyMovement appends one entry for the account. Credits are unconditional;
// debits recheck the balance under a row lock and fail with
// ErrInsufficientFunds instead of overdrawing. The movement is self-originated,
// so the entry's counterparty is the account itself.
func (uc *BalanceUseCase) ApplyMovement(ctx context.Context, input ApplyMovementInput) error {
	minor, err := domain.ToMinorUnits(input.Amount)
	if err != nil {
		return err
	}

	description := input.Description
	if description == "" {
		if minor < 0 {
			description = descDebit
		} else {
			description = descCredit
		}
	}

	return retry(ctx, uc.retrier, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		account, err := uc.accountRepo.GetActiveByUserIDForUpdate(ctx, tx, input.UserID)
		if err != nil {
			return err
		}

		err = appendMovement(ctx, tx, uc.entryRepo, account, account.ID, minor, description, time.Now().UTC())
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/paymaster/internal/domain"
)

// Default entry descriptions, used when the caller supplies none.
const (
	descCredit           = "balance replenishment"
	descDebit            = "withdraw"
	descTransferOutgoing = "outgoing payment"
	descTransferIncoming = "incoming payment"
)

// retry funnels a unit of work through the configured retrier, if any.
func retry(ctx context.Context, retrier Retrier, operation func() error) error {
	if retrier == nil {
		return operation()
	}

	return retrier.Retry(ctx, operation)
}

// appendMovement writes one signed entry for an account whose row is already
// locked in tx. For debits the current balance is recomputed inside the same
// transaction, so a concurrent debit cannot slip between the sufficiency check
// and the insert.
func appendMovement(
	ctx context.Context,
	tx Transaction,
	entryRepo EntryRepository,
	account *domain.Account,
	counterpartyID int64,
	amountMinor int64,
	description string,
	now time.Time,
) error {
	if amountMinor < 0 {
		balance, err := entryRepo.SumByAccountTx(ctx, tx, account.ID)
		if err != nil {
			return err
		}

		if balance+amountMinor < 0 {
			return fmt.Errorf("%w: user %d", domain.ErrInsufficientFunds, account.UserID)
		}
	}

	return entryRepo.Create(ctx, tx, &domain.Entry{
		AccountID:      account.ID,
		CounterpartyID: counterpartyID,
		Description:    description,
		AmountMinor:    amountMinor,
		CreatedAt:      now,
	})
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/paymaster/internal/domain"
)

// TransferUseCase moves funds between two accounts atomically.
type TransferUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	retrier     Retrier
}

// NewTransferUseCase creates a new TransferUseCase. A nil retrier runs each
// transfer exactly once.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	retrier Retrier,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		retrier:     retrier,
	}
}

// TransferInput describes a transfer between two user accounts.
type TransferInput struct {
	Description string
	SenderID    int64
	RecipientID int64
	Amount      decimal.Decimal
}

// Transfer debits the sender and credits the recipient as one transaction.
// Either both entries land or neither does: a failed leg rolls back the whole
// unit, so the sender can never appear to have paid a recipient that could
// not receive.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) error {
	if input.SenderID == input.RecipientID {
		return fmt.Errorf("%w: sender and recipient are the same account (user %d)", domain.ErrInvalidTransfer, input.SenderID)
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive, got %s", domain.ErrInvalidTransfer, input.Amount)
	}

	minor, err := domain.ToMinorUnits(input.Amount)
	if err != nil {
		return err
	}

	outgoing, incoming := input.Description, input.Description
	if input.Description == "" {
		outgoing, incoming = descTransferOutgoing, descTransferIncoming
	}

	return retry(ctx, uc.retrier, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		// Lock both rows in ascending user id order to prevent deadlock
		// between opposing concurrent transfers.
		ids := []int64{input.SenderID, input.RecipientID}
		if ids[0] > ids[1] {
			ids[0], ids[1] = ids[1], ids[0]
		}

		accounts, err := uc.accountRepo.GetActiveByUserIDsForUpdate(ctx, tx, ids)
		if err != nil {
			return err
		}

		var sender, recipient *domain.Account
		for _, a := range accounts {
			switch a.UserID {
			case input.SenderID:
				sender = a
			case input.RecipientID:
				recipient = a
			}
		}

		if sender == nil {
			return fmt.Errorf("%w: sender %d", domain.ErrAccountNotFound, input.SenderID)
		}
		if recipient == nil {
			return fmt.Errorf("%w: recipient %d", domain.ErrAccountNotFound, input.RecipientID)
		}

		now := time.Now().UTC()

		err = appendMovement(ctx, tx, uc.entryRepo, sender, recipient.ID, -minor, outgoing, now)
		if err != nil {
			return err
		}

		err = appendMovement(ctx, tx, uc.entryRepo, recipient, sender.ID, minor, incoming, now)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

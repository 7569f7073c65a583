package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/paymaster/internal/domain"
)

// AccountUseCase handles account lifecycle.
type AccountUseCase struct {
	accountRepo AccountRepository
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository) *AccountUseCase {
	return &AccountUseCase{accountRepo: accountRepo}
}

// CreateAccount registers an account for the user id. Deletion is soft, so
// creating over a previously deleted account reactivates it together with its
// entry history.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	now := time.Now().UTC()

	existing, err := uc.accountRepo.GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return uc.accountRepo.Create(ctx, userID, now)
	case err != nil:
		return nil, err
	}

	if existing.IsActive() {
		return nil, fmt.Errorf("%w: user %d", domain.ErrAccountConflict, userID)
	}

	// Guarded transition: if a concurrent create already reactivated the
	// row, this one loses and reports the conflict instead of a second
	// success.
	if err := uc.accountRepo.UpdateStatus(ctx, existing.ID, domain.AccountDeleted, domain.AccountActive, now); err != nil {
		return nil, err
	}

	existing.Status = domain.AccountActive
	existing.UpdatedAt = now

	return existing, nil
}

// DeleteAccount marks the user's account deleted. Entries are retained; only
// the status flips, so a later CreateAccount restores the prior balance.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, userID int64) error {
	account, err := uc.accountRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return err
	}

	err = uc.accountRepo.UpdateStatus(ctx, account.ID, domain.AccountActive, domain.AccountDeleted, time.Now().UTC())
	if errors.Is(err, domain.ErrAccountConflict) {
		// A concurrent delete got there first; the account is no longer
		// active either way.
		return fmt.Errorf("%w: user %d", domain.ErrAccountNotFound, userID)
	}

	return err
}

// AccountExists reports whether an active account exists for the user id.
func (uc *AccountUseCase) AccountExists(ctx context.Context, userID int64) (bool, error) {
	_, err := uc.accountRepo.GetActiveByUserID(ctx, userID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

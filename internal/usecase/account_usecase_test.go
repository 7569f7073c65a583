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

func TestCreateAccount(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(repo)
	ctx := context.Background()

	account, err := uc.CreateAccount(ctx, 444)
	require.NoError(t, err)
	require.Equal(t, int64(444), account.UserID)
	require.True(t, account.IsActive())

	_, err = uc.CreateAccount(ctx, 444)
	require.ErrorIs(t, err, domain.ErrAccountConflict)
}

func TestDeleteAccount(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(repo)
	ctx := context.Background()

	err := uc.DeleteAccount(ctx, 444)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	repo.Seed(444)
	require.NoError(t, uc.DeleteAccount(ctx, 444))

	// Deleted accounts are invisible to a second delete.
	err = uc.DeleteAccount(ctx, 444)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestCreateAccount_ReactivatesDeleted(t *testing.T) {
	f := newLedgerFixture()
	accountUC := usecase.NewAccountUseCase(f.accountRepo)
	ctx := context.Background()

	_, err := accountUC.CreateAccount(ctx, 444)
	require.NoError(t, err)
	require.NoError(t, f.balance.ApplyMovement(ctx, usecase.ApplyMovementInput{
		UserID: 444,
		Amount: decimal.RequireFromString("25.00"),
	}))

	require.NoError(t, accountUC.DeleteAccount(ctx, 444))
	_, err = f.balance.GetBalance(ctx, 444, "")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	// Re-creation reactivates the record and restores its history.
	account, err := accountUC.CreateAccount(ctx, 444)
	require.NoError(t, err)
	require.True(t, account.IsActive())
	require.True(t, f.mustBalance(t, 444).Equal(decimal.RequireFromString("25.00")))
}

func TestCreateAccount_ConcurrentReactivationSingleWinner(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(repo)
	ctx := context.Background()

	account := repo.Seed(444)
	require.NoError(t, uc.DeleteAccount(ctx, 444))

	// Both callers observe the deleted row before either one reactivates
	// it; the guarded transition lets only the first win.
	stale := *account
	stale.Status = domain.AccountDeleted
	repo.GetByUserIDFunc = func(ctx context.Context, userID int64) (*domain.Account, error) {
		snapshot := stale
		return &snapshot, nil
	}

	first, err := uc.CreateAccount(ctx, 444)
	require.NoError(t, err)
	require.True(t, first.IsActive())

	_, err = uc.CreateAccount(ctx, 444)
	require.ErrorIs(t, err, domain.ErrAccountConflict)
}

func TestDeleteAccount_ConcurrentDeleteSingleWinner(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(repo)
	ctx := context.Background()

	account := repo.Seed(444)

	// Both callers observe the row active before either delete lands.
	stale := *account
	repo.GetActiveByUserIDFunc = func(ctx context.Context, userID int64) (*domain.Account, error) {
		snapshot := stale
		return &snapshot, nil
	}

	require.NoError(t, uc.DeleteAccount(ctx, 444))

	err := uc.DeleteAccount(ctx, 444)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountExists(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(repo)
	ctx := context.Background()

	exists, err := uc.AccountExists(ctx, 1)
	require.NoError(t, err)
	require.False(t, exists)

	repo.Seed(1)
	exists, err = uc.AccountExists(ctx, 1)
	require.NoError(t, err)
	require.True(t, exists)
}

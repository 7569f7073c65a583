package integration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/paymaster/internal/adapter/repository/postgres"
	"github.com/iho/paymaster/internal/domain"
	"github.com/iho/paymaster/internal/usecase"
	"github.com/iho/paymaster/tests/testutil"
)

func TestConcurrentMovements(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	pool := testDB.Pool
	accountRepo := postgres.NewAccountRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	rateRepo := postgres.NewRateRepository(pool)
	txManager := postgres.NewTxManager(pool)
	retrier := postgres.NewRetrier(zerolog.Nop())

	accountUC := usecase.NewAccountUseCase(accountRepo)
	balanceUC := usecase.NewBalanceUseCase(txManager, accountRepo, entryRepo, rateRepo, retrier, "RUB")
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, entryRepo, retrier)

	t.Run("concurrent debits cannot both pass the check", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		// Balance covers exactly half of the attempted debits.
		account := testDB.CreateTestAccount(ctx, 100)
		testDB.CreditTestAccount(ctx, account, 10000)

		numDebits := 20
		debit := decimal.RequireFromString("-10.00")

		var (
			wg                sync.WaitGroup
			successCount      atomic.Int32
			insufficientCount atomic.Int32
		)

		wg.Add(numDebits)

		for range numDebits {
			go func() {
				defer wg.Done()

				err := balanceUC.ApplyMovement(ctx, usecase.ApplyMovementInput{
					UserID: 100,
					Amount: debit,
				})
				switch {
				case err == nil:
					successCount.Add(1)
				case errors.Is(err, domain.ErrInsufficientFunds):
					insufficientCount.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != 10 {
			t.Errorf("expected 10 successful debits, got %d", successCount.Load())
		}

		if insufficientCount.Load() != 10 {
			t.Errorf("expected 10 insufficient-funds rejections, got %d", insufficientCount.Load())
		}

		if balance := testDB.BalanceMinor(ctx, account.ID); balance != 0 {
			t.Errorf("expected balance 0, got %d", balance)
		}
	})

	t.Run("100 concurrent transfers from one account no overdraft", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		// Balance allows exactly 100 transfers of 10.00.
		source := testDB.CreateTestAccount(ctx, 200)
		dest := testDB.CreateTestAccount(ctx, 201)
		testDB.CreditTestAccount(ctx, source, 100000)

		numTransfers := 100
		amount := decimal.RequireFromString("10.00")

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			errorCount   atomic.Int32
		)

		wg.Add(numTransfers)

		for range numTransfers {
			go func() {
				defer wg.Done()

				err := transferUC.Transfer(ctx, usecase.TransferInput{
					SenderID:    200,
					RecipientID: 201,
					Amount:      amount,
				})
				if err != nil {
					errorCount.Add(1)
				} else {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != int32(numTransfers) {
			t.Errorf("expected %d successful transfers, got %d (errors: %d)", numTransfers, successCount.Load(), errorCount.Load())
		}

		if balance := testDB.BalanceMinor(ctx, source.ID); balance != 0 {
			t.Errorf("expected source balance 0, got %d", balance)
		}

		if balance := testDB.BalanceMinor(ctx, dest.ID); balance != 100000 {
			t.Errorf("expected dest balance 100000, got %d", balance)
		}
	})

	t.Run("concurrent reactivation has a single winner", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		testDB.CreateTestAccount(ctx, 400)
		if err := accountUC.DeleteAccount(ctx, 400); err != nil {
			t.Fatalf("failed to delete account: %v", err)
		}

		numCreates := 10

		var (
			wg            sync.WaitGroup
			successCount  atomic.Int32
			conflictCount atomic.Int32
		)

		wg.Add(numCreates)

		for range numCreates {
			go func() {
				defer wg.Done()

				_, err := accountUC.CreateAccount(ctx, 400)
				switch {
				case err == nil:
					successCount.Add(1)
				case errors.Is(err, domain.ErrAccountConflict):
					conflictCount.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != 1 {
			t.Errorf("expected exactly 1 successful reactivation, got %d", successCount.Load())
		}

		if conflictCount.Load() != int32(numCreates-1) {
			t.Errorf("expected %d conflicts, got %d", numCreates-1, conflictCount.Load())
		}
	})

	t.Run("deadlock prevention with opposing transfers", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		a := testDB.CreateTestAccount(ctx, 300)
		b := testDB.CreateTestAccount(ctx, 301)
		testDB.CreditTestAccount(ctx, a, 100000)
		testDB.CreditTestAccount(ctx, b, 100000)

		numTransfers := 50
		amount := decimal.RequireFromString("10.00")

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
		)

		// Half transfer A -> B, half transfer B -> A concurrently.
		wg.Add(numTransfers * 2)

		for range numTransfers {
			go func() {
				defer wg.Done()

				err := transferUC.Transfer(ctx, usecase.TransferInput{
					SenderID:    300,
					RecipientID: 301,
					Amount:      amount,
				})
				if err == nil {
					successCount.Add(1)
				}
			}()
			go func() {
				defer wg.Done()

				err := transferUC.Transfer(ctx, usecase.TransferInput{
					SenderID:    301,
					RecipientID: 300,
					Amount:      amount,
				})
				if err == nil {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		// All transfers should succeed (no deadlock).
		if successCount.Load() != int32(numTransfers*2) {
			t.Errorf("expected %d successful transfers, got %d", numTransfers*2, successCount.Load())
		}

		// Equal opposing transfers leave both balances unchanged.
		if balance := testDB.BalanceMinor(ctx, a.ID); balance != 100000 {
			t.Errorf("expected a balance 100000, got %d", balance)
		}

		if balance := testDB.BalanceMinor(ctx, b.ID); balance != 100000 {
			t.Errorf("expected b balance 100000, got %d", balance)
		}
	})
}

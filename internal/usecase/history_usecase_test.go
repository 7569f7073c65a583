package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/paymaster/internal/domain"
	"github.com/iho/paymaster/internal/usecase"
	"github.com/iho/paymaster/internal/usecase/mocks"
)

func sortDir(d domain.SortDirection) *domain.SortDirection { return &d }

func TestFetchHistory_UnknownAccount(t *testing.T) {
	uc := usecase.NewHistoryUseCase(mocks.NewMockAccountRepository(), mocks.NewMockEntryRepository())

	_, err := uc.FetchHistory(context.Background(), usecase.FetchHistoryInput{UserID: 1, PageNumber: 1, PageSize: 10})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestFetchHistory_EmptyPageIsNotAnError(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	accountRepo.Seed(1)
	uc := usecase.NewHistoryUseCase(accountRepo, mocks.NewMockEntryRepository())

	records, err := uc.FetchHistory(context.Background(), usecase.FetchHistoryInput{UserID: 1, PageNumber: 50, PageSize: 10})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestFetchHistory_SortByTotalAscending(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	account := accountRepo.Seed(1)
	entryRepo := mocks.NewMockEntryRepository()

	now := time.Now().UTC()
	for _, minor := range []int64{10000, -1000, -4000} {
		require.NoError(t, entryRepo.Create(context.Background(), nil, &domain.Entry{
			AccountID:      account.ID,
			CounterpartyID: account.ID,
			AmountMinor:    minor,
			CreatedAt:      now,
		}))
	}
	entryRepo.Flush()

	uc := usecase.NewHistoryUseCase(accountRepo, entryRepo)
	records, err := uc.FetchHistory(context.Background(), usecase.FetchHistoryInput{
		UserID:     1,
		PageNumber: 1,
		PageSize:   10,
		Order:      domain.HistoryOrder{ByTotal: sortDir(domain.SortAsc)},
	})
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.True(t, records[0].Total().Equal(decimal.RequireFromString("-40")))
	require.True(t, records[1].Total().Equal(decimal.RequireFromString("-10")))
	require.True(t, records[2].Total().Equal(decimal.RequireFromString("100")))
}

func TestFetchHistory_Pagination(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	account := accountRepo.Seed(1)
	entryRepo := mocks.NewMockEntryRepository()

	now := time.Now().UTC()
	for i := int64(1); i <= 5; i++ {
		require.NoError(t, entryRepo.Create(context.Background(), nil, &domain.Entry{
			AccountID:      account.ID,
			CounterpartyID: account.ID,
			AmountMinor:    i * 100,
			CreatedAt:      now,
		}))
	}
	entryRepo.Flush()

	uc := usecase.NewHistoryUseCase(accountRepo, entryRepo)

	page2, err := uc.FetchHistory(context.Background(), usecase.FetchHistoryInput{
		UserID:     1,
		PageNumber: 2,
		PageSize:   2,
		Order:      domain.HistoryOrder{ByTotal: sortDir(domain.SortAsc)},
	})
	require.NoError(t, err)
	require.Len(t, page2, 2)
	require.Equal(t, int64(300), page2[0].TotalMinor)
	require.Equal(t, int64(400), page2[1].TotalMinor)
}

func TestFetchHistory_DefaultsApplied(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	accountRepo.Seed(1)
	entryRepo := mocks.NewMockEntryRepository()

	var gotLimit, gotOffset int
	entryRepo.HistoryFunc = func(ctx context.Context, accountID int64, order domain.HistoryOrder, limit, offset int) ([]domain.HistoryRecord, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}

	uc := usecase.NewHistoryUseCase(accountRepo, entryRepo)

	_, err := uc.FetchHistory(context.Background(), usecase.FetchHistoryInput{UserID: 1})
	require.NoError(t, err)
	require.Equal(t, usecase.DefaultPageSize, gotLimit)
	require.Equal(t, 0, gotOffset)

	_, err = uc.FetchHistory(context.Background(), usecase.FetchHistoryInput{UserID: 1, PageNumber: 3, PageSize: 500})
	require.NoError(t, err)
	require.Equal(t, usecase.MaxPageSize, gotLimit)
	require.Equal(t, 2*usecase.MaxPageSize, gotOffset)
}

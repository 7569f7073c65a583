package usecase

import (
	"context"

	"github.com/iho/paymaster/internal/domain"
)

// History pagination bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// HistoryUseCase reads the paginated entry projection for one account.
type HistoryUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
}

// NewHistoryUseCase creates a new HistoryUseCase.
func NewHistoryUseCase(accountRepo AccountRepository, entryRepo EntryRepository) *HistoryUseCase {
	return &HistoryUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// FetchHistoryInput describes one history page request.
type FetchHistoryInput struct {
	Order      domain.HistoryOrder
	UserID     int64
	PageNumber int
	PageSize   int
}

// FetchHistory returns one page of the account's movements. A missing account
// is an error; an active account with nothing on the requested page is an
// empty successful result.
func (uc *HistoryUseCase) FetchHistory(ctx context.Context, input FetchHistoryInput) ([]domain.HistoryRecord, error) {
	if input.PageNumber < 1 {
		input.PageNumber = 1
	}

	if input.PageSize <= 0 {
		input.PageSize = DefaultPageSize
	}

	if input.PageSize > MaxPageSize {
		input.PageSize = MaxPageSize
	}

	account, err := uc.accountRepo.GetActiveByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	offset := (input.PageNumber - 1) * input.PageSize

	return uc.entryRepo.History(ctx, account.ID, input.Order, input.PageSize, offset)
}

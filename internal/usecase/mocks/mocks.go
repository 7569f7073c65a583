// Package mocks holds hand-written fakes for the usecase ports.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/paymaster/internal/domain"
	"github.com/iho/paymaster/internal/usecase"
)

// MockAccountRepository is an in-memory AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account
	nextID   int64

	CreateFunc                      func(ctx context.Context, userID int64, now time.Time) (*domain.Account, error)
	GetByUserIDFunc                 func(ctx context.Context, userID int64) (*domain.Account, error)
	GetActiveByUserIDFunc           func(ctx context.Context, userID int64) (*domain.Account, error)
	GetActiveByUserIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, userID int64) (*domain.Account, error)
	GetActiveByUserIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, userIDs []int64) ([]*domain.Account, error)
	UpdateStatusFunc                func(ctx context.Context, id int64, from, to domain.AccountStatus, updatedAt time.Time) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[int64]*domain.Account)}
}

// Seed registers an active account and returns it.
func (m *MockAccountRepository) Seed(userID int64) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	account := &domain.Account{ID: m.nextID, UserID: userID, Status: domain.AccountActive}
	m.accounts[userID] = account
	return account
}

func (m *MockAccountRepository) Create(ctx context.Context, userID int64, now time.Time) (*domain.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[userID]; ok {
		return nil, domain.ErrAccountConflict
	}
	m.nextID++
	account := &domain.Account{ID: m.nextID, UserID: userID, Status: domain.AccountActive, CreatedAt: now, UpdatedAt: now}
	m.accounts[userID] = account
	return account, nil
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Account, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if account, ok := m.accounts[userID]; ok {
		return account, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetActiveByUserID(ctx context.Context, userID int64) (*domain.Account, error) {
	if m.GetActiveByUserIDFunc != nil {
		return m.GetActiveByUserIDFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if account, ok := m.accounts[userID]; ok && account.IsActive() {
		return account, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetActiveByUserIDForUpdate(ctx context.Context, tx usecase.Transaction, userID int64) (*domain.Account, error) {
	if m.GetActiveByUserIDForUpdateFunc != nil {
		return m.GetActiveByUserIDForUpdateFunc(ctx, tx, userID)
	}
	return m.GetActiveByUserID(ctx, userID)
}

func (m *MockAccountRepository) GetActiveByUserIDsForUpdate(ctx context.Context, tx usecase.Transaction, userIDs []int64) ([]*domain.Account, error) {
	if m.GetActiveByUserIDsForUpdateFunc != nil {
		return m.GetActiveByUserIDsForUpdateFunc(ctx, tx, userIDs)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range userIDs {
		if account, ok := m.accounts[id]; ok && account.IsActive() {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.AccountStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, from, to, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.ID == id {
			if account.Status != from {
				return fmt.Errorf("%w: account %d is not %s", domain.ErrAccountConflict, id, from)
			}
			account.Status = to
			account.UpdatedAt = updatedAt
			return nil
		}
	}
	return fmt.Errorf("%w: account %d is not %s", domain.ErrAccountConflict, id, from)
}

// MockEntryRepository is an in-memory EntryRepository. Entries created inside
// a transaction stay pending until Flush; Discard drops them, which lets tests
// assert that rolled-back operations leave no rows behind.
type MockEntryRepository struct {
	mu      sync.RWMutex
	Entries []*domain.Entry
	pending []*domain.Entry
	nextID  int64

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	SumByAccountFunc   func(ctx context.Context, accountID int64) (int64, error)
	SumByAccountTxFunc func(ctx context.Context, tx usecase.Transaction, accountID int64) (int64, error)
	HistoryFunc        func(ctx context.Context, accountID int64, order domain.HistoryOrder, limit, offset int) ([]domain.HistoryRecord, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	entry.ID = m.nextID
	m.pending = append(m.pending, entry)
	return nil
}

func (m *MockEntryRepository) SumByAccount(ctx context.Context, accountID int64) (int64, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, e := range m.Entries {
		if e.AccountID == accountID {
			sum += e.AmountMinor
		}
	}
	return sum, nil
}

func (m *MockEntryRepository) SumByAccountTx(ctx context.Context, tx usecase.Transaction, accountID int64) (int64, error) {
	if m.SumByAccountTxFunc != nil {
		return m.SumByAccountTxFunc(ctx, tx, accountID)
	}
	sum, err := m.SumByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	// A transaction sees its own uncommitted writes.
	for _, e := range m.pending {
		if e.AccountID == accountID {
			sum += e.AmountMinor
		}
	}
	return sum, nil
}

func (m *MockEntryRepository) History(ctx context.Context, accountID int64, order domain.HistoryOrder, limit, offset int) ([]domain.HistoryRecord, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, accountID, order, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []domain.HistoryRecord
	for _, e := range m.Entries {
		if e.AccountID == accountID {
			records = append(records, domain.HistoryRecord{
				Date:               e.CreatedAt.Truncate(24 * time.Hour),
				CounterpartyUserID: e.CounterpartyID,
				Description:        e.Description,
				TotalMinor:         e.AmountMinor,
			})
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if order.ByDate != nil && !records[i].Date.Equal(records[j].Date) {
			if *order.ByDate == domain.SortAsc {
				return records[i].Date.Before(records[j].Date)
			}
			return records[i].Date.After(records[j].Date)
		}
		if order.ByTotal != nil && records[i].TotalMinor != records[j].TotalMinor {
			if *order.ByTotal == domain.SortAsc {
				return records[i].TotalMinor < records[j].TotalMinor
			}
			return records[i].TotalMinor > records[j].TotalMinor
		}
		if order.ByDate == nil && order.ByTotal == nil {
			return records[i].Date.After(records[j].Date)
		}
		return false
	})

	if offset >= len(records) {
		return nil, nil
	}
	records = records[offset:]
	if limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

// Flush commits pending entries.
func (m *MockEntryRepository) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, m.pending...)
	m.pending = nil
}

// Discard drops pending entries.
func (m *MockEntryRepository) Discard() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
}

// MockRateRepository is an in-memory RateRepository.
type MockRateRepository struct {
	mu    sync.RWMutex
	Rates map[string]decimal.Decimal

	GetFunc       func(ctx context.Context, code string) (decimal.Decimal, error)
	UpsertAllFunc func(ctx context.Context, rates []domain.CurrencyRate) error
}

func NewMockRateRepository() *MockRateRepository {
	return &MockRateRepository{Rates: make(map[string]decimal.Decimal)}
}

func (m *MockRateRepository) Get(ctx context.Context, code string) (decimal.Decimal, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rate, ok := m.Rates[code]; ok {
		return rate, nil
	}
	return decimal.Zero, domain.ErrCurrencyNotFound
}

func (m *MockRateRepository) UpsertAll(ctx context.Context, rates []domain.CurrencyRate) error {
	if m.UpsertAllFunc != nil {
		return m.UpsertAllFunc(ctx, rates)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rates {
		m.Rates[r.Code] = r.Rate
	}
	return nil
}

// MockTransaction records commit/rollback calls.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	onCommit   func()
	onRollback func()
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	if t.onCommit != nil {
		t.onCommit()
	}
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.Committed || t.RolledBack {
		return nil
	}
	t.RolledBack = true
	if t.onRollback != nil {
		t.onRollback()
	}
	return nil
}

// MockTransactionManager hands out MockTransactions. OnCommit/OnRollback are
// typically wired to a MockEntryRepository's Flush/Discard.
type MockTransactionManager struct {
	Last       *MockTransaction
	OnCommit   func()
	OnRollback func()

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.Last = &MockTransaction{onCommit: m.OnCommit, onRollback: m.OnRollback}
	return m.Last, nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is a single signed ledger movement. Entries are append-only: the
// balance of an account is always the signed sum of its entries.
type Entry struct {
	CreatedAt      time.Time
	Description    string
	ID             int64
	AccountID      int64
	CounterpartyID int64
	AmountMinor    int64
}

// HistoryRecord is the caller-facing projection of an entry.
type HistoryRecord struct {
	Date               time.Time
	Description        string
	CounterpartyUserID int64
	TotalMinor         int64
}

// Total returns the signed movement in major units.
func (r HistoryRecord) Total() decimal.Decimal {
	return decimal.New(r.TotalMinor, -minorExponent)
}

// SortDirection orders a history sort key.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// HistoryOrder is a compound ordering over history records. Date is applied
// before Total when both are set; a nil key is omitted. The zero value means
// newest first.
type HistoryOrder struct {
	ByDate  *SortDirection
	ByTotal *SortDirection
}

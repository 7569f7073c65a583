package domain

import "time"

// AccountStatus marks whether an account accepts operations.
type AccountStatus string

const (
	AccountActive  AccountStatus = "active"
	AccountDeleted AccountStatus = "deleted"
)

// Account ties an external user id to the internal row entries reference.
// The surrogate ID never leaves the engine.
type Account struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Status    AccountStatus
	ID        int64
	UserID    int64
}

// IsActive reports whether the account accepts operations.
func (a *Account) IsActive() bool {
	return a.Status == AccountActive
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/paymaster/internal/domain"
	"github.com/iho/paymaster/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, user_id, status, created_at, updated_at`

// Create inserts a fresh active account.
func (r *AccountRepository) Create(ctx context.Context, userID int64, now time.Time) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (user_id, status, created_at, updated_at)
		VALUES ($1, 'active', $2, $2)
		RETURNING `+accountColumns,
		userID, now)

	account, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			// Lost a create race for the same user id.
			return nil, fmt.Errorf("%w: user %d", domain.ErrAccountConflict, userID)
		}

		return nil, err
	}

	return account, nil
}

// GetByUserID retrieves the account regardless of status.
func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1`, userID)

	return scanAccountNotFound(row, userID)
}

// GetActiveByUserID retrieves the account only if it is active.
func (r *AccountRepository) GetActiveByUserID(ctx context.Context, userID int64) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 AND status = 'active'`, userID)

	return scanAccountNotFound(row, userID)
}

// GetActiveByUserIDForUpdate locks the account row for the duration of tx.
// Every debit's sufficiency check runs under this lock, so two concurrent
// debits against the same account serialize instead of both passing the check.
func (r *AccountRepository) GetActiveByUserIDForUpdate(ctx context.Context, tx usecase.Transaction, userID int64) (*domain.Account, error) {
	q := tx.(*Tx).PgxTx()

	row := q.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 AND status = 'active' FOR UPDATE`, userID)

	return scanAccountNotFound(row, userID)
}

// GetActiveByUserIDsForUpdate locks several account rows in ascending user id
// order.
func (r *AccountRepository) GetActiveByUserIDsForUpdate(ctx context.Context, tx usecase.Transaction, userIDs []int64) ([]*domain.Account, error) {
	q := tx.(*Tx).PgxTx()

	rows, err := q.Query(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE user_id = ANY($1) AND status = 'active'
		ORDER BY user_id
		FOR UPDATE`,
		userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateStatus flips the account's status guarded by its current one. With
// the predicate in the UPDATE itself, two concurrent transitions over the
// same row cannot both report success; the loser sees zero affected rows.
func (r *AccountRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.AccountStatus, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, from, to, updatedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %d is not %s", domain.ErrAccountConflict, id, from)
	}

	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(&account.ID, &account.UserID, &account.Status, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &account, nil
}

func scanAccountNotFound(row pgx.Row, userID int64) (*domain.Account, error) {
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %d", domain.ErrAccountNotFound, userID)
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}

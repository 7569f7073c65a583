package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/paymaster/internal/domain"
	"github.com/iho/paymaster/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create appends one entry inside tx. Entries are never updated or deleted.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	q := tx.(*Tx).PgxTx()

	return q.QueryRow(ctx, `
		INSERT INTO entries (account_id, counterparty_id, description, amount_minor, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		entry.AccountID, entry.CounterpartyID, entry.Description, entry.AmountMinor, entry.CreatedAt,
	).Scan(&entry.ID)
}

// SumByAccount returns the signed minor-unit sum of the account's entries.
func (r *EntryRepository) SumByAccount(ctx context.Context, accountID int64) (int64, error) {
	return sumByAccount(ctx, r.pool, accountID)
}

// SumByAccountTx is SumByAccount on an open transaction, observing that
// transaction's own uncommitted entries.
func (r *EntryRepository) SumByAccountTx(ctx context.Context, tx usecase.Transaction, accountID int64) (int64, error) {
	return sumByAccount(ctx, tx.(*Tx).PgxTx(), accountID)
}

func sumByAccount(ctx context.Context, q querier, accountID int64) (int64, error) {
	var sum int64
	err := q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_minor), 0) FROM entries WHERE account_id = $1`,
		accountID,
	).Scan(&sum)

	return sum, err
}

// History returns one ordered page of the account's movements, resolving each
// counterparty to its external user id.
func (r *EntryRepository) History(ctx context.Context, accountID int64, order domain.HistoryOrder, limit, offset int) ([]domain.HistoryRecord, error) {
	query := fmt.Sprintf(`
		SELECT DATE(e.created_at) AS date, a.user_id, e.description, e.amount_minor
		FROM entries e
		JOIN accounts a ON a.id = e.counterparty_id
		WHERE e.account_id = $1
		ORDER BY %s
		OFFSET $2 LIMIT $3`,
		historyOrderClause(order))

	rows, err := r.pool.Query(ctx, query, accountID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		err := rows.Scan(&rec.Date, &rec.CounterpartyUserID, &rec.Description, &rec.TotalMinor)
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

// historyOrderClause builds the ORDER BY key list from the whitelisted sort
// columns. Directions come from domain.SortDirection, never from raw input,
// so the interpolation cannot carry anything but these fixed tokens.
func historyOrderClause(order domain.HistoryOrder) string {
	var keys []string

	if order.ByDate != nil {
		keys = append(keys, "date "+sqlDirection(*order.ByDate))
	}

	if order.ByTotal != nil {
		keys = append(keys, "amount_minor "+sqlDirection(*order.ByTotal))
	}

	if len(keys) == 0 {
		return "date DESC"
	}

	return strings.Join(keys, ", ")
}

func sqlDirection(d domain.SortDirection) string {
	if d == domain.SortAsc {
		return "ASC"
	}

	return "DESC"
}

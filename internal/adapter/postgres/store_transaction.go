package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/ledger"
)

const transactionColumns = `id, description, vendor, amount, tax, category, direction, date, created_at`

func (s *Store) ListTransactions(ctx context.Context, limit int) ([]ledger.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC LIMIT $1`, limit)
}

func (s *Store) ListUncategorizedTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE category = '' ORDER BY date DESC`)
}

func (s *Store) ListTransactionsBetween(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE date >= $1 AND date < $2 ORDER BY date ASC`,
		from, to)
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]ledger.Transaction, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []ledger.Transaction
	for rows.Next() {
		var t ledger.Transaction
		if err := rows.Scan(&t.ID, &t.Description, &t.Vendor, &t.Amount, &t.Tax,
			&t.Category, &t.Direction, &t.Date, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (s *Store) CreateTransaction(ctx context.Context, req ledger.CreateRequest) (*ledger.Transaction, error) {
	rate := ledger.VATRateForCategory(req.Category)
	tax, _ := ledger.BackCalculateVAT(req.Amount, rate)

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	var t ledger.Transaction
	err := s.pool.QueryRow(ctx,
		`INSERT INTO transactions (description, vendor, amount, tax, category, direction, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+transactionColumns,
		req.Description, req.Vendor, req.Amount, tax, req.Category, string(req.Direction), date,
	).Scan(&t.ID, &t.Description, &t.Vendor, &t.Amount, &t.Tax,
		&t.Category, &t.Direction, &t.Date, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return &t, nil
}

func (s *Store) UpdateTransactionCategory(ctx context.Context, id, category string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE transactions SET category = $2 WHERE id = $1`, id, category)
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update transaction %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/receipt"
)

const receiptColumns = `id, vendor, amount, tax, category, status, image_url, date, approved_at, created_at`

func (s *Store) ListReceipts(ctx context.Context, limit int) ([]receipt.Receipt, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.queryReceipts(ctx,
		`SELECT `+receiptColumns+` FROM receipts ORDER BY date DESC LIMIT $1`, limit)
}

func (s *Store) ListReceiptsByStatus(ctx context.Context, status receipt.Status) ([]receipt.Receipt, error) {
	return s.queryReceipts(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE status = $1 ORDER BY date DESC`, string(status))
}

func (s *Store) queryReceipts(ctx context.Context, query string, args ...any) ([]receipt.Receipt, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []receipt.Receipt
	for rows.Next() {
		var r receipt.Receipt
		if err := rows.Scan(&r.ID, &r.Vendor, &r.Amount, &r.Tax, &r.Category, &r.Status,
			&r.ImageURL, &r.Date, &r.ApprovedAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

func (s *Store) UpdateReceiptStatus(ctx context.Context, id string, status receipt.Status, approvedAt *time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE receipts SET status = $2, approved_at = $3 WHERE id = $1`,
		id, string(status), approvedAt)
	if err != nil {
		return fmt.Errorf("update receipt %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update receipt %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

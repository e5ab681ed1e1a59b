package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/invoice"
)

const invoiceColumns = `id, number, client_id, amount, tax, total, status, due_date, paid_at, created_at, updated_at`

func scanInvoice(row pgx.Row) (invoice.Invoice, error) {
	var inv invoice.Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.ClientID, &inv.Amount, &inv.Tax, &inv.Total,
		&inv.Status, &inv.DueDate, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt)
	return inv, err
}

func (s *Store) ListInvoices(ctx context.Context) ([]invoice.Invoice, error) {
	return s.queryInvoices(ctx,
		`SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC`)
}

func (s *Store) ListInvoicesByStatus(ctx context.Context, status invoice.Status) ([]invoice.Invoice, error) {
	return s.queryInvoices(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE status = $1 ORDER BY due_date ASC`, string(status))
}

func (s *Store) ListInvoicesByClient(ctx context.Context, clientID string) ([]invoice.Invoice, error) {
	return s.queryInvoices(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE client_id = $1 ORDER BY created_at DESC`, clientID)
}

func (s *Store) queryInvoices(ctx context.Context, query string, args ...any) ([]invoice.Invoice, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []invoice.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (s *Store) GetInvoice(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := scanInvoice(s.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get invoice %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get invoice %s: %w", id, err)
	}
	return &inv, nil
}

// LastInvoiceNumber returns the number of the most recently created invoice,
// or "" when no invoice exists yet.
func (s *Store) LastInvoiceNumber(ctx context.Context) (string, error) {
	var number string
	err := s.pool.QueryRow(ctx,
		`SELECT number FROM invoices ORDER BY created_at DESC LIMIT 1`).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last invoice number: %w", err)
	}
	return number, nil
}

// driftRetryBudget bounds how many unrecognized columns CreateInvoice will
// strip before giving up.
const driftRetryBudget = 3

var undefinedColumnRe = regexp.MustCompile(`column "([^"]+)"`)

// CreateInvoice inserts a new invoice. When the database schema is older than
// the application and rejects an unrecognized column (SQLSTATE 42703), the
// column is stripped from the payload and the insert retried, up to
// driftRetryBudget times. Unique violations on the invoice number propagate
// as domain.ErrConflict so the caller can re-derive the sequence and retry.
func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) (*invoice.Invoice, error) {
	cols := []string{"number", "client_id", "amount", "tax", "total", "status", "due_date"}
	vals := []any{inv.Number, inv.ClientID, inv.Amount, inv.Tax, inv.Total, string(inv.Status), inv.DueDate}

	for attempt := 0; ; attempt++ {
		created, err := s.insertInvoice(ctx, cols, vals)
		if err == nil {
			created.Lines = inv.Lines
			if err := s.insertInvoiceLines(ctx, created); err != nil {
				return nil, err
			}
			return created, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" {
				return nil, fmt.Errorf("create invoice %s: %w", inv.Number, domain.ErrConflict)
			}
			if pgErr.Code == "42703" && attempt < driftRetryBudget {
				stripped := stripColumn(&cols, &vals, undefinedColumn(pgErr))
				if stripped {
					continue
				}
			}
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}
}

func (s *Store) insertInvoice(ctx context.Context, cols []string, vals []any) (*invoice.Invoice, error) {
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		`INSERT INTO invoices (%s) VALUES (%s) RETURNING %s`,
		strings.Join(cols, ", "), strings.Join(placeholders, ", "), invoiceColumns)

	inv, err := scanInvoice(s.pool.QueryRow(ctx, query, vals...))
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) insertInvoiceLines(ctx context.Context, inv *invoice.Invoice) error {
	for i := range inv.Lines {
		line := &inv.Lines[i]
		err := s.pool.QueryRow(ctx,
			`INSERT INTO invoice_lines (invoice_id, description, quantity, unit_price, amount)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			inv.ID, line.Description, line.Quantity, line.UnitPrice, line.Amount,
		).Scan(&line.ID)
		if err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
		line.InvoiceID = inv.ID
	}
	return nil
}

// undefinedColumn extracts the offending column name from a 42703 error.
func undefinedColumn(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := undefinedColumnRe.FindStringSubmatch(pgErr.Message); m != nil {
		return m[1]
	}
	return ""
}

// stripColumn removes the named column (and its value) in place.
// Returns false when the column is not in the payload.
func stripColumn(cols *[]string, vals *[]any, name string) bool {
	if name == "" {
		return false
	}
	for i, c := range *cols {
		if c == name {
			*cols = append((*cols)[:i], (*cols)[i+1:]...)
			*vals = append((*vals)[:i], (*vals)[i+1:]...)
			return true
		}
	}
	return false
}

// --- Recurring templates ---

func (s *Store) ListRecurringTemplates(ctx context.Context) ([]invoice.RecurringTemplate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, client_id, amount, interval, next_run_at, active, created_at
		 FROM recurring_templates ORDER BY next_run_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list recurring templates: %w", err)
	}
	defer rows.Close()

	var templates []invoice.RecurringTemplate
	for rows.Next() {
		var t invoice.RecurringTemplate
		if err := rows.Scan(&t.ID, &t.ClientID, &t.Amount, &t.Interval, &t.NextRunAt, &t.Active, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recurring template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (s *Store) CreateRecurringTemplate(ctx context.Context, t *invoice.RecurringTemplate) (*invoice.RecurringTemplate, error) {
	var created invoice.RecurringTemplate
	err := s.pool.QueryRow(ctx,
		`INSERT INTO recurring_templates (client_id, amount, interval, next_run_at, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, client_id, amount, interval, next_run_at, active, created_at`,
		t.ClientID, t.Amount, t.Interval, t.NextRunAt, t.Active,
	).Scan(&created.ID, &created.ClientID, &created.Amount, &created.Interval,
		&created.NextRunAt, &created.Active, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create recurring template: %w", err)
	}
	return &created, nil
}

package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestStripColumn(t *testing.T) {
	cols := []string{"number", "client_id", "amount", "due_date"}
	vals := []any{"INV-2025-001", "c1", 100.0, nil}

	if !stripColumn(&cols, &vals, "amount") {
		t.Fatal("expected amount to be stripped")
	}
	if len(cols) != 3 || len(vals) != 3 {
		t.Fatalf("expected 3 columns left, got %d/%d", len(cols), len(vals))
	}
	for _, c := range cols {
		if c == "amount" {
			t.Fatal("amount still present after strip")
		}
	}

	if stripColumn(&cols, &vals, "nonexistent") {
		t.Fatal("stripping an unknown column should report false")
	}
	if stripColumn(&cols, &vals, "") {
		t.Fatal("stripping an empty name should report false")
	}
}

func TestUndefinedColumnFromMessage(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:    "42703",
		Message: `column "paid_at" of relation "invoices" does not exist`,
	}
	if got := undefinedColumn(pgErr); got != "paid_at" {
		t.Errorf("expected paid_at, got %q", got)
	}
}

func TestUndefinedColumnPrefersStructuredField(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       "42703",
		ColumnName: "tax",
		Message:    `column "paid_at" of relation "invoices" does not exist`,
	}
	if got := undefinedColumn(pgErr); got != "tax" {
		t.Errorf("expected tax, got %q", got)
	}
}

func TestUndefinedColumnUnparseable(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42703", Message: "something else entirely"}
	if got := undefinedColumn(pgErr); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

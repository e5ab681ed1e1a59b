package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/client"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// --- Clients ---

func (s *Store) ListClients(ctx context.Context) ([]client.Client, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, org_number, payment_terms, created_at, updated_at
		 FROM clients ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []client.Client
	for rows.Next() {
		var c client.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.OrgNumber, &c.PaymentTerms, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *Store) GetClient(ctx context.Context, id string) (*client.Client, error) {
	var c client.Client
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, org_number, payment_terms, created_at, updated_at
		 FROM clients WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.OrgNumber, &c.PaymentTerms, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get client %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get client %s: %w", id, err)
	}
	return &c, nil
}

// FindClientByName resolves a heuristically extracted name to a client using
// a case-insensitive partial match. The extracted name is never treated as an
// exact key.
func (s *Store) FindClientByName(ctx context.Context, partial string) (*client.Client, error) {
	var c client.Client
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, org_number, payment_terms, created_at, updated_at
		 FROM clients WHERE name ILIKE '%' || $1 || '%' ORDER BY name ASC LIMIT 1`, partial,
	).Scan(&c.ID, &c.Name, &c.Email, &c.OrgNumber, &c.PaymentTerms, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("find client %q: %w", partial, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("find client %q: %w", partial, err)
	}
	return &c, nil
}

func (s *Store) CreateClient(ctx context.Context, req client.CreateRequest) (*client.Client, error) {
	if req.PaymentTerms == 0 {
		req.PaymentTerms = 30
	}
	var c client.Client
	err := s.pool.QueryRow(ctx,
		`INSERT INTO clients (name, email, org_number, payment_terms)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, email, org_number, payment_terms, created_at, updated_at`,
		req.Name, req.Email, req.OrgNumber, req.PaymentTerms,
	).Scan(&c.ID, &c.Name, &c.Email, &c.OrgNumber, &c.PaymentTerms, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &c, nil
}

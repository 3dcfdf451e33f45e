package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/norahairline/norahairline/internal/database"
)

// Sentinel errors for store operations.
var (
	// ErrDuplicateUsername is returned when an admin with the same username exists.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrAdminNotFound is returned when no admin has the requested username.
	ErrAdminNotFound = errors.New("admin not found")

	// ErrProductNotFound is returned when the referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductReferenced is returned when deleting a product that orders or reviews still reference.
	ErrProductReferenced = errors.New("product is referenced by orders or reviews")

	// ErrOrderNotFound is returned when the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")
)

// Querier is satisfied by *sql.DB, *sql.Tx and *database.DB.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store provides typed access to the four entity tables.
type Store struct {
	q   Querier
	now func() time.Time
}

// New creates a Store over q. Pass a *sql.Tx to run accessors inside a transaction.
func New(q Querier) *Store {
	return &Store{
		q:   q,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// CountRows returns the number of rows in one of database.Tables.
func (s *Store) CountRows(ctx context.Context, table string) (int64, error) {
	if !slices.Contains(database.Tables, table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var n int64
	if err := s.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// nullString maps nil to SQL NULL.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

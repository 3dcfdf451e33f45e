package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/norahairline/norahairline/internal/database"
	"github.com/norahairline/norahairline/internal/models"
)

// InsertAdmin stores a new administrator and returns its id.
func (s *Store) InsertAdmin(ctx context.Context, username, passwordHash string) (int64, error) {
	admin := models.Admin{Username: username, PasswordHash: passwordHash}
	if err := admin.Validate(); err != nil {
		return 0, err
	}

	res, err := s.q.ExecContext(ctx, `
		INSERT INTO admins (username, password_hash, created_at)
		VALUES (?, ?, ?)
	`, username, passwordHash, s.now())
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %q", ErrDuplicateUsername, username)
		}
		return 0, fmt.Errorf("failed to insert admin: %w", err)
	}

	return res.LastInsertId()
}

// GetAdminByUsername loads the admin row for username.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var a models.Admin
	err := s.q.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM admins WHERE username = ?
	`, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrAdminNotFound, username)
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	return &a, nil
}

// ListAdmins returns all admins ordered by id.
func (s *Store) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT id, username, password_hash, created_at FROM admins ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var admins []models.Admin
	for rows.Next() {
		var a models.Admin
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	return s.CountRows(ctx, "admins")
}

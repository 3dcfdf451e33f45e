package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/norahairline/norahairline/internal/database"
	"github.com/norahairline/norahairline/internal/models"
)

const productColumns = `id, name, description, price, category, image_url, video_url,
	image_urls, stock, featured, created_at, updated_at`

// CreateProduct inserts p and fills in its ID and timestamps.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	imageURLs, err := encodeImageURLs(p.ImageURLs)
	if err != nil {
		return err
	}

	now := s.now()
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO products (name, description, price, category, image_url, video_url,
			image_urls, stock, featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Name, p.Description, p.Price, p.Category, nullString(p.ImageURL), nullString(p.VideoURL),
		imageURLs, p.Stock, p.Featured, now, now)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// GetProduct retrieves a product by its ID.
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return p, nil
}

// ListProducts returns products ordered by id, optionally limited to one category.
func (s *Store) ListProducts(ctx context.Context, category string) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct writes every mutable column of p and advances updated_at.
// Existing orders keep the total_price they were created with.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	updatedAt := s.now()
	if updatedAt.Before(p.CreatedAt) {
		updatedAt = p.CreatedAt
	}
	if !p.UpdatedAt.IsZero() && !updatedAt.After(p.UpdatedAt) {
		updatedAt = p.UpdatedAt.Add(time.Microsecond)
	}

	candidate := *p
	candidate.UpdatedAt = updatedAt
	if err := candidate.Validate(); err != nil {
		return err
	}

	imageURLs, err := encodeImageURLs(p.ImageURLs)
	if err != nil {
		return err
	}

	res, err := s.q.ExecContext(ctx, `
		UPDATE products SET name = ?, description = ?, price = ?, category = ?, image_url = ?,
			video_url = ?, image_urls = ?, stock = ?, featured = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Description, p.Price, p.Category, nullString(p.ImageURL), nullString(p.VideoURL),
		imageURLs, p.Stock, p.Featured, updatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrProductNotFound, p.ID)
	}

	p.UpdatedAt = updatedAt
	return nil
}

// DeleteProduct removes a product that no order or review references.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: id %d", ErrProductReferenced, id)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(r rowScanner) (*models.Product, error) {
	var (
		p                  models.Product
		imageURL, videoURL sql.NullString
		imageURLs          sql.NullString
	)

	err := r.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &imageURL, &videoURL,
		&imageURLs, &p.Stock, &p.Featured, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.ImageURL = stringPtr(imageURL)
	p.VideoURL = stringPtr(videoURL)
	if p.ImageURLs, err = decodeImageURLs(imageURLs); err != nil {
		return nil, fmt.Errorf("product %d: %w", p.ID, err)
	}
	return &p, nil
}

func encodeImageURLs(urls []string) (sql.NullString, error) {
	if urls == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode image_urls: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeImageURLs(ns sql.NullString) ([]string, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(ns.String), &urls); err != nil {
		return nil, fmt.Errorf("invalid image_urls: %w", err)
	}
	return urls, nil
}

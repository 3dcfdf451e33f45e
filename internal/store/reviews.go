package store

import (
	"context"
	"fmt"

	"github.com/norahairline/norahairline/internal/database"
	"github.com/norahairline/norahairline/internal/models"
)

// CreateReview stores a review; the rating must lie in [1,5] and the product must exist.
func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	if err := r.Validate(); err != nil {
		return err
	}

	now := s.now()
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO reviews (product_id, customer_name, customer_email, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ProductID, r.CustomerName, r.CustomerEmail, r.Rating, r.Comment, now)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: id %d", ErrProductNotFound, r.ProductID)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	r.CreatedAt = now
	return nil
}

// ListReviewsByProduct returns a product's reviews, newest first.
func (s *Store) ListReviewsByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, product_id, customer_name, customer_email, rating, comment, created_at
		FROM reviews WHERE product_id = ?
		ORDER BY created_at DESC, id DESC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.CustomerName, &r.CustomerEmail, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

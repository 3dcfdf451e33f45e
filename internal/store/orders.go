package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/norahairline/norahairline/internal/database"
	"github.com/norahairline/norahairline/internal/models"
)

// CreateOrder places an order for o.ProductID. TotalPrice is computed from the
// product's current price and never recomputed afterwards.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.Quantity == 0 {
		o.Quantity = 1
	}
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}

	var price float64
	err := s.q.QueryRowContext(ctx, `SELECT price FROM products WHERE id = ?`, o.ProductID).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: id %d", ErrProductNotFound, o.ProductID)
		}
		return fmt.Errorf("failed to load product price: %w", err)
	}

	o.TotalPrice = models.OrderTotal(price, o.Quantity)
	if err := o.Validate(); err != nil {
		return err
	}

	now := s.now()
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO orders (customer_name, customer_email, product_id, quantity, total_price, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, o.CustomerName, o.CustomerEmail, o.ProductID, o.Quantity, o.TotalPrice, o.Status, now)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: id %d", ErrProductNotFound, o.ProductID)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = id
	o.CreatedAt = now
	return nil
}

// GetOrder retrieves an order by its ID.
func (s *Store) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := s.q.QueryRowContext(ctx, `
		SELECT id, customer_name, customer_email, product_id, quantity, total_price, status, created_at
		FROM orders WHERE id = ?
	`, id).Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.ProductID, &o.Quantity, &o.TotalPrice, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", ErrOrderNotFound, id)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &o, nil
}

// UpdateOrderStatus moves an order to one of models.OrderStatuses.
func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%w: unknown order status %q", models.ErrValidation, status)
	}

	res, err := s.q.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrOrderNotFound, id)
	}
	return nil
}

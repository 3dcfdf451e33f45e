package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses
const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// OrderStatuses lists every allowed status.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Order is a single-product purchase. TotalPrice is frozen when the order is placed.
type Order struct {
	ID            int64     `json:"id" db:"id"`
	CustomerName  string    `json:"customer_name" db:"customer_name"`
	CustomerEmail string    `json:"customer_email" db:"customer_email"`
	ProductID     int64     `json:"product_id" db:"product_id"`
	Quantity      int       `json:"quantity" db:"quantity"`
	TotalPrice    float64   `json:"total_price" db:"total_price"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ValidOrderStatus reports whether s is one of OrderStatuses.
func ValidOrderStatus(s string) bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// OrderTotal computes quantity × unit price without float drift (10.1 × 3 is 30.3, not 30.299999999999997).
func OrderTotal(unitPrice float64, quantity int) float64 {
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity))).InexactFloat64()
}

func (o *Order) Validate() error {
	if err := requireText("customer_name", o.CustomerName, MaxNameLen); err != nil {
		return err
	}
	if err := requireText("customer_email", o.CustomerEmail, MaxEmailLen); err != nil {
		return err
	}
	if o.ProductID <= 0 {
		return fmt.Errorf("%w: product_id is required", ErrValidation)
	}
	if o.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if o.TotalPrice < 0 {
		return fmt.Errorf("%w: total_price must be non-negative", ErrValidation)
	}
	if !ValidOrderStatus(o.Status) {
		return fmt.Errorf("%w: unknown order status %q", ErrValidation, o.Status)
	}
	return nil
}

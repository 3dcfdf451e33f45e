package models

import (
	"fmt"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID            int64     `json:"id" db:"id"`
	ProductID     int64     `json:"product_id" db:"product_id"`
	CustomerName  string    `json:"customer_name" db:"customer_name"`
	CustomerEmail string    `json:"customer_email" db:"customer_email"`
	Rating        int       `json:"rating" db:"rating"`
	Comment       string    `json:"comment" db:"comment"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

func (r *Review) Validate() error {
	if r.ProductID <= 0 {
		return fmt.Errorf("%w: product_id is required", ErrValidation)
	}
	if err := requireText("customer_name", r.CustomerName, MaxNameLen); err != nil {
		return err
	}
	if err := requireText("customer_email", r.CustomerEmail, MaxEmailLen); err != nil {
		return err
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d, got %d", ErrValidation, MinRating, MaxRating, r.Rating)
	}
	return nil
}

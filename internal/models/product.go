package models

import (
	"fmt"
	"time"
)

// DefaultStock is the stock level a new product starts with.
const DefaultStock = 100

// Product represents an item in the storefront catalog
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	ImageURL    *string   `json:"image_url,omitempty" db:"image_url"`
	VideoURL    *string   `json:"video_url,omitempty" db:"video_url"`
	ImageURLs   []string  `json:"image_urls,omitempty" db:"image_urls"` // stored as JSON text
	Stock       int       `json:"stock" db:"stock"`
	Featured    bool      `json:"featured" db:"featured"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NewProduct returns a product with the column defaults applied.
func NewProduct(name, description, category string, price float64) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		Stock:       DefaultStock,
	}
}

func (p *Product) Validate() error {
	if err := requireText("name", p.Name, MaxNameLen); err != nil {
		return err
	}
	if err := requireText("category", p.Category, MaxCategoryLen); err != nil {
		return err
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock must be non-negative", ErrValidation)
	}
	if p.ImageURL != nil {
		if err := maxLen("image_url", *p.ImageURL, MaxURLLen); err != nil {
			return err
		}
	}
	if p.VideoURL != nil {
		if err := maxLen("video_url", *p.VideoURL, MaxURLLen); err != nil {
			return err
		}
	}
	if !p.UpdatedAt.IsZero() && p.UpdatedAt.Before(p.CreatedAt) {
		return fmt.Errorf("%w: updated_at precedes created_at", ErrValidation)
	}
	return nil
}

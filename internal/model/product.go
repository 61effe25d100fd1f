package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents an auto part in the catalogue.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CategoryID  uuid.UUID       `json:"categoryId" db:"category_id"`
	Images      []string        `json:"images,omitempty" db:"images"`
	IsAvailable bool            `json:"isAvailable" db:"is_available"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// Category groups products in the catalogue.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
}

// ProductRequest represents the request payload for creating or replacing a
// product.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	Images      []string        `json:"images,omitempty"`
	IsAvailable *bool           `json:"isAvailable,omitempty"`
}

// CategoryRequest represents the request payload for creating a category.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

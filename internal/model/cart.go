package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a user's in-progress collection of intended purchases. At most one
// cart exists per user; it is created lazily and deleted when cleared.
type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItem is a single product entry in a cart. A product appears at most
// once per cart; price_at_add freezes the product price at add time.
type CartItem struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	CartID     uuid.UUID       `json:"-" db:"cart_id"`
	ProductID  uuid.UUID       `json:"productId" db:"product_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	PriceAtAdd decimal.Decimal `json:"priceAtAdd" db:"price_at_add"`
}

// Subtotal returns price_at_add multiplied by quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.PriceAtAdd.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartItemRequest represents the request payload for adding or updating a
// cart item.
type CartItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// CartResponse represents a cart together with its items and running total.
type CartResponse struct {
	Cart  Cart            `json:"cart"`
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

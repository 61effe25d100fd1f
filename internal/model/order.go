package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is an immutable record created from a cart at checkout. Its total and
// line items are frozen snapshots and are never recomputed afterwards.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          string          `json:"userId" db:"user_id"`
	TgUsername      string          `json:"tgUsername" db:"tg_username"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status          OrderStatus     `json:"status" db:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	DeliveryMethod  DeliveryMethod  `json:"deliveryMethod" db:"delivery_method"`
	PhoneNumber     string          `json:"phoneNumber" db:"phone_number"`
	DeliveryAddress string          `json:"deliveryAddress,omitempty" db:"delivery_address"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
	Items           []OrderItem     `json:"items,omitempty"`
}

// OrderItem is a line item snapshot. Product name and price are copied at
// order creation and never follow later product changes.
type OrderItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OrderID     uuid.UUID       `json:"-" db:"order_id"`
	ProductID   uuid.UUID       `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"`
}

// CheckoutRequest represents the request payload for placing an order from
// the caller's cart.
type CheckoutRequest struct {
	PaymentMethod   PaymentMethod  `json:"paymentMethod"`
	DeliveryMethod  DeliveryMethod `json:"deliveryMethod"`
	PhoneNumber     string         `json:"phoneNumber,omitempty"`
	DeliveryAddress string         `json:"deliveryAddress,omitempty"`
}

// OrderPatch is a partial update to an order. Nil fields are left untouched.
type OrderPatch struct {
	Status          *OrderStatus    `json:"status,omitempty"`
	PaymentStatus   *PaymentStatus  `json:"paymentStatus,omitempty"`
	PaymentMethod   *PaymentMethod  `json:"paymentMethod,omitempty"`
	DeliveryMethod  *DeliveryMethod `json:"deliveryMethod,omitempty"`
	PhoneNumber     *string         `json:"phoneNumber,omitempty"`
	DeliveryAddress *string         `json:"deliveryAddress,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p *OrderPatch) Empty() bool {
	return p.Status == nil && p.PaymentStatus == nil && p.PaymentMethod == nil &&
		p.DeliveryMethod == nil && p.PhoneNumber == nil && p.DeliveryAddress == nil
}

// Validate checks enum membership for every field present in the patch.
func (p *OrderPatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return ValidationError(ErrCodeIllegalTransition, "unknown order status: %s", *p.Status)
	}
	if p.PaymentStatus != nil && !p.PaymentStatus.Valid() {
		return ValidationError(ErrCodeIllegalTransition, "unknown payment status: %s", *p.PaymentStatus)
	}
	if p.PaymentMethod != nil && !p.PaymentMethod.Valid() {
		return ValidationError(ErrCodeIllegalTransition, "unknown payment method: %s", *p.PaymentMethod)
	}
	if p.DeliveryMethod != nil && !p.DeliveryMethod.Valid() {
		return ValidationError(ErrCodeIllegalTransition, "unknown delivery method: %s", *p.DeliveryMethod)
	}
	return nil
}

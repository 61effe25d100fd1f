package service

import (
	"context"
	"time"

	"autoparts/internal/auth"
	"autoparts/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService defines operations on a user's shopping cart.
type CartService interface {
	// GetCart returns the user's cart with items and running total, creating
	// an empty cart if the user has none.
	GetCart(ctx context.Context, userID string) (*model.CartResponse, error)

	// AddItem adds a product to the cart, snapshotting its current price.
	// A product already in the cart is rejected, not merged.
	AddItem(ctx context.Context, userID string, req *model.CartItemRequest) (*model.CartItem, error)

	// UpdateItem sets the quantity of an existing item. Quantity zero removes
	// the item and returns nil.
	UpdateItem(ctx context.Context, userID string, req *model.CartItemRequest) (*model.CartItem, error)

	// RemoveItem deletes a single item; reports whether a row was removed.
	RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (bool, error)

	// ClearCart deletes the user's cart. Clearing an absent cart is a no-op.
	ClearCart(ctx context.Context, userID string) error

	// CalculateTotal sums price_at_add * quantity over the cart's items.
	CalculateTotal(ctx context.Context, cartID uuid.UUID) (decimal.Decimal, error)
}

// CheckoutService converts a cart into an order.
type CheckoutService interface {
	// PlaceOrder snapshots the user's cart into a new order and clears the
	// cart, all within one transaction.
	PlaceOrder(ctx context.Context, user *model.User, req *model.CheckoutRequest) (*model.Order, error)
}

// OrderService defines operations for order management. Methods taking an
// actor enforce ownership and role rules; Admin* methods trust the caller
// (the API-key-authenticated bot channel).
type OrderService interface {
	// GetByID returns the order with items. Non-admin actors may only read
	// their own orders.
	GetByID(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Order, error)

	// ListMine returns the actor's orders, newest first.
	ListMine(ctx context.Context, userID string, skip, limit int) ([]model.Order, error)

	// Update applies a patch on behalf of a customer. A plain user may only
	// cancel their own order while it is still new.
	Update(ctx context.Context, actor *model.User, id uuid.UUID, patch *model.OrderPatch) (*model.Order, error)

	// AdminGet returns any order with items.
	AdminGet(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// AdminList returns all orders, newest first.
	AdminList(ctx context.Context, skip, limit int) ([]model.Order, error)

	// AdminListByStatus returns orders in the given status, newest first.
	AdminListByStatus(ctx context.Context, status model.OrderStatus, skip, limit int) ([]model.Order, error)

	// AdminListByUsername returns orders of the user with the given Telegram
	// username, newest first.
	AdminListByUsername(ctx context.Context, tgUsername string, skip, limit int) ([]model.Order, error)

	// AdminListByDateRange returns orders created within [start, end).
	AdminListByDateRange(ctx context.Context, start, end time.Time, skip, limit int) ([]model.Order, error)

	// AdminUpdate applies a patch with only the status machine enforced.
	AdminUpdate(ctx context.Context, id uuid.UUID, patch *model.OrderPatch) (*model.Order, error)

	// AdminDelete removes an order.
	AdminDelete(ctx context.Context, id uuid.UUID) error

	// AdminDeleteCompleted bulk-deletes completed orders, returning the count.
	AdminDeleteCompleted(ctx context.Context) (int64, error)
}

// ProductService defines operations for catalogue management.
type ProductService interface {
	// GetAll retrieves products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create adds a new product to the catalogue.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update replaces a product's mutable fields.
	Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product from the catalogue.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddImage appends an image URL to a product.
	AddImage(ctx context.Context, id uuid.UUID, url string) (*model.Product, error)

	// ListCategories returns all categories.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// CreateCategory adds a new category.
	CreateCategory(ctx context.Context, req *model.CategoryRequest) (*model.Category, error)

	// DeleteCategory removes a category.
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// UserService defines operations on shop customers.
type UserService interface {
	// GetOrCreateFromTelegram stores or refreshes the user behind a verified
	// Telegram login and returns the stored row.
	GetOrCreateFromTelegram(ctx context.Context, tgUser *auth.TelegramUser) (*model.User, error)

	// GetByID retrieves a user.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// UpdateProfile applies a partial update to the user's shipping profile.
	UpdateProfile(ctx context.Context, id string, patch *model.ProfilePatch) (*model.User, error)
}

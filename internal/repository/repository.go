package repository

import (
	"context"
	"time"

	"autoparts/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CartRepository defines the interface for cart data access operations.
// Methods taking a pgx.Tx participate in the caller's transaction; checkout
// uses them to read and clear the cart atomically with order creation.
type CartRepository interface {
	// GetOrCreate returns the user's cart, creating an empty one if absent.
	// Safe under concurrent calls for the same user: the unique constraint
	// on user_id guarantees a single cart row.
	GetOrCreate(ctx context.Context, userID string) (*model.Cart, error)

	// GetWithItems returns the user's cart and its items, or (nil, nil, nil)
	// when the user has no cart.
	GetWithItems(ctx context.Context, userID string) (*model.Cart, []model.CartItem, error)

	// GetWithItemsTx is GetWithItems inside the provided transaction.
	GetWithItemsTx(ctx context.Context, tx pgx.Tx, userID string) (*model.Cart, []model.CartItem, error)

	// InsertItem inserts a new cart item. Returns model.ErrProductInCart if
	// the (cart, product) pair already exists.
	InsertItem(ctx context.Context, item *model.CartItem) error

	// GetItem returns the cart item for the (cart, product) pair, or nil.
	GetItem(ctx context.Context, cartID, productID uuid.UUID) (*model.CartItem, error)

	// SetItemQuantity updates the quantity of an existing item and returns
	// the updated row, or nil when no such item exists.
	SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*model.CartItem, error)

	// DeleteItem removes a single item by id; reports whether a row was removed.
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error)

	// DeleteItemByProduct removes the item for the (cart, product) pair.
	DeleteItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (bool, error)

	// Delete removes the user's cart (items cascade). A missing cart is a
	// no-op; reports whether a row was removed.
	Delete(ctx context.Context, userID string) (bool, error)

	// DeleteTx is Delete inside the provided transaction.
	DeleteTx(ctx context.Context, tx pgx.Tx, userID string) (bool, error)

	// Total sums price_at_add * quantity over the cart's items. Returns zero
	// for an empty or missing cart.
	Total(ctx context.Context, cartID uuid.UUID) (decimal.Decimal, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateItems inserts multiple order items within the provided transaction.
	CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items, or nil if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string, skip, limit int) ([]model.Order, error)

	// ListByStatus returns orders in the given status, newest first.
	ListByStatus(ctx context.Context, status model.OrderStatus, skip, limit int) ([]model.Order, error)

	// ListByDateRange returns orders created within [start, end), newest first.
	ListByDateRange(ctx context.Context, start, end time.Time, skip, limit int) ([]model.Order, error)

	// ListAll returns all orders, newest first.
	ListAll(ctx context.Context, skip, limit int) ([]model.Order, error)

	// Update applies the non-nil patch fields and returns the updated order,
	// or nil when the order does not exist.
	Update(ctx context.Context, id uuid.UUID, patch *model.OrderPatch) (*model.Order, error)

	// Delete removes an order (items cascade); reports whether a row was removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// DeleteCompleted bulk-deletes every completed order and returns the count.
	DeleteCompleted(ctx context.Context) (int64, error)
}

// ProductRepository defines the interface for catalogue data access operations.
type ProductRepository interface {
	// GetAll retrieves products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product, or nil if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetByIDsTx retrieves multiple products by id inside the provided
	// transaction. Missing ids are simply absent from the result.
	GetByIDsTx(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update replaces the mutable fields of a product; reports whether a row
	// was updated.
	Update(ctx context.Context, product *model.Product) (bool, error)

	// Delete removes a product; reports whether a row was removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// CreateCategory inserts a new category.
	CreateCategory(ctx context.Context, category *model.Category) error

	// DeleteCategory removes a category; reports whether a row was removed.
	DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error)
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Upsert creates the user on first sight and refreshes Telegram profile
	// fields on subsequent logins, returning the stored row.
	Upsert(ctx context.Context, user *model.User) (*model.User, error)

	// GetByID retrieves a user, or nil if not found.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// GetByUsername retrieves a user by Telegram username, or nil if not found.
	GetByUsername(ctx context.Context, tgUsername string) (*model.User, error)

	// UpdateProfile applies the non-nil patch fields and returns the updated
	// user, or nil when the user does not exist.
	UpdateProfile(ctx context.Context, id string, patch *model.ProfilePatch) (*model.User, error)
}

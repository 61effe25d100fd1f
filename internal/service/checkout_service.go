package service

import (
	"context"
	"fmt"
	"time"

	"autoparts/internal/model"
	"autoparts/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// checkoutService implements CheckoutService. Placing an order reads the
// cart, snapshots it into order rows and deletes the cart in one database
// transaction, serialised per user by an advisory lock.
type checkoutService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// PlaceOrder converts the user's cart into an order.
//
// The whole operation runs in a single transaction: reading the cart,
// inserting the order and its line items, and deleting the cart commit or
// roll back together, so a failure at any point leaves no trace and a crash
// can never strand a committed order next to a stale cart. Concurrent
// checkouts by the same user queue on the advisory lock; the loser finds the
// cart already gone and fails with "cart is empty".
func (s *checkoutService) PlaceOrder(ctx context.Context, user *model.User, req *model.CheckoutRequest) (*model.Order, error) {
	if err := s.validateRequest(user, req); err != nil {
		return nil, err
	}

	phone := req.PhoneNumber
	if phone == "" {
		phone = user.Phone
	}
	if phone == "" {
		return nil, model.ValidationError(model.ErrCodeMissingPhone, "a phone number is required to place an order")
	}

	address := req.DeliveryAddress
	if address == "" {
		address = user.DeliveryAddress
	}
	if address == "" && req.DeliveryMethod.RequiresAddress() {
		return nil, model.ValidationError(model.ErrCodeMissingAddress,
			"a delivery address is required for %s delivery", req.DeliveryMethod)
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Roll back on any error path; Rollback after Commit is a harmless no-op.
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback checkout transaction")
			}
		}
	}()

	// Serialise checkouts per user. The lock is released on commit/rollback.
	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, user.ID); err != nil {
		return nil, fmt.Errorf("failed to acquire checkout lock: %w", err)
	}

	cart, items, err := s.cartRepo.GetWithItemsTx(ctx, tx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil || len(items) == 0 {
		err = model.ErrCartEmpty
		return nil, err
	}

	// Pre-flight: every cart item must still resolve to a product. Failing
	// the whole checkout beats silently producing an order with fewer items
	// than the cart promised.
	productIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDsTx(ctx, tx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart products: %w", err)
	}

	productsByID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}

	for _, item := range items {
		if _, ok := productsByID[item.ProductID]; !ok {
			s.logger.Warn().
				Str("user_id", user.ID).
				Str("product_id", item.ProductID.String()).
				Msg("checkout rejected, cart references a missing product")
			err = model.ValidationError(model.ErrCodeProductNotFound,
				"product %s in your cart is no longer available, remove it and try again", item.ProductID)
			return nil, err
		}
	}

	// The order total reuses the price_at_add snapshots, so the amount the
	// customer saw in the cart is the amount the order freezes.
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          user.ID,
		TgUsername:      user.TgUsername,
		TotalAmount:     total.Round(2),
		Status:          model.OrderStatusNew,
		PaymentStatus:   model.PaymentStatusNotPaid,
		PaymentMethod:   req.PaymentMethod,
		DeliveryMethod:  req.DeliveryMethod,
		PhoneNumber:     phone,
		DeliveryAddress: address,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	orderItems := make([]model.OrderItem, len(items))
	for i, item := range items {
		product := productsByID[item.ProductID]
		orderItems[i] = model.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       item.PriceAtAdd,
		}
	}

	if err = s.orderRepo.CreateItems(ctx, tx, orderItems); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if _, err = s.cartRepo.DeleteTx(ctx, tx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	order.Items = orderItems

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", user.ID).
		Int("item_count", len(orderItems)).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("order placed")

	return order, nil
}

func (s *checkoutService) validateRequest(user *model.User, req *model.CheckoutRequest) error {
	if user == nil {
		return fmt.Errorf("checkout user is nil")
	}
	if req == nil {
		return fmt.Errorf("checkout request is nil")
	}
	if !req.PaymentMethod.Valid() {
		return model.ValidationError(model.ErrCodeInvalidJSON, "unknown payment method: %s", req.PaymentMethod)
	}
	if !req.DeliveryMethod.Valid() {
		return model.ValidationError(model.ErrCodeInvalidJSON, "unknown delivery method: %s", req.DeliveryMethod)
	}
	return nil
}

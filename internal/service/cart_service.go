package service

import (
	"context"
	"fmt"

	"autoparts/internal/model"
	"autoparts/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart returns the user's cart with items and running total, creating an
// empty cart if the user has none.
func (s *cartService) GetCart(ctx context.Context, userID string) (*model.CartResponse, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	_, items, err := s.cartRepo.GetWithItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}

	return &model.CartResponse{
		Cart:  *cart,
		Items: items,
		Total: total,
	}, nil
}

// AddItem adds a product to the cart, snapshotting its current price into
// price_at_add. A second add of the same product is rejected with a conflict
// rather than merged.
func (s *cartService) AddItem(ctx context.Context, userID string, req *model.CartItemRequest) (*model.CartItem, error) {
	if req.Quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		s.logger.Debug().
			Str("product_id", req.ProductID.String()).
			Msg("add to cart rejected, product not found")
		return nil, model.ErrProductNotFound
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	item := &model.CartItem{
		ID:         uuid.New(),
		CartID:     cart.ID,
		ProductID:  product.ID,
		Quantity:   req.Quantity,
		PriceAtAdd: product.Price,
	}

	if err := s.cartRepo.InsertItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("product_id", product.ID.String()).
		Int("quantity", req.Quantity).
		Msg("item added to cart")

	return item, nil
}

// UpdateItem sets the quantity of an existing item. Quantity zero removes
// the item and returns nil; a zero-quantity row is never stored.
func (s *cartService) UpdateItem(ctx context.Context, userID string, req *model.CartItemRequest) (*model.CartItem, error) {
	if req.Quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if req.Quantity == 0 {
		removed, err := s.cartRepo.DeleteItemByProduct(ctx, cart.ID, req.ProductID)
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, model.ErrCartItemNotFound
		}
		s.logger.Info().
			Str("user_id", userID).
			Str("product_id", req.ProductID.String()).
			Msg("item removed from cart via zero quantity")
		return nil, nil
	}

	item, err := s.cartRepo.SetItemQuantity(ctx, cart.ID, req.ProductID, req.Quantity)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, model.ErrCartItemNotFound
	}

	return item, nil
}

// RemoveItem deletes a single item by id.
func (s *cartService) RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (bool, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to get cart: %w", err)
	}

	return s.cartRepo.DeleteItem(ctx, cart.ID, itemID)
}

// ClearCart deletes the user's cart. The cart row is disposable: it is
// recreated lazily on next access, and clearing an absent cart is a no-op.
func (s *cartService) ClearCart(ctx context.Context, userID string) error {
	removed, err := s.cartRepo.Delete(ctx, userID)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("user_id", userID).
		Bool("removed", removed).
		Msg("cart cleared")

	return nil
}

// CalculateTotal sums price_at_add * quantity over the cart's items. The
// total reflects prices at the time items were added.
func (s *cartService) CalculateTotal(ctx context.Context, cartID uuid.UUID) (decimal.Decimal, error) {
	return s.cartRepo.Total(ctx, cartID)
}

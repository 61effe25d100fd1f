package service

import (
	"context"
	"fmt"
	"time"

	"autoparts/internal/model"
	"autoparts/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// GetByID returns the order with items. Non-admin actors may only read their
// own orders.
func (s *orderService) GetByID(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if order.UserID != actor.ID && !actor.IsAdmin() {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("actor_id", actor.ID).
			Msg("order access denied")
		return nil, model.AuthorizationError(model.ErrCodeForbidden, "no access to this order")
	}

	return order, nil
}

// ListMine returns the actor's orders, newest first.
func (s *orderService) ListMine(ctx context.Context, userID string, skip, limit int) ([]model.Order, error) {
	skip, limit = normalisePage(skip, limit)
	return s.orderRepo.ListByUser(ctx, userID, skip, limit)
}

// Update applies a patch on behalf of a customer. A plain user may only
// cancel their own order while it is still new; everything else requires the
// admin channel.
func (s *orderService) Update(ctx context.Context, actor *model.User, id uuid.UUID, patch *model.OrderPatch) (*model.Order, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !actor.IsAdmin() {
		if order.UserID != actor.ID {
			return nil, model.AuthorizationError(model.ErrCodeForbidden, "no access to this order")
		}
		if patch.Status == nil || *patch.Status != model.OrderStatusCancelled ||
			patch.PaymentStatus != nil || patch.PaymentMethod != nil ||
			patch.DeliveryMethod != nil || patch.PhoneNumber != nil || patch.DeliveryAddress != nil {
			return nil, model.AuthorizationError(model.ErrCodeForbidden, "you may only cancel your order")
		}
		if order.Status != model.OrderStatusNew {
			return nil, model.ValidationError(model.ErrCodeIllegalTransition, "only a new order can be cancelled")
		}
	} else if err := checkTransition(order, patch); err != nil {
		return nil, err
	}

	return s.applyPatch(ctx, id, patch)
}

// AdminGet returns any order with items.
func (s *orderService) AdminGet(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// AdminList returns all orders, newest first.
func (s *orderService) AdminList(ctx context.Context, skip, limit int) ([]model.Order, error) {
	skip, limit = normalisePage(skip, limit)
	return s.orderRepo.ListAll(ctx, skip, limit)
}

// AdminListByStatus returns orders in the given status, newest first.
func (s *orderService) AdminListByStatus(ctx context.Context, status model.OrderStatus, skip, limit int) ([]model.Order, error) {
	if !status.Valid() {
		return nil, model.ValidationError(model.ErrCodeIllegalTransition, "unknown order status: %s", status)
	}
	skip, limit = normalisePage(skip, limit)
	return s.orderRepo.ListByStatus(ctx, status, skip, limit)
}

// AdminListByUsername returns orders of the user with the given Telegram
// username, newest first.
func (s *orderService) AdminListByUsername(ctx context.Context, tgUsername string, skip, limit int) ([]model.Order, error) {
	user, err := s.userRepo.GetByUsername(ctx, tgUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	skip, limit = normalisePage(skip, limit)
	return s.orderRepo.ListByUser(ctx, user.ID, skip, limit)
}

// AdminListByDateRange returns orders created within [start, end).
func (s *orderService) AdminListByDateRange(ctx context.Context, start, end time.Time, skip, limit int) ([]model.Order, error) {
	if end.Before(start) {
		return nil, model.ValidationError(model.ErrCodeInvalidJSON, "end date precedes start date")
	}
	skip, limit = normalisePage(skip, limit)
	return s.orderRepo.ListByDateRange(ctx, start, end, skip, limit)
}

// AdminUpdate applies a patch with only the status machine enforced.
func (s *orderService) AdminUpdate(ctx context.Context, id uuid.UUID, patch *model.OrderPatch) (*model.Order, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if err := checkTransition(order, patch); err != nil {
		return nil, err
	}

	return s.applyPatch(ctx, id, patch)
}

// AdminDelete removes an order.
func (s *orderService) AdminDelete(ctx context.Context, id uuid.UUID) error {
	removed, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !removed {
		return model.ErrOrderNotFound
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order deleted")
	return nil
}

// AdminDeleteCompleted bulk-deletes completed orders, returning the count.
func (s *orderService) AdminDeleteCompleted(ctx context.Context) (int64, error) {
	return s.orderRepo.DeleteCompleted(ctx)
}

func (s *orderService) applyPatch(ctx context.Context, id uuid.UUID, patch *model.OrderPatch) (*model.Order, error) {
	updated, err := s.orderRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if updated == nil {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("status", string(updated.Status)).
		Msg("order updated")

	return updated, nil
}

// checkTransition enforces the order status machine for a patch against the
// order's current status. Setting the current status again is a no-op.
func checkTransition(order *model.Order, patch *model.OrderPatch) error {
	if patch.Status == nil || *patch.Status == order.Status {
		return nil
	}
	if !order.Status.CanTransitionTo(*patch.Status) {
		return model.ConflictError(model.ErrCodeIllegalTransition,
			"cannot move order from %s to %s", order.Status, *patch.Status)
	}
	return nil
}

// normalisePage clamps skip/limit to sane bounds.
func normalisePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return skip, limit
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"autoparts/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainUser(id string) *model.User {
	return &model.User{ID: id, FirstName: "Ivan", Role: model.RoleUser}
}

func adminUser() *model.User {
	return &model.User{ID: "999", FirstName: "Admin", Role: model.RoleAdmin}
}

func statusPtr(s model.OrderStatus) *model.OrderStatus { return &s }

func TestOrderService_GetByID_Owner(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	actor := plainUser("123")

	order := &model.Order{ID: uuid.New(), UserID: actor.ID, Status: model.OrderStatusNew}

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)

	got, err := service.GetByID(ctx, actor, order.ID)

	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestOrderService_GetByID_ForeignOrder(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	actor := plainUser("123")

	order := &model.Order{ID: uuid.New(), UserID: "456", Status: model.OrderStatusNew}

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)

	got, err := service.GetByID(ctx, actor, order.ID)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, model.KindAuthorization, model.ErrorKind(err))
}

func TestOrderService_GetByID_AdminSeesAll(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	order := &model.Order{ID: uuid.New(), UserID: "456", Status: model.OrderStatusNew}

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)

	got, err := service.GetByID(ctx, adminUser(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestOrderService_GetByID_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	id := uuid.New()

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	mockOrderRepo.On("GetByID", ctx, id).Return(nil, nil)

	got, err := service.GetByID(ctx, plainUser("123"), id)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, model.ErrOrderNotFound))
}

func TestOrderService_Update_OwnerCancelsNewOrder(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	actor := plainUser("123")

	order := &model.Order{ID: uuid.New(), UserID: actor.ID, Status: model.OrderStatusNew}
	patch := &model.OrderPatch{Status: statusPtr(model.OrderStatusCancelled)}

	cancelled := *order
	cancelled.Status = model.OrderStatusCancelled

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	mockOrderRepo.On("Update", ctx, order.ID, patch).Return(&cancelled, nil)

	got, err := service.Update(ctx, actor, order.ID, patch)

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, got.Status)
}

func TestOrderService_Update_OwnerCannotCancelProcessing(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	actor := plainUser("123")

	order := &model.Order{ID: uuid.New(), UserID: actor.ID, Status: model.OrderStatusProcessing}
	patch := &model.OrderPatch{Status: statusPtr(model.OrderStatusCancelled)}

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)

	got, err := service.Update(ctx, actor, order.ID, patch)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, model.KindValidation, model.ErrorKind(err))
	mockOrderRepo.AssertNotCalled(t, "Update")
}

func TestOrderService_Update_OwnerCannotChangeStatusForward(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	actor := plainUser("123")

	order := &model.Order{ID: uuid.New(), UserID: actor.ID, Status: model.OrderStatusNew}
	patch := &model.OrderPatch{Status: statusPtr(model.OrderStatusCompleted)}

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)

	got, err := service.Update(ctx, actor, order.ID, patch)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, model.KindAuthorization, model.ErrorKind(err))
	mockOrderRepo.AssertNotCalled(t, "Update")
}

func TestOrderService_Update_ForeignOrderDenied(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	actor := plainUser("123")

	order := &model.Order{ID: uuid.New(), UserID: "456", Status: model.OrderStatusNew}
	patch := &model.OrderPatch{Status: statusPtr(model.OrderStatusCancelled)}

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)

	got, err := service.Update(ctx, actor, order.ID, patch)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, model.KindAuthorization, model.ErrorKind(err))
}

func TestOrderService_AdminUpdate_ValidTransition(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	order := &model.Order{ID: uuid.New(), UserID: "456", Status: model.OrderStatusNew}
	patch := &model.OrderPatch{Status: statusPtr(model.OrderStatusProcessing)}

	updated := *order
	updated.Status = model.OrderStatusProcessing

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	mockOrderRepo.On("Update", ctx, order.ID, patch).Return(&updated, nil)

	got, err := service.AdminUpdate(ctx, order.ID, patch)

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, got.Status)
}

func TestOrderService_AdminUpdate_IllegalTransition(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name string
		from model.OrderStatus
		to   model.OrderStatus
	}{
		{"skip ahead", model.OrderStatusNew, model.OrderStatusReady},
		{"backwards", model.OrderStatusReady, model.OrderStatusProcessing},
		{"out of completed", model.OrderStatusCompleted, model.OrderStatusProcessing},
		{"out of cancelled", model.OrderStatusCancelled, model.OrderStatusNew},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &model.Order{ID: uuid.New(), UserID: "456", Status: tt.from}
			patch := &model.OrderPatch{Status: statusPtr(tt.to)}

			mockOrderRepo := new(MockOrderRepository)
			mockUserRepo := new(MockUserRepository)

			service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

			mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)

			got, err := service.AdminUpdate(ctx, order.ID, patch)

			require.Error(t, err)
			assert.Nil(t, got)
			assert.Equal(t, model.KindConflict, model.ErrorKind(err))
			mockOrderRepo.AssertNotCalled(t, "Update")
		})
	}
}

func TestOrderService_AdminUpdate_SameStatusNoOp(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	order := &model.Order{ID: uuid.New(), UserID: "456", Status: model.OrderStatusProcessing}
	patch := &model.OrderPatch{Status: statusPtr(model.OrderStatusProcessing)}

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	mockOrderRepo.On("Update", ctx, order.ID, patch).Return(order, nil)

	got, err := service.AdminUpdate(ctx, order.ID, patch)

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, got.Status)
}

func TestOrderService_AdminListByUsername(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	user := &model.User{ID: "456", TgUsername: "petr_ivanov", Role: model.RoleUser}
	orders := []model.Order{
		{ID: uuid.New(), UserID: user.ID, TotalAmount: decimal.NewFromFloat(100), Status: model.OrderStatusNew},
	}

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	mockUserRepo.On("GetByUsername", ctx, "petr_ivanov").Return(user, nil)
	mockOrderRepo.On("ListByUser", ctx, user.ID, 0, 20).Return(orders, nil)

	got, err := service.AdminListByUsername(ctx, "petr_ivanov", 0, 20)

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOrderService_AdminListByUsername_UnknownUser(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	mockUserRepo.On("GetByUsername", ctx, "nobody").Return(nil, nil)

	got, err := service.AdminListByUsername(ctx, "nobody", 0, 20)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, model.ErrUserNotFound))
	mockOrderRepo.AssertNotCalled(t, "ListByUser")
}

func TestOrderService_AdminListByDateRange_InvertedRange(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	start := time.Now()
	end := start.Add(-24 * time.Hour)

	got, err := service.AdminListByDateRange(ctx, start, end, 0, 20)

	require.Error(t, err)
	assert.Nil(t, got)
	mockOrderRepo.AssertNotCalled(t, "ListByDateRange")
}

func TestOrderService_AdminDelete_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	id := uuid.New()

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	mockOrderRepo.On("Delete", ctx, id).Return(false, nil)

	err := service.AdminDelete(ctx, id)

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrOrderNotFound))
}

func TestOrderService_ListMine_ClampsPagination(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	mockUserRepo := new(MockUserRepository)

	service := NewOrderService(mockOrderRepo, mockUserRepo, logger)

	mockOrderRepo.On("ListByUser", ctx, "123", 0, 20).Return([]model.Order{}, nil)

	_, err := service.ListMine(ctx, "123", -5, 5000)

	require.NoError(t, err)
	mockOrderRepo.AssertExpectations(t)
}

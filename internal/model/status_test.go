package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusNew, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusReady, true},
		{OrderStatusReady, OrderStatusCompleted, true},
		{OrderStatusNew, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusReady, OrderStatusCancelled, true},
		{OrderStatusNew, OrderStatusReady, false},
		{OrderStatusNew, OrderStatusCompleted, false},
		{OrderStatusProcessing, OrderStatusNew, false},
		{OrderStatusReady, OrderStatusProcessing, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCompleted, OrderStatusNew, false},
		{OrderStatusCancelled, OrderStatusNew, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusCompleted.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusNew.Terminal())
	assert.False(t, OrderStatusProcessing.Terminal())
	assert.False(t, OrderStatusReady.Terminal())
}

func TestDeliveryMethodRequiresAddress(t *testing.T) {
	assert.False(t, DeliveryPickup.RequiresAddress())
	for _, m := range DeliveryMethods {
		if m == DeliveryPickup {
			continue
		}
		assert.True(t, m.RequiresAddress(), "%s", m)
	}
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, OrderStatusNew.Valid())
	assert.False(t, OrderStatus("shipped").Valid())
	assert.True(t, PaymentMethodCash.Valid())
	assert.False(t, PaymentMethod("barter").Valid())
	assert.True(t, DeliverySDEK.Valid())
	assert.False(t, DeliveryMethod("drone").Valid())
}

package model

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every order status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusProcessing,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusProcessing, OrderStatusReady,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed out of s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo reports whether the status machine permits moving from s
// to next. Forward moves follow new -> processing -> ready -> completed;
// any non-terminal status may be cancelled.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	switch s {
	case OrderStatusNew:
		return next == OrderStatusProcessing
	case OrderStatusProcessing:
		return next == OrderStatusReady
	case OrderStatusReady:
		return next == OrderStatusCompleted
	}
	return false
}

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentStatusNotPaid    PaymentStatus = "not_paid"
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusOnDelivery PaymentStatus = "payment_on_delivery"
)

// PaymentStatuses lists every payment status.
var PaymentStatuses = []PaymentStatus{
	PaymentStatusNotPaid,
	PaymentStatusPaid,
	PaymentStatusOnDelivery,
}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusNotPaid, PaymentStatusPaid, PaymentStatusOnDelivery:
		return true
	}
	return false
}

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodOnline PaymentMethod = "online"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodOnline:
		return true
	}
	return false
}

// DeliveryMethod is the carrier used to deliver an order.
type DeliveryMethod string

const (
	DeliverySDEK          DeliveryMethod = "sdek"
	DeliveryPEK           DeliveryMethod = "pek"
	DeliveryBaikal        DeliveryMethod = "baikal"
	DeliveryKIT           DeliveryMethod = "kit"
	DeliveryBusinessLines DeliveryMethod = "business_lines"
	DeliveryPickup        DeliveryMethod = "pickup"
	DeliveryPost          DeliveryMethod = "post"
)

// DeliveryMethods lists every supported carrier.
var DeliveryMethods = []DeliveryMethod{
	DeliverySDEK,
	DeliveryPEK,
	DeliveryBaikal,
	DeliveryKIT,
	DeliveryBusinessLines,
	DeliveryPickup,
	DeliveryPost,
}

// Valid reports whether m is a known delivery method.
func (m DeliveryMethod) Valid() bool {
	switch m {
	case DeliverySDEK, DeliveryPEK, DeliveryBaikal, DeliveryKIT,
		DeliveryBusinessLines, DeliveryPickup, DeliveryPost:
		return true
	}
	return false
}

// RequiresAddress reports whether the carrier needs a delivery address.
// Pickup orders are collected in person.
func (m DeliveryMethod) RequiresAddress() bool {
	return m != DeliveryPickup
}

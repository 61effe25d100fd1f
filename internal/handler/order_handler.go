package handler

import (
	"encoding/json"
	"net/http"

	"autoparts/internal/middleware"
	"autoparts/internal/model"
	"autoparts/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles customer-facing order HTTP requests.
type OrderHandler struct {
	orders   service.OrderService
	checkout service.CheckoutService
	users    service.UserService
	logger   zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders service.OrderService, checkout service.CheckoutService, users service.UserService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		checkout: checkout,
		users:    users,
		logger:   logger.With().Str("handler", "order").Logger(),
	}
}

// actor resolves the authenticated caller to a stored user.
func (h *OrderHandler) actor(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated", h.logger)
		return nil, false
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return nil, false
	}

	return user, true
}

// Checkout handles POST /api/orders requests. It assembles an order from the
// caller's cart and clears the cart.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), user, &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /api/orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated", h.logger)
		return
	}

	skip, limit := pagination(r)
	orders, err := h.orders.ListMine(r.Context(), userID, skip, limit)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Get handles GET /api/orders/{id} requests.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return
	}

	order, err := h.orders.GetByID(r.Context(), user, id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Update handles PATCH /api/orders/{id} requests. Plain users may only
// cancel their own new orders.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return
	}

	var patch model.OrderPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.orders.Update(r.Context(), user, id, &patch)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

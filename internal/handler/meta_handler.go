package handler

import (
	"net/http"

	"autoparts/internal/model"

	"github.com/rs/zerolog"
)

// MetaHandler serves the reference enumerations clients render pickers from.
type MetaHandler struct {
	logger zerolog.Logger
}

// NewMetaHandler creates a new meta handler.
func NewMetaHandler(logger zerolog.Logger) *MetaHandler {
	return &MetaHandler{logger: logger.With().Str("handler", "meta").Logger()}
}

// OrderStatuses handles GET /api/orders/order-statuses requests.
func (h *MetaHandler) OrderStatuses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.OrderStatuses)
}

// PaymentStatuses handles GET /api/orders/payment-statuses requests.
func (h *MetaHandler) PaymentStatuses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.PaymentStatuses)
}

// DeliveryMethods handles GET /api/orders/delivery-methods requests.
func (h *MetaHandler) DeliveryMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.DeliveryMethods)
}

package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"autoparts/internal/model"
	"autoparts/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminOrderHandler handles order management requests from the bot channel.
// Callers are authenticated with the shared API key, so no per-order
// ownership checks apply here.
type AdminOrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewAdminOrderHandler creates a new admin order handler.
func NewAdminOrderHandler(service service.OrderService, logger zerolog.Logger) *AdminOrderHandler {
	return &AdminOrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "admin-order").Logger(),
	}
}

// List handles GET /api/admin/orders requests. Optional filters: status,
// username, date_from/date_to (RFC 3339 or YYYY-MM-DD).
func (h *AdminOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	q := r.URL.Query()

	var (
		orders []model.Order
		err    error
	)
	switch {
	case q.Get("status") != "":
		status := model.OrderStatus(q.Get("status"))
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "unknown order status", h.logger)
			return
		}
		orders, err = h.service.AdminListByStatus(r.Context(), status, skip, limit)
	case q.Get("username") != "":
		orders, err = h.service.AdminListByUsername(r.Context(), q.Get("username"), skip, limit)
	case q.Get("date_from") != "" || q.Get("date_to") != "":
		var start, end time.Time
		start, end, err = parseDateRange(q.Get("date_from"), q.Get("date_to"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), h.logger)
			return
		}
		orders, err = h.service.AdminListByDateRange(r.Context(), start, end, skip, limit)
	default:
		orders, err = h.service.AdminList(r.Context(), skip, limit)
	}

	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Get handles GET /api/admin/orders/{id} requests.
func (h *AdminOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return
	}

	order, err := h.service.AdminGet(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Update handles PATCH /api/admin/orders/{id} requests.
func (h *AdminOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	order, err := h.service.AdminUpdate(r.Context(), id, &patch)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.logger.Info().Str("order_id", id.String()).Msg("order updated by admin")
	writeJSON(w, http.StatusOK, order)
}

// Delete handles DELETE /api/admin/orders/{id} requests.
func (h *AdminOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return
	}

	if err := h.service.AdminDelete(r.Context(), id); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCompleted handles DELETE /api/admin/orders/completed requests,
// bulk-removing every completed order.
func (h *AdminOrderHandler) DeleteCompleted(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.AdminDeleteCompleted(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.logger.Info().Int64("deleted", deleted).Msg("completed orders purged")
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// parseDateRange interprets the date filter bounds. Missing bounds default
// to the beginning of time and now respectively; a date-only upper bound is
// extended to the end of that day.
func parseDateRange(from, to string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Now().UTC()

	if from != "" {
		t, err := parseDate(from)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = t
	}
	if to != "" {
		t, err := parseDate(to)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if len(to) == len(time.DateOnly) {
			t = t.Add(24 * time.Hour)
		}
		end = t
	}

	return start, end, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

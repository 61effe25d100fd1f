package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"autoparts/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful left to do.
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Warn().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeDomainError maps a service error to an HTTP response. Typed domain
// errors keep their message; anything else is logged and hidden behind a
// generic 500.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	if derr, ok := model.AsDomainError(err); ok {
		status := http.StatusInternalServerError
		switch derr.Kind {
		case model.KindNotFound:
			status = http.StatusNotFound
		case model.KindValidation:
			status = http.StatusBadRequest
		case model.KindConflict:
			status = http.StatusConflict
		case model.KindAuthorization:
			status = http.StatusForbidden
		}

		logger.Debug().
			Str("kind", derr.Kind).
			Str("code", derr.Code).
			Int("status", status).
			Msg(derr.Message)

		writeJSON(w, status, model.ErrorResponse{Error: derr.Code, Message: derr.Message})
		return
	}

	logger.Error().Err(err).Msg("unhandled service error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   model.ErrCodeInternalError,
		Message: "internal server error",
	})
}

// pagination reads skip/limit query parameters with defaults.
func pagination(r *http.Request) (skip, limit int) {
	skip, limit = 0, 20
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	return skip, limit
}

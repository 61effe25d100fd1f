package handler

import (
	"encoding/json"
	"net/http"

	"autoparts/internal/auth"
	"autoparts/internal/middleware"
	"autoparts/internal/model"
	"autoparts/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler handles Telegram login and profile requests.
type AuthHandler struct {
	users    service.UserService
	tokens   *auth.TokenManager
	botToken string
	logger   zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users service.UserService, tokens *auth.TokenManager, botToken string, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		botToken: botToken,
		logger:   logger.With().Str("handler", "auth").Logger(),
	}
}

type telegramLoginRequest struct {
	InitData string `json:"init_data"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
}

// Login handles POST /api/auth/telegram requests. It verifies the Telegram
// init data signature, upserts the user and issues a JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req telegramLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	data, err := auth.VerifyInitData(req.InitData, h.botToken)
	if err != nil {
		h.logger.Warn().Err(err).Msg("telegram auth rejected")
		writeError(w, http.StatusUnauthorized, "invalid telegram credentials", h.logger)
		return
	}

	user, err := h.users.GetOrCreateFromTelegram(r.Context(), &data.User)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to sign token")
		writeError(w, http.StatusInternalServerError, "failed to issue token", h.logger)
		return
	}

	h.logger.Info().Str("user_id", user.ID).Msg("user logged in")

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// Me handles GET /api/auth/me requests.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated", h.logger)
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateMe handles PATCH /api/auth/me requests, updating the caller's
// shipping profile.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated", h.logger)
		return
	}

	var patch model.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, &patch)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

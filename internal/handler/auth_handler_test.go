package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"autoparts/internal/auth"
	"autoparts/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testBotToken = "1234567890:TEST_TOKEN"

func telegramInitData(t *testing.T) string {
	t.Helper()
	fields := url.Values{
		"auth_date": {strconv.FormatInt(time.Now().Unix(), 10)},
		"user":      {`{"id":123456,"first_name":"Ivan","username":"ivan_petrov"}`},
	}
	fields.Set("hash", auth.SignInitData(fields, testBotToken))
	return fields.Encode()
}

func TestAuthHandler_Login(t *testing.T) {
	logger := zerolog.Nop()

	user := &model.User{ID: "123456", FirstName: "Ivan", TgUsername: "ivan_petrov", Role: model.RoleUser}

	mockUsers := new(MockUserService)
	mockUsers.On("GetOrCreateFromTelegram", mock.Anything, mock.AnythingOfType("*auth.TelegramUser")).
		Return(user, nil)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	h := NewAuthHandler(mockUsers, tokens, testBotToken, logger)

	body, err := json.Marshal(map[string]string{"init_data": telegramInitData(t)})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/telegram", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp tokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)

	claims, err := tokens.Parse(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "123456", claims.Subject)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestAuthHandler_Login_BadSignature(t *testing.T) {
	logger := zerolog.Nop()

	mockUsers := new(MockUserService)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	h := NewAuthHandler(mockUsers, tokens, "other:token", logger)

	body, err := json.Marshal(map[string]string{"init_data": telegramInitData(t)})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/telegram", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockUsers.AssertNotCalled(t, "GetOrCreateFromTelegram")
}

func TestAuthHandler_Me(t *testing.T) {
	logger := zerolog.Nop()

	user := &model.User{ID: "123456", FirstName: "Ivan", Role: model.RoleUser}

	mockUsers := new(MockUserService)
	mockUsers.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	h := NewAuthHandler(mockUsers, tokens, testBotToken, logger)

	r := authedRequest(http.MethodGet, "/api/auth/me", nil, user.ID)
	w := httptest.NewRecorder()

	h.Me(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got model.User
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, user.ID, got.ID)
}

func TestAuthHandler_UpdateMe(t *testing.T) {
	logger := zerolog.Nop()

	phone := "+79991234567"
	updated := &model.User{ID: "123456", FirstName: "Ivan", Phone: phone, Role: model.RoleUser}

	mockUsers := new(MockUserService)
	mockUsers.On("UpdateProfile", mock.Anything, "123456", mock.AnythingOfType("*model.ProfilePatch")).
		Return(updated, nil)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	h := NewAuthHandler(mockUsers, tokens, testBotToken, logger)

	body, _ := json.Marshal(model.ProfilePatch{Phone: &phone})
	r := authedRequest(http.MethodPatch, "/api/auth/me", body, "123456")
	w := httptest.NewRecorder()

	h.UpdateMe(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got model.User
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, phone, got.Phone)
}

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MaxAuthAge is how long Telegram authorization data stays acceptable.
const MaxAuthAge = 48 * time.Hour

// TelegramUser is the user payload embedded in Telegram authorization data.
type TelegramUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

// AuthData is verified Telegram authorization data.
type AuthData struct {
	User     TelegramUser
	AuthDate time.Time
}

// VerifyInitData parses and verifies a Telegram authorization payload (the
// URL-encoded init data string). It checks the HMAC signature against the
// bot token and rejects payloads older than MaxAuthAge.
func VerifyInitData(initData, botToken string) (*AuthData, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse auth data: %w", err)
	}

	providedHash := values.Get("hash")
	if providedHash == "" {
		return nil, fmt.Errorf("auth data has no hash")
	}

	// Data-check string: every field except hash, sorted by key, k=v lines.
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}
	dataCheckString := strings.Join(lines, "\n")

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(dataCheckString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(providedHash)) {
		return nil, fmt.Errorf("auth data signature mismatch")
	}

	authDateUnix, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid auth_date: %w", err)
	}
	authDate := time.Unix(authDateUnix, 0)

	if time.Since(authDate) > MaxAuthAge {
		return nil, fmt.Errorf("auth data expired")
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil {
		return nil, fmt.Errorf("failed to parse user payload: %w", err)
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("auth data has no user id")
	}

	return &AuthData{User: user, AuthDate: authDate}, nil
}

// SignInitData computes the signature for the given fields the way Telegram
// does. Used by tests to construct valid payloads.
func SignInitData(fields url.Values, botToken string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields.Get(k))
	}

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

package model

import "time"

// UserRole distinguishes shop customers from admins managing the catalogue.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is a shop customer identified by their Telegram user id. Profile
// fields (phone, delivery address) are the source of truth for shipping
// contact info at checkout.
type User struct {
	ID              string    `json:"id" db:"id"`
	FirstName       string    `json:"firstName" db:"first_name"`
	TgUsername      string    `json:"tgUsername" db:"tg_username"`
	Role            UserRole  `json:"role" db:"role"`
	Phone           string    `json:"phone,omitempty" db:"phone"`
	DeliveryAddress string    `json:"deliveryAddress,omitempty" db:"delivery_address"`
	LanguageCode    string    `json:"languageCode,omitempty" db:"language_code"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfilePatch is a partial update to a user's shipping profile.
type ProfilePatch struct {
	Phone           *string `json:"phone,omitempty"`
	DeliveryAddress *string `json:"deliveryAddress,omitempty"`
}

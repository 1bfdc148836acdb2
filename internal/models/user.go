package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User представляет пользователя в системе
type User struct {
	ID              uuid.UUID       `json:"id"`
	Email           string          `json:"email"`
	Username        string          `json:"username"`
	FullName        string          `json:"full_name,omitempty"`
	AvatarURL       string          `json:"avatar_url,omitempty"`
	Location        string          `json:"location,omitempty"`
	IsSeller        bool            `json:"is_seller"`
	StripeAccountID string          `json:"-"`
	Preferences     json.RawMessage `json:"preferences,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PublicProfile представляет минимальную информацию о пользователе для API
type PublicProfile struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Location  string    `json:"location,omitempty"`
	IsSeller  bool      `json:"is_seller"`
}

// Public возвращает публичную часть профиля пользователя
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		Location:  u.Location,
		IsSeller:  u.IsSeller,
	}
}

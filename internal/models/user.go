package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             uuid.UUID `json:"id"`
	Email          *string   `json:"email,omitempty"`
	Name           *string   `json:"name,omitempty"`
	AvatarURL      *string   `json:"avatarUrl,omitempty"`
	Provider       string    `json:"provider"`
	ProviderUserID string    `json:"-"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

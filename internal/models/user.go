// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered player identity.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DisplayName returns the name shown in turn descriptions and views.
func (u User) DisplayName() string {
	if u.Username == "" {
		return u.ID.String()
	}
	return u.Username
}

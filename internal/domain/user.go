package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated account. PasswordHash is a bcrypt hash and is
// never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user profile
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set" db:"password_set"`
	AuthProvider string    `json:"auth_provider" db:"auth_provider"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Auth providers stored in users.auth_provider.
const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

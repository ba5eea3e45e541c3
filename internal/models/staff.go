package models

import (
	"time"

	"github.com/google/uuid"
)

// Staff represents a staff account allowed to operate checkout.
type Staff struct {
	// ID is the unique identifier for the staff member (UUID format).
	ID string

	// Email is used for login (unique).
	Email string

	// DisplayName is shown on receipts and in logs.
	DisplayName string

	// PasswordHash is the bcrypt hash of the staff password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// NewStaff creates a staff account with a fresh ID and timestamps.
func NewStaff(email, displayName, passwordHash string) *Staff {
	now := time.Now().Unix()
	return &Staff{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

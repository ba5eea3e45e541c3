package auth

import (
	"context"

	"github.com/mmynk/tablepay/internal/models"
)

// Authenticator verifies staff credentials. The checkout service only depends
// on this interface, so a PIN pad or SSO login can replace passwords later.
type Authenticator interface {
	// Register creates a staff account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.Staff, error)

	// Authenticate returns the staff member whose credential matches.
	Authenticate(ctx context.Context, email, credential string) (*models.Staff, error)

	// ValidateCredential checks the credential format before it is stored.
	ValidateCredential(credential string) error
}

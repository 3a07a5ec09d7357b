package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator defines the interface for credential table implementations.
// This abstraction allows replacing the in-memory table with a real identity
// provider without changing the identity store.
//
// Implementations must match emails case-insensitively, compare passwords
// exactly, and never return secret material in the returned user.
type Authenticator interface {
	// Register creates a new credential record and returns the sanitized user.
	// Returns ErrEmailInUse if the email is already registered.
	Register(ctx context.Context, name, email, password string) (*models.User, error)

	// Authenticate verifies the credentials and returns the sanitized user.
	// Returns ErrInvalidCredentials if no record matches.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

package ports

import (
	"context"

	"github.com/dcpatrol/patrol/internal/domain/models"
)

// AuthProvider supplies authenticated user records. The engine never
// implements authentication itself; it only reads role and status from
// the returned session to gate administrative operations.
type AuthProvider interface {
	// Authenticate validates credentials and returns a session.
	// Returns models.ErrInvalidCredentials, models.ErrAccountPending or
	// models.ErrAccountInactive on failure.
	Authenticate(ctx context.Context, username, password string) (*models.Session, error)

	// Verify resolves a previously issued token back to its account.
	// Returns models.ErrInvalidToken on failure.
	Verify(ctx context.Context, token string) (*models.Account, error)
}

// RegistrationRequest holds the fields of a new account application
type RegistrationRequest struct {
	Username   string
	Password   string
	FullName   string
	Email      string
	Phone      string
	Role       models.Role
	Department string
}

// AccountRegistrar extends AuthProvider with self-service registration.
// New accounts start in the pending state until activated by an admin.
type AccountRegistrar interface {
	Register(ctx context.Context, req RegistrationRequest) (*models.Account, error)
}

// MediaStore produces opaque references for uploaded images. The engine
// stores whatever reference the implementation returns and never
// inspects image bytes.
type MediaStore interface {
	// Put stores image data and returns an opaque reference.
	// Implementations perform the size/type precheck.
	Put(ctx context.Context, data []byte, contentType string) (string, error)

	// Get resolves a reference back to the stored bytes
	Get(ctx context.Context, ref string) ([]byte, string, error)
}

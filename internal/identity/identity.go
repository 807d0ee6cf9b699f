// Package identity is the authentication store: login credentials plus an
// informational metadata bag, independent of the business profile table.
// Provisioning treats it like a provider admin API — identity and profile
// mutations are two separate calls with no shared transaction, so a profile
// write can fail after the identity already exists. Callers are expected to
// tolerate that (see services.ProvisionService and the reconciler).
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound marks an identity that is already absent. Delete paths
	// treat it as non-fatal so repeated deletes converge to success.
	ErrNotFound = errors.New("user not found")

	ErrEmailTaken         = errors.New("email address already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Identity is the auth-provider record for one login.
// The metadata fields (role, names, phone) are informational copies; the
// authoritative role lives on the profile row.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	FirstName    string
	LastName     string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateParams are the inputs for the privileged create call. The credential
// is pre-confirmed: no verification round trip, the user can log in at once.
type CreateParams struct {
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string
	Phone     string
}

// Store is the privileged admin surface over the identity table.
type Store interface {
	// CreateUser creates a pre-confirmed identity and returns it.
	CreateUser(ctx context.Context, params CreateParams) (*Identity, error)

	// UpdatePassword overwrites the credential for the given identity.
	UpdatePassword(ctx context.Context, id, newPassword string) error

	// Delete removes the identity. Returns ErrNotFound when it is already
	// gone; callers decide whether that is fatal.
	Delete(ctx context.Context, id string) error

	// GetByID fetches an identity by its opaque id.
	GetByID(ctx context.Context, id string) (*Identity, error)

	// Authenticate verifies an email/password pair for login.
	Authenticate(ctx context.Context, email, plainPassword string) (*Identity, error)

	// ListOrphans returns identities that have no matching profile row —
	// the drift the provisioning partial-failure policy tolerates.
	ListOrphans(ctx context.Context) ([]*Identity, error)
}

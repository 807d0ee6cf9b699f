package repositories

import (
	"context"

	"coolcare-api/internal/adapters/persistence/models"
)

// ProfileRepository defines profile repository interface
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*models.Profile, int64, error)

	// IsAdmin is the server-side privilege predicate. Privileged endpoints
	// call it on every request instead of trusting any role claim carried
	// by the client token.
	IsAdmin(ctx context.Context, id string) (bool, error)

	// ResolveRole reads the profile role directly — the fallback when the
	// predicate cannot give a definitive answer.
	ResolveRole(ctx context.Context, id string) (string, error)
}

// RoleRepository defines role catalog repository interface
type RoleRepository interface {
	List(ctx context.Context) ([]*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id uint) error
}

// CustomerRepository defines customer repository interface
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Customer, int64, error)

	// DeleteByUserID removes customer rows whose weak user_id reference
	// points at the given identity (cascade by convention, not by FK).
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
	GetByUserID(ctx context.Context, userID string) (*models.Customer, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

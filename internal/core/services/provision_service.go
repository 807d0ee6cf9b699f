package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/adapters/persistence/repositories"
	"coolcare-api/internal/core/domain"
	"coolcare-api/internal/identity"
	"coolcare-api/internal/pkg/password"
)

// ProviderError marks a failure coming from the identity store rather than
// from input validation. Handlers surface it as a 400 with the store's own
// message (duplicate email, unknown user, ...) instead of a generic 500.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string { return e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }

// ProvisionService performs the privileged account-management operations:
// create user, update password, delete user. Identity and profile are two
// independent stores; every method documents how it behaves when one of the
// two mutations fails.
//
// Callers must have been authorized already (admin role re-derived from the
// profiles table, never taken from the client token).
type ProvisionService struct {
	identities       identity.Store
	profileRepo      repositories.ProfileRepository
	roleRepo         repositories.RoleRepository
	customerRepo     repositories.CustomerRepository
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewProvisionService creates a new provisioning service
func NewProvisionService(
	identities identity.Store,
	profileRepo repositories.ProfileRepository,
	roleRepo repositories.RoleRepository,
	customerRepo repositories.CustomerRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *ProvisionService {
	return &ProvisionService{
		identities:       identities,
		profileRepo:      profileRepo,
		roleRepo:         roleRepo,
		customerRepo:     customerRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// CreateUserInput represents create-user input
type CreateUserInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// CreateUserOutput represents create-user output
type CreateUserOutput struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// CreateUser creates an identity and its profile row.
//
// Validation order: required fields, password length, then the role is
// checked against the role catalog by lookup — an unknown role aborts with
// ErrRoleNotValid before any store mutation.
//
// Partial-failure policy: identity-create failure aborts with a
// ProviderError and no profile is written. A profile-insert failure after
// the identity exists does NOT roll the identity back; the discrepancy is
// logged and the call still succeeds with the new user id. The nightly
// reconciler rebuilds such profiles from identity metadata.
func (s *ProvisionService) CreateUser(ctx context.Context, input *CreateUserInput) (*CreateUserOutput, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}
	if !password.MeetsPolicy(input.Password) {
		return nil, domain.ErrPasswordTooShort
	}

	role := strings.TrimSpace(input.Role)
	exists, err := s.roleRepo.ExistsByName(ctx, role)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrRoleNotValid
	}

	id, err := s.identities.CreateUser(ctx, identity.CreateParams{
		Email:     email,
		Password:  input.Password,
		Role:      role,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	})
	if err != nil {
		return nil, &ProviderError{Op: "create identity", Err: err}
	}

	profile := &models.Profile{
		ID:        id.ID,
		Name:      strings.TrimSpace(input.FirstName + " " + input.LastName),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     id.Email,
		Phone:     input.Phone,
		Role:      role,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		// Identity exists but the profile insert failed. The user can log
		// in, so report success and leave the row for the reconciler.
		log.Printf("⚠️ Profile insert failed for identity %s (%s): %v — leaving orphan for reconciliation", id.ID, id.Email, err)
	}

	log.Printf("✅ User provisioned: %s (role: %s)", id.Email, role)

	return &CreateUserOutput{
		UserID: id.ID,
		Email:  id.Email,
		Role:   role,
	}, nil
}

// UpdatePasswordInput represents update-user-password input
type UpdatePasswordInput struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// UpdatePassword overwrites the target identity's credential. No profile
// mutation. Store failures surface as ProviderError.
func (s *ProvisionService) UpdatePassword(ctx context.Context, input *UpdatePasswordInput) error {
	if input.UserID == "" {
		return domain.ErrUserIDRequired
	}
	if input.Password == "" {
		return domain.ErrMissingFields
	}
	if !password.MeetsPolicy(input.Password) {
		return domain.ErrPasswordTooShort
	}

	if err := s.identities.UpdatePassword(ctx, input.UserID, input.Password); err != nil {
		return &ProviderError{Op: "update password", Err: err}
	}

	log.Printf("✅ Password updated for user %s", input.UserID)
	return nil
}

// DeleteUser removes the identity, its profile, and any customer rows whose
// weak user_id reference points at it. The goal is convergence to
// "no identity, no profile": an identity that is already gone is treated as
// success, so repeated deletes are idempotent. Cleanup failures after the
// identity delete are logged but do not fail the call.
func (s *ProvisionService) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrUserIDRequired
	}

	if err := s.identities.Delete(ctx, userID); err != nil {
		if !errors.Is(err, identity.ErrNotFound) {
			return &ProviderError{Op: "delete identity", Err: err}
		}
		log.Printf("ℹ️ Identity %s already absent, continuing with profile cleanup", userID)
	}

	if err := s.profileRepo.Delete(ctx, userID); err != nil {
		log.Printf("⚠️ Profile cleanup failed for %s: %v", userID, err)
	}

	if n, err := s.customerRepo.DeleteByUserID(ctx, userID); err != nil {
		log.Printf("⚠️ Customer cascade failed for %s: %v", userID, err)
	} else if n > 0 {
		log.Printf("🗑️ Removed %d customer row(s) linked to %s", n, userID)
	}

	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		log.Printf("⚠️ Token revocation failed for %s: %v", userID, err)
	}

	log.Printf("✅ User deleted: %s", userID)
	return nil
}

// ListUsersOutput represents the admin user listing
type ListUsersOutput struct {
	Users      []*models.Profile `json:"users"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ListUsers lists profiles for the admin user-management screen
func (s *ProvisionService) ListUsers(ctx context.Context, page, limit int) (*ListUsersOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit
	profiles, total, err := s.profileRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &ListUsersOutput{
		Users:      profiles,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// GetUser fetches one profile by identity id
func (s *ProvisionService) GetUser(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

package services

import (
	"context"
	"errors"
	"log"

	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/adapters/persistence/repositories"
	"coolcare-api/internal/config"
	"coolcare-api/internal/identity"
	"coolcare-api/internal/pkg/jwt"
	"coolcare-api/internal/pkg/password"

	"github.com/google/uuid"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrProfileMissing     = errors.New("profile not found for identity")
)

// AuthService handles login and session token lifecycle. Accounts are never
// created here — provisioning is the only account path.
type AuthService struct {
	identities       identity.Store
	profileRepo      repositories.ProfileRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	identities identity.Store,
	profileRepo repositories.ProfileRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		identities:       identities,
		profileRepo:      profileRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.Profile `json:"user"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
}

// Login authenticates against the identity store and resolves the role from
// the profile row. The role embedded in the issued token is a convenience
// for client-side route gating only.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	id, err := s.identities.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	profile, err := s.profileRepo.GetByID(ctx, id.ID)
	if err != nil {
		// Identity without a profile: the tolerated provisioning drift.
		// Let the user in with the metadata role so "can log in" holds;
		// the reconciler will restore the profile row.
		log.Printf("⚠️ Login for identity %s without profile row", id.ID)
		profile = &models.Profile{
			ID:    id.ID,
			Email: id.Email,
			Name:  id.FirstName + " " + id.LastName,
			Role:  id.Role,
		}
	}

	tokens, err := s.generateTokens(id.ID, profile.Email, profile.Role)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, id.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Login: %s (role: %s)", profile.Email, profile.Role)

	return &AuthResponse{
		User:         profile,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Refresh validates a refresh token, rotates it, and issues a new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if stored.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if stored.IsExpired() {
		return nil, ErrTokenExpired
	}

	profile, err := s.profileRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrProfileMissing
	}

	tokens, err := s.generateTokens(profile.ID, profile.Email, profile.Role)
	if err != nil {
		return nil, err
	}

	// Rotate: revoke the presented token, store the new one
	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, profile.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         profile,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		return nil // already gone, nothing to revoke
	}
	return s.refreshTokenRepo.Revoke(ctx, stored.ID)
}

// LogoutAll revokes every active session of a user
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return s.refreshTokenRepo.RevokeAllByUserID(ctx, userID)
}

// Me returns the caller's profile
func (s *AuthService) Me(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrProfileMissing
	}
	return profile, nil
}

func (s *AuthService) generateTokens(userID, email, role string) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(userID, email, role, s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(userID, uuid.NewString(), s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenDays)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) storeRefreshToken(ctx context.Context, userID, refreshToken string) error {
	return s.refreshTokenRepo.Create(ctx, &models.RefreshToken{
		UserID:    userID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	})
}

package services

import (
	"context"
	"errors"
	"testing"

	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/config"
	"coolcare-api/internal/identity"
	"coolcare-api/internal/pkg/jwt"
	"coolcare-api/internal/pkg/password"
)

// storingTokenRepo keeps refresh tokens in memory so rotation is observable
type storingTokenRepo struct {
	fakeTokenRepo
	byHash map[string]*models.RefreshToken
	nextID uint
}

func newStoringTokenRepo() *storingTokenRepo {
	return &storingTokenRepo{byHash: make(map[string]*models.RefreshToken)}
}

func (r *storingTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.nextID++
	token.ID = r.nextID
	r.byHash[token.TokenHash] = token
	return nil
}

func (r *storingTokenRepo) GetByTokenHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	if t, ok := r.byHash[hash]; ok {
		return t, nil
	}
	return nil, errors.New("record not found")
}

func (r *storingTokenRepo) Revoke(_ context.Context, id uint) error {
	for _, t := range r.byHash {
		if t.ID == id {
			now := jwt.GetExpiryTime(0)
			t.RevokedAt = &now
			return nil
		}
	}
	return errors.New("record not found")
}

func testAuthConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

type authFixture struct {
	identities *fakeIdentityStore
	profiles   *fakeProfileRepo
	tokens     *storingTokenRepo
	service    *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		identities: newFakeIdentityStore(),
		profiles:   newFakeProfileRepo(),
		tokens:     newStoringTokenRepo(),
	}
	f.service = NewAuthService(f.identities, f.profiles, f.tokens, testAuthConfig())
	return f
}

func TestLoginUsesProfileRole(t *testing.T) {
	f := newAuthFixture()

	id, _ := f.identities.CreateUser(context.Background(), identityParams("ani@coolcare.id", "technician"))
	// The profile role was changed after provisioning; it wins over the
	// stale identity metadata.
	f.profiles.byID[id.ID] = &models.Profile{ID: id.ID, Email: id.Email, Role: models.RoleAdmin}

	resp, err := f.service.Login(context.Background(), &LoginInput{Email: "ani@coolcare.id", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.User.Role != models.RoleAdmin {
		t.Errorf("login role %q, want profile role admin", resp.User.Role)
	}

	claims, err := jwt.ValidateAccessToken(resp.AccessToken, "access-secret")
	if err != nil {
		t.Fatalf("issued access token invalid: %v", err)
	}
	if claims.UserID != id.ID {
		t.Errorf("token subject %q, want %q", claims.UserID, id.ID)
	}
}

func TestLoginWithoutProfileStillSucceeds(t *testing.T) {
	f := newAuthFixture()

	// Provisioning drift: identity exists, profile row does not.
	id, _ := f.identities.CreateUser(context.Background(), identityParams("orphan@coolcare.id", models.RoleCustomer))

	resp, err := f.service.Login(context.Background(), &LoginInput{Email: "orphan@coolcare.id", Password: "secret123"})
	if err != nil {
		t.Fatalf("orphaned identity could not log in: %v", err)
	}
	if resp.User.ID != id.ID {
		t.Errorf("synthesized profile id %q, want %q", resp.User.ID, id.ID)
	}
	if resp.User.Role != models.RoleCustomer {
		t.Errorf("synthesized profile role %q, want metadata role customer", resp.User.Role)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Login(context.Background(), &LoginInput{Email: "nobody@coolcare.id", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newAuthFixture()

	id, _ := f.identities.CreateUser(context.Background(), identityParams("rot@coolcare.id", models.RoleTechnician))
	f.profiles.byID[id.ID] = &models.Profile{ID: id.ID, Email: id.Email, Role: models.RoleTechnician}

	login, err := f.service.Login(context.Background(), &LoginInput{Email: "rot@coolcare.id", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	refreshed, err := f.service.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// The first token is revoked; presenting it again must fail.
	if _, err := f.service.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("reused token: got %v, want ErrTokenRevoked", err)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.service.Refresh(context.Background(), "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAuthFixture()

	id, _ := f.identities.CreateUser(context.Background(), identityParams("out@coolcare.id", models.RoleCustomer))
	f.profiles.byID[id.ID] = &models.Profile{ID: id.ID, Email: id.Email, Role: models.RoleCustomer}

	login, err := f.service.Login(context.Background(), &LoginInput{Email: "out@coolcare.id", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := f.service.Logout(context.Background(), login.RefreshToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	stored, err := f.tokens.GetByTokenHash(context.Background(), password.HashToken(login.RefreshToken))
	if err != nil {
		t.Fatalf("stored token missing: %v", err)
	}
	if !stored.IsRevoked() {
		t.Error("refresh token not revoked after logout")
	}
}

func identityParams(email, role string) identity.CreateParams {
	return identity.CreateParams{
		Email:    email,
		Password: "secret123",
		Role:     role,
	}
}

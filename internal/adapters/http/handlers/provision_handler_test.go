package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"coolcare-api/internal/adapters/http/middleware"
	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/config"
	"coolcare-api/internal/core/services"
	"coolcare-api/internal/identity"
	"coolcare-api/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

// memIdentities is a minimal in-memory identity store
type memIdentities struct {
	byID map[string]*identity.Identity
}

func (m *memIdentities) CreateUser(_ context.Context, p identity.CreateParams) (*identity.Identity, error) {
	for _, id := range m.byID {
		if id.Email == p.Email {
			return nil, identity.ErrEmailTaken
		}
	}
	id := &identity.Identity{ID: uuid.NewString(), Email: p.Email, Role: p.Role}
	m.byID[id.ID] = id
	return id, nil
}

func (m *memIdentities) UpdatePassword(_ context.Context, id, _ string) error {
	if _, ok := m.byID[id]; !ok {
		return identity.ErrNotFound
	}
	return nil
}

func (m *memIdentities) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return identity.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memIdentities) GetByID(_ context.Context, id string) (*identity.Identity, error) {
	if found, ok := m.byID[id]; ok {
		return found, nil
	}
	return nil, identity.ErrNotFound
}

func (m *memIdentities) Authenticate(_ context.Context, _, _ string) (*identity.Identity, error) {
	return nil, identity.ErrInvalidCredentials
}

func (m *memIdentities) ListOrphans(_ context.Context) ([]*identity.Identity, error) {
	return nil, nil
}

// memProfiles is a minimal in-memory profile repository
type memProfiles struct {
	byID map[string]*models.Profile
}

func (m *memProfiles) Create(_ context.Context, p *models.Profile) error {
	m.byID[p.ID] = p
	return nil
}

func (m *memProfiles) GetByID(_ context.Context, id string) (*models.Profile, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, errors.New("record not found")
}

func (m *memProfiles) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, p := range m.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *memProfiles) Update(_ context.Context, p *models.Profile) error {
	m.byID[p.ID] = p
	return nil
}

func (m *memProfiles) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *memProfiles) List(_ context.Context, _, _ int) ([]*models.Profile, int64, error) {
	out := make([]*models.Profile, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (m *memProfiles) IsAdmin(_ context.Context, id string) (bool, error) {
	p, ok := m.byID[id]
	if !ok {
		return false, errors.New("record not found")
	}
	return p.Role == models.RoleAdmin, nil
}

func (m *memProfiles) ResolveRole(_ context.Context, id string) (string, error) {
	p, ok := m.byID[id]
	if !ok {
		return "", errors.New("record not found")
	}
	return p.Role, nil
}

// memRoles is the fixed role catalog
type memRoles struct{}

func (memRoles) List(_ context.Context) ([]*models.Role, error) { return nil, nil }
func (memRoles) GetByName(_ context.Context, name string) (*models.Role, error) {
	return &models.Role{Name: name}, nil
}
func (memRoles) ExistsByName(_ context.Context, name string) (bool, error) {
	switch name {
	case models.RoleAdmin, models.RoleTechnician, models.RoleCustomer:
		return true, nil
	}
	return false, nil
}
func (memRoles) Create(_ context.Context, _ *models.Role) error { return nil }
func (memRoles) Delete(_ context.Context, _ uint) error         { return nil }

// memCustomers is an empty customer repository
type memCustomers struct{}

func (memCustomers) Create(_ context.Context, _ *models.Customer) error { return nil }
func (memCustomers) GetByID(_ context.Context, _ uint) (*models.Customer, error) {
	return nil, errors.New("record not found")
}
func (memCustomers) Update(_ context.Context, _ *models.Customer) error { return nil }
func (memCustomers) Delete(_ context.Context, _ uint) error             { return nil }
func (memCustomers) List(_ context.Context, _, _ int) ([]*models.Customer, int64, error) {
	return nil, 0, nil
}
func (memCustomers) DeleteByUserID(_ context.Context, _ string) (int64, error) { return 0, nil }
func (memCustomers) GetByUserID(_ context.Context, _ string) (*models.Customer, error) {
	return nil, errors.New("record not found")
}

// memTokens is an empty refresh token repository
type memTokens struct{}

func (memTokens) Create(_ context.Context, _ *models.RefreshToken) error { return nil }
func (memTokens) GetByTokenHash(_ context.Context, _ string) (*models.RefreshToken, error) {
	return nil, errors.New("record not found")
}
func (memTokens) Revoke(_ context.Context, _ uint) error                { return nil }
func (memTokens) RevokeAllByUserID(_ context.Context, _ string) error   { return nil }
func (memTokens) DeleteExpired(_ context.Context) (int64, error)        { return 0, nil }

type testEnv struct {
	app      *fiber.App
	profiles *memProfiles
}

// newTestEnv builds the provisioning routes with the production middleware
// chain: authenticate, authorize against the profile store, then handle.
func newTestEnv() *testEnv {
	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:          testSecret,
			AccessTokenMins: 15,
		},
	}

	identities := &memIdentities{byID: make(map[string]*identity.Identity)}
	profiles := &memProfiles{byID: make(map[string]*models.Profile)}

	svc := services.NewProvisionService(identities, profiles, memRoles{}, memCustomers{}, memTokens{})
	handler := NewProvisionHandler(svc)

	app := fiber.New()
	group := app.Group("/api/v1/admin/users")
	group.Use(middleware.AuthMiddleware(cfg))
	group.Use(middleware.AdminRequired(profiles))
	group.Post("/", handler.CreateUser)
	group.Put("/:id/password", handler.UpdatePassword)
	group.Delete("/:id", handler.DeleteUser)

	return &testEnv{app: app, profiles: profiles}
}

// seedUser registers a profile and mints a matching access token
func (e *testEnv) seedUser(t *testing.T, role string) (userID, token string) {
	t.Helper()
	userID = uuid.NewString()
	e.profiles.byID[userID] = &models.Profile{
		ID:    userID,
		Email: fmt.Sprintf("%s@coolcare.id", role),
		Role:  role,
	}
	token, err := jwt.GenerateAccessToken(userID, "", role, testSecret, 15)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return userID, token
}

func doJSON(t *testing.T, app *fiber.App, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("invalid JSON response %q: %v", raw, err)
	}
	return out
}

func TestCreateUserWithoutToken(t *testing.T) {
	env := newTestEnv()

	// A completely invalid body must not matter: authentication is checked
	// before the payload is ever parsed.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", resp.StatusCode)
	}
}

func TestCreateUserAsNonAdmin(t *testing.T) {
	env := newTestEnv()
	_, token := env.seedUser(t, models.RoleTechnician)

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/admin/users/", token, map[string]string{
		"email":    "new@coolcare.id",
		"password": "secret123",
		"role":     models.RoleCustomer,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", resp.StatusCode)
	}
}

func TestCreateUserForgedAdminClaim(t *testing.T) {
	env := newTestEnv()

	// Token claims admin, but the profile row says technician. The route
	// re-derives the role from the store, so the forged claim is ignored.
	userID := uuid.NewString()
	env.profiles.byID[userID] = &models.Profile{ID: userID, Role: models.RoleTechnician}
	token, err := jwt.GenerateAccessToken(userID, "", models.RoleAdmin, testSecret, 15)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/admin/users/", token, map[string]string{
		"email":    "new@coolcare.id",
		"password": "secret123",
		"role":     models.RoleCustomer,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", resp.StatusCode)
	}
}

func TestCreateUserInvalidRole(t *testing.T) {
	env := newTestEnv()
	_, token := env.seedUser(t, models.RoleAdmin)

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/admin/users/", token, map[string]string{
		"email":    "new@coolcare.id",
		"password": "secret123",
		"role":     "manager",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["error"] != "role not valid" {
		t.Fatalf("got error %q, want %q", body["error"], "role not valid")
	}
}

func TestCreateTechnicianEndToEnd(t *testing.T) {
	env := newTestEnv()
	_, token := env.seedUser(t, models.RoleAdmin)

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/admin/users/", token, map[string]string{
		"email":      "tech@coolcare.id",
		"password":   "secret123",
		"role":       models.RoleTechnician,
		"first_name": "Andi",
		"last_name":  "Wijaya",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["success"] != true {
		t.Fatalf("success flag not set: %v", body)
	}
	data, _ := body["data"].(map[string]interface{})
	if data == nil || data["user_id"] == "" || data["user_id"] == nil {
		t.Fatalf("no user_id in response: %v", body)
	}
	if data["role"] != models.RoleTechnician {
		t.Fatalf("got role %q, want technician", data["role"])
	}

	// The new technician's profile exists with the assigned role.
	userID, _ := data["user_id"].(string)
	profile, ok := env.profiles.byID[userID]
	if !ok {
		t.Fatal("profile not created")
	}
	if profile.Role != models.RoleTechnician {
		t.Fatalf("profile role %q, want technician", profile.Role)
	}
}

func TestUpdatePasswordTooShort(t *testing.T) {
	env := newTestEnv()
	userID, token := env.seedUser(t, models.RoleAdmin)

	resp := doJSON(t, env.app, http.MethodPut, "/api/v1/admin/users/"+userID+"/password", token, map[string]string{
		"password": "12345",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", resp.StatusCode)
	}
}

func TestDeleteUserTwice(t *testing.T) {
	env := newTestEnv()
	_, token := env.seedUser(t, models.RoleAdmin)

	// Create a user, then delete it twice: both calls succeed.
	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/admin/users/", token, map[string]string{
		"email":    "gone@coolcare.id",
		"password": "secret123",
		"role":     models.RoleCustomer,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create: got status %d, want 200", resp.StatusCode)
	}
	data, _ := decodeBody(t, resp)["data"].(map[string]interface{})
	userID, _ := data["user_id"].(string)

	for i := 0; i < 2; i++ {
		resp := doJSON(t, env.app, http.MethodDelete, "/api/v1/admin/users/"+userID, token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("delete #%d: got status %d, want 200", i+1, resp.StatusCode)
		}
	}
}

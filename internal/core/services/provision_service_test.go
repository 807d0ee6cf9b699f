package services

import (
	"context"
	"errors"
	"testing"

	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/core/domain"
	"coolcare-api/internal/identity"

	"github.com/google/uuid"
)

// fakeIdentityStore is an in-memory identity.Store
type fakeIdentityStore struct {
	byID      map[string]*identity.Identity
	createErr error
	updateErr error
	deleteErr error
	creates   int
}

func newFakeIdentityStore() *fakeIdentityStore {
	return &fakeIdentityStore{byID: make(map[string]*identity.Identity)}
}

func (f *fakeIdentityStore) CreateUser(_ context.Context, params identity.CreateParams) (*identity.Identity, error) {
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, id := range f.byID {
		if id.Email == params.Email {
			return nil, identity.ErrEmailTaken
		}
	}
	id := &identity.Identity{
		ID:        uuid.NewString(),
		Email:     params.Email,
		Role:      params.Role,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Phone:     params.Phone,
	}
	f.byID[id.ID] = id
	return id, nil
}

func (f *fakeIdentityStore) UpdatePassword(_ context.Context, id, _ string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[id]; !ok {
		return identity.ErrNotFound
	}
	return nil
}

func (f *fakeIdentityStore) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return identity.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeIdentityStore) GetByID(_ context.Context, id string) (*identity.Identity, error) {
	if found, ok := f.byID[id]; ok {
		return found, nil
	}
	return nil, identity.ErrNotFound
}

func (f *fakeIdentityStore) Authenticate(_ context.Context, email, _ string) (*identity.Identity, error) {
	for _, id := range f.byID {
		if id.Email == email {
			return id, nil
		}
	}
	return nil, identity.ErrInvalidCredentials
}

func (f *fakeIdentityStore) ListOrphans(_ context.Context) ([]*identity.Identity, error) {
	return nil, nil
}

// fakeProfileRepo is an in-memory ProfileRepository
type fakeProfileRepo struct {
	byID      map[string]*models.Profile
	createErr error
	deleteErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byID: make(map[string]*models.Profile)}
}

func (f *fakeProfileRepo) Create(_ context.Context, p *models.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (*models.Profile, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, errors.New("record not found")
}

func (f *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, p := range f.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, errors.New("record not found")
}

func (f *fakeProfileRepo) Update(_ context.Context, p *models.Profile) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProfileRepo) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeProfileRepo) List(_ context.Context, offset, limit int) ([]*models.Profile, int64, error) {
	out := make([]*models.Profile, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProfileRepo) IsAdmin(_ context.Context, id string) (bool, error) {
	p, ok := f.byID[id]
	if !ok {
		return false, errors.New("record not found")
	}
	return p.Role == models.RoleAdmin, nil
}

func (f *fakeProfileRepo) ResolveRole(_ context.Context, id string) (string, error) {
	p, ok := f.byID[id]
	if !ok {
		return "", errors.New("record not found")
	}
	return p.Role, nil
}

// fakeRoleRepo serves a fixed role catalog
type fakeRoleRepo struct {
	names map[string]bool
}

func newFakeRoleRepo(names ...string) *fakeRoleRepo {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return &fakeRoleRepo{names: m}
}

func (f *fakeRoleRepo) List(_ context.Context) ([]*models.Role, error) { return nil, nil }

func (f *fakeRoleRepo) GetByName(_ context.Context, name string) (*models.Role, error) {
	if f.names[name] {
		return &models.Role{Name: name}, nil
	}
	return nil, errors.New("record not found")
}

func (f *fakeRoleRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	return f.names[name], nil
}

func (f *fakeRoleRepo) Create(_ context.Context, _ *models.Role) error { return nil }
func (f *fakeRoleRepo) Delete(_ context.Context, _ uint) error         { return nil }

// fakeCustomerRepo tracks cascade deletes by user id
type fakeCustomerRepo struct {
	byUserID map[string]int64
	deleted  []string
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{byUserID: make(map[string]int64)}
}

func (f *fakeCustomerRepo) Create(_ context.Context, _ *models.Customer) error { return nil }
func (f *fakeCustomerRepo) GetByID(_ context.Context, _ uint) (*models.Customer, error) {
	return nil, errors.New("record not found")
}
func (f *fakeCustomerRepo) Update(_ context.Context, _ *models.Customer) error { return nil }
func (f *fakeCustomerRepo) Delete(_ context.Context, _ uint) error             { return nil }
func (f *fakeCustomerRepo) List(_ context.Context, _, _ int) ([]*models.Customer, int64, error) {
	return nil, 0, nil
}

func (f *fakeCustomerRepo) DeleteByUserID(_ context.Context, userID string) (int64, error) {
	f.deleted = append(f.deleted, userID)
	n := f.byUserID[userID]
	delete(f.byUserID, userID)
	return n, nil
}

func (f *fakeCustomerRepo) GetByUserID(_ context.Context, _ string) (*models.Customer, error) {
	return nil, errors.New("record not found")
}

// fakeTokenRepo records revocations
type fakeTokenRepo struct {
	revokedUsers []string
}

func (f *fakeTokenRepo) Create(_ context.Context, _ *models.RefreshToken) error { return nil }
func (f *fakeTokenRepo) GetByTokenHash(_ context.Context, _ string) (*models.RefreshToken, error) {
	return nil, errors.New("record not found")
}
func (f *fakeTokenRepo) Revoke(_ context.Context, _ uint) error { return nil }
func (f *fakeTokenRepo) RevokeAllByUserID(_ context.Context, userID string) error {
	f.revokedUsers = append(f.revokedUsers, userID)
	return nil
}
func (f *fakeTokenRepo) DeleteExpired(_ context.Context) (int64, error) { return 0, nil }

type provisionFixture struct {
	identities *fakeIdentityStore
	profiles   *fakeProfileRepo
	roles      *fakeRoleRepo
	customers  *fakeCustomerRepo
	tokens     *fakeTokenRepo
	service    *ProvisionService
}

func newProvisionFixture() *provisionFixture {
	f := &provisionFixture{
		identities: newFakeIdentityStore(),
		profiles:   newFakeProfileRepo(),
		roles:      newFakeRoleRepo(models.RoleAdmin, models.RoleTechnician, models.RoleCustomer),
		customers:  newFakeCustomerRepo(),
		tokens:     &fakeTokenRepo{},
	}
	f.service = NewProvisionService(f.identities, f.profiles, f.roles, f.customers, f.tokens)
	return f
}

func TestCreateUserMissingFields(t *testing.T) {
	f := newProvisionFixture()

	cases := []*CreateUserInput{
		{Email: "", Password: "secret123", Role: models.RoleTechnician},
		{Email: "tech@coolcare.id", Password: "", Role: models.RoleTechnician},
		{Email: "   ", Password: "secret123", Role: models.RoleTechnician},
	}

	for _, input := range cases {
		_, err := f.service.CreateUser(context.Background(), input)
		if !errors.Is(err, domain.ErrMissingFields) {
			t.Errorf("CreateUser(%q, %q): got %v, want ErrMissingFields", input.Email, input.Password, err)
		}
	}

	if f.identities.creates != 0 {
		t.Errorf("identity store was called %d times for invalid input", f.identities.creates)
	}
}

func TestCreateUserPasswordBoundary(t *testing.T) {
	f := newProvisionFixture()

	// 5 characters: rejected before any store call
	_, err := f.service.CreateUser(context.Background(), &CreateUserInput{
		Email:    "short@coolcare.id",
		Password: "12345",
		Role:     models.RoleTechnician,
	})
	if !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Fatalf("5-char password: got %v, want ErrPasswordTooShort", err)
	}
	if f.identities.creates != 0 {
		t.Fatal("identity store was called despite short password")
	}

	// 6 characters: accepted
	out, err := f.service.CreateUser(context.Background(), &CreateUserInput{
		Email:    "exact@coolcare.id",
		Password: "123456",
		Role:     models.RoleTechnician,
	})
	if err != nil {
		t.Fatalf("6-char password: unexpected error %v", err)
	}
	if out.UserID == "" {
		t.Fatal("6-char password: no user id returned")
	}
}

func TestCreateUserUnknownRole(t *testing.T) {
	f := newProvisionFixture()

	_, err := f.service.CreateUser(context.Background(), &CreateUserInput{
		Email:    "x@coolcare.id",
		Password: "secret123",
		Role:     "superadmin",
	})
	if !errors.Is(err, domain.ErrRoleNotValid) {
		t.Fatalf("got %v, want ErrRoleNotValid", err)
	}

	// The role gate fires before the identity store is touched.
	if f.identities.creates != 0 {
		t.Fatal("identity was created despite invalid role")
	}
	if len(f.profiles.byID) != 0 {
		t.Fatal("profile was created despite invalid role")
	}
}

func TestCreateUserSuccess(t *testing.T) {
	f := newProvisionFixture()

	out, err := f.service.CreateUser(context.Background(), &CreateUserInput{
		Email:     "budi@coolcare.id",
		Password:  "secret123",
		Role:      models.RoleTechnician,
		FirstName: "Budi",
		LastName:  "Santoso",
		Phone:     "081234567890",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Email != "budi@coolcare.id" || out.Role != models.RoleTechnician {
		t.Errorf("unexpected output: %+v", out)
	}

	profile, ok := f.profiles.byID[out.UserID]
	if !ok {
		t.Fatal("profile row was not created")
	}
	if profile.Name != "Budi Santoso" || profile.Role != models.RoleTechnician {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	f := newProvisionFixture()

	input := &CreateUserInput{
		Email:    "dup@coolcare.id",
		Password: "secret123",
		Role:     models.RoleCustomer,
	}
	if _, err := f.service.CreateUser(context.Background(), input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := f.service.CreateUser(context.Background(), input)
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want ProviderError", err)
	}
	if !errors.Is(err, identity.ErrEmailTaken) {
		t.Fatalf("ProviderError does not wrap ErrEmailTaken: %v", err)
	}
}

func TestCreateUserProfileInsertFailureStillSucceeds(t *testing.T) {
	f := newProvisionFixture()
	f.profiles.createErr = errors.New("profiles table unavailable")

	out, err := f.service.CreateUser(context.Background(), &CreateUserInput{
		Email:    "orphan@coolcare.id",
		Password: "secret123",
		Role:     models.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("profile insert failure must not fail the call, got %v", err)
	}
	if out.UserID == "" {
		t.Fatal("no user id returned")
	}

	// The identity exists even though the profile does not — the orphan the
	// reconciler later repairs.
	if _, ok := f.identities.byID[out.UserID]; !ok {
		t.Fatal("identity missing after partial failure")
	}
	if len(f.profiles.byID) != 0 {
		t.Fatal("profile unexpectedly present")
	}
}

func TestUpdatePasswordValidation(t *testing.T) {
	f := newProvisionFixture()

	err := f.service.UpdatePassword(context.Background(), &UpdatePasswordInput{UserID: "", Password: "secret123"})
	if !errors.Is(err, domain.ErrUserIDRequired) {
		t.Errorf("empty user id: got %v, want ErrUserIDRequired", err)
	}

	err = f.service.UpdatePassword(context.Background(), &UpdatePasswordInput{UserID: "abc", Password: ""})
	if !errors.Is(err, domain.ErrMissingFields) {
		t.Errorf("empty password: got %v, want ErrMissingFields", err)
	}

	err = f.service.UpdatePassword(context.Background(), &UpdatePasswordInput{UserID: "abc", Password: "12345"})
	if !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Errorf("short password: got %v, want ErrPasswordTooShort", err)
	}
}

func TestUpdatePasswordUnknownUser(t *testing.T) {
	f := newProvisionFixture()

	err := f.service.UpdatePassword(context.Background(), &UpdatePasswordInput{
		UserID:   "no-such-user",
		Password: "secret123",
	})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want ProviderError", err)
	}
	if !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("ProviderError does not wrap ErrNotFound: %v", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	f := newProvisionFixture()

	out, err := f.service.CreateUser(context.Background(), &CreateUserInput{
		Email:    "gone@coolcare.id",
		Password: "secret123",
		Role:     models.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	f.customers.byUserID[out.UserID] = 2

	if err := f.service.DeleteUser(context.Background(), out.UserID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, ok := f.identities.byID[out.UserID]; ok {
		t.Error("identity still present after delete")
	}
	if _, ok := f.profiles.byID[out.UserID]; ok {
		t.Error("profile still present after delete")
	}
	if len(f.customers.deleted) != 1 || f.customers.deleted[0] != out.UserID {
		t.Errorf("customer cascade not executed: %v", f.customers.deleted)
	}
	if len(f.tokens.revokedUsers) != 1 || f.tokens.revokedUsers[0] != out.UserID {
		t.Errorf("refresh tokens not revoked: %v", f.tokens.revokedUsers)
	}
}

func TestDeleteUserIdempotent(t *testing.T) {
	f := newProvisionFixture()

	out, err := f.service.CreateUser(context.Background(), &CreateUserInput{
		Email:    "twice@coolcare.id",
		Password: "secret123",
		Role:     models.RoleTechnician,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := f.service.DeleteUser(context.Background(), out.UserID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	// Identity is already gone; the second delete still succeeds and still
	// runs the profile and customer cleanup.
	if err := f.service.DeleteUser(context.Background(), out.UserID); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if len(f.customers.deleted) != 2 {
		t.Errorf("customer cleanup ran %d times, want 2", len(f.customers.deleted))
	}
}

func TestDeleteUserRequiresID(t *testing.T) {
	f := newProvisionFixture()

	if err := f.service.DeleteUser(context.Background(), ""); !errors.Is(err, domain.ErrUserIDRequired) {
		t.Fatalf("got %v, want ErrUserIDRequired", err)
	}
}

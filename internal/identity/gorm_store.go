package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"coolcare-api/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// record is the GORM mapping for the identities table. It deliberately does
// not relate to the profiles table: the two are correlated by id only.
type record struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         string    `gorm:"size:20"`
	FirstName    string    `gorm:"size:100"`
	LastName     string    `gorm:"size:100"`
	Phone        string    `gorm:"size:30"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (record) TableName() string {
	return "identities"
}

func (r *record) toIdentity() *Identity {
	return &Identity{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Phone:        r.Phone,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// gormStore implements Store on the identities table
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates an identity store backed by the given database
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Migrate creates the identities table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&record{})
}

// CreateUser creates a pre-confirmed identity
func (s *gormStore) CreateUser(ctx context.Context, params CreateParams) (*Identity, error) {
	hash, err := password.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	rec := &record{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(params.Email)),
		PasswordHash: hash,
		Role:         params.Role,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Phone:        params.Phone,
	}

	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateErr(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return rec.toIdentity(), nil
}

// UpdatePassword overwrites the credential for an identity
func (s *gormStore) UpdatePassword(ctx context.Context, id, newPassword string) error {
	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Model(&record{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an identity; ErrNotFound when already absent
func (s *gormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&record{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID fetches an identity by id
func (s *gormStore) GetByID(ctx context.Context, id string) (*Identity, error) {
	var rec record
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec.toIdentity(), nil
}

// Authenticate verifies an email/password pair
func (s *gormStore) Authenticate(ctx context.Context, email, plainPassword string) (*Identity, error) {
	var rec record
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(plainPassword, rec.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return rec.toIdentity(), nil
}

// ListOrphans returns identities without a profile row
func (s *gormStore) ListOrphans(ctx context.Context) ([]*Identity, error) {
	var recs []*record
	err := s.db.WithContext(ctx).
		Joins("LEFT JOIN profiles ON profiles.id = identities.id AND profiles.deleted_at IS NULL").
		Where("profiles.id IS NULL").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	out := make([]*Identity, len(recs))
	for i, r := range recs {
		out[i] = r.toIdentity()
	}
	return out, nil
}

// isDuplicateErr matches the MySQL duplicate-entry error (code 1062) by
// message, since the driver error type is not imported here.
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "1062")
}

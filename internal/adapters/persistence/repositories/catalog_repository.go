package repositories

import (
	"context"

	"coolcare-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ============================================================
// AC catalog lookups (brands, types, capacity labels)
// ============================================================

// ACBrandRepository handles master_ac_brands access
type ACBrandRepository struct {
	db *gorm.DB
}

// NewACBrandRepository creates a new AC brand repository
func NewACBrandRepository(db *gorm.DB) *ACBrandRepository {
	return &ACBrandRepository{db: db}
}

// List lists all brands
func (r *ACBrandRepository) List(ctx context.Context) ([]*models.ACBrand, error) {
	var brands []*models.ACBrand
	err := r.db.WithContext(ctx).Order("name").Find(&brands).Error
	return brands, err
}

// GetByID gets a brand by id
func (r *ACBrandRepository) GetByID(ctx context.Context, id uint) (*models.ACBrand, error) {
	var brand models.ACBrand
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&brand).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

// Create creates a brand
func (r *ACBrandRepository) Create(ctx context.Context, brand *models.ACBrand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

// Update updates a brand
func (r *ACBrandRepository) Update(ctx context.Context, brand *models.ACBrand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

// Delete soft deletes a brand
func (r *ACBrandRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ACBrand{}, id).Error
}

// ACTypeRepository handles master_ac_types access
type ACTypeRepository struct {
	db *gorm.DB
}

// NewACTypeRepository creates a new AC type repository
func NewACTypeRepository(db *gorm.DB) *ACTypeRepository {
	return &ACTypeRepository{db: db}
}

// List lists all types
func (r *ACTypeRepository) List(ctx context.Context) ([]*models.ACType, error) {
	var types []*models.ACType
	err := r.db.WithContext(ctx).Order("name").Find(&types).Error
	return types, err
}

// GetByID gets a type by id
func (r *ACTypeRepository) GetByID(ctx context.Context, id uint) (*models.ACType, error) {
	var acType models.ACType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&acType).Error
	if err != nil {
		return nil, err
	}
	return &acType, nil
}

// Create creates a type
func (r *ACTypeRepository) Create(ctx context.Context, acType *models.ACType) error {
	return r.db.WithContext(ctx).Create(acType).Error
}

// Update updates a type
func (r *ACTypeRepository) Update(ctx context.Context, acType *models.ACType) error {
	return r.db.WithContext(ctx).Save(acType).Error
}

// Delete soft deletes a type
func (r *ACTypeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ACType{}, id).Error
}

// ACPkRepository handles master_ac_pks access
type ACPkRepository struct {
	db *gorm.DB
}

// NewACPkRepository creates a new AC capacity repository
func NewACPkRepository(db *gorm.DB) *ACPkRepository {
	return &ACPkRepository{db: db}
}

// List lists all capacity labels
func (r *ACPkRepository) List(ctx context.Context) ([]*models.ACPk, error) {
	var pks []*models.ACPk
	err := r.db.WithContext(ctx).Order("label").Find(&pks).Error
	return pks, err
}

// GetByID gets a capacity label by id
func (r *ACPkRepository) GetByID(ctx context.Context, id uint) (*models.ACPk, error) {
	var pk models.ACPk
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pk).Error
	if err != nil {
		return nil, err
	}
	return &pk, nil
}

// Create creates a capacity label
func (r *ACPkRepository) Create(ctx context.Context, pk *models.ACPk) error {
	return r.db.WithContext(ctx).Create(pk).Error
}

// Update updates a capacity label
func (r *ACPkRepository) Update(ctx context.Context, pk *models.ACPk) error {
	return r.db.WithContext(ctx).Save(pk).Error
}

// Delete soft deletes a capacity label
func (r *ACPkRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ACPk{}, id).Error
}

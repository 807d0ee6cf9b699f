package repositories

import (
	"context"

	"coolcare-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// RequestFilter narrows request listings. Zero values mean "no filter".
type RequestFilter struct {
	Status       string
	CustomerID   uint
	ProjectID    uint
	TechnicianID string
	CreatedBy    string
}

// RequestRepository handles requests access
type RequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create creates a request
func (r *RequestRepository) Create(ctx context.Context, request *models.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// GetByID gets a request with customer, project and photos
func (r *RequestRepository) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	var request models.Request
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Project").
		Preload("Photos").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Update updates a request
func (r *RequestRepository) Update(ctx context.Context, request *models.Request) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// Delete soft deletes a request
func (r *RequestRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Request{}, id).Error
}

// List lists requests matching the filter, newest first
func (r *RequestRepository) List(ctx context.Context, filter RequestFilter, offset, limit int) ([]*models.Request, int64, error) {
	var requests []*models.Request
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Request{})
	q = applyFilter(q, filter)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyFilter(r.db.WithContext(ctx), filter).
		Preload("Customer").
		Preload("Project").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func applyFilter(q *gorm.DB, filter RequestFilter) *gorm.DB {
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID > 0 {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.ProjectID > 0 {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if filter.TechnicianID != "" {
		q = q.Where("technician_id = ?", filter.TechnicianID)
	}
	if filter.CreatedBy != "" {
		q = q.Where("created_by = ?", filter.CreatedBy)
	}
	return q
}

// AddPhoto attaches a photo row to a request
func (r *RequestRepository) AddPhoto(ctx context.Context, photo *models.RequestPhoto) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

// CountByNormalizedStatus returns totals keyed by the fixed status label
// set. Rows whose stored status is unrecognized count as pending, so the
// three buckets always sum to the total.
func (r *RequestRepository) CountByNormalizedStatus(ctx context.Context, filter RequestFilter) (map[string]int64, error) {
	var total, inProgress, completed int64

	base := applyFilter(r.db.WithContext(ctx).Model(&models.Request{}), filter)
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	if err := applyFilter(r.db.WithContext(ctx).Model(&models.Request{}), filter).
		Where("status = ?", models.StatusInProgress).Count(&inProgress).Error; err != nil {
		return nil, err
	}

	if err := applyFilter(r.db.WithContext(ctx).Model(&models.Request{}), filter).
		Where("status = ?", models.StatusCompleted).Count(&completed).Error; err != nil {
		return nil, err
	}

	return map[string]int64{
		models.StatusPending:    total - inProgress - completed,
		models.StatusInProgress: inProgress,
		models.StatusCompleted:  completed,
	}, nil
}

package repositories

import (
	"context"

	"coolcare-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ProjectRepository handles master_projects access
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// List lists all projects, optionally filtered by customer
func (r *ProjectRepository) List(ctx context.Context, customerID uint) ([]*models.Project, error) {
	var projects []*models.Project
	q := r.db.WithContext(ctx).Preload("Customer").Order("project_name")
	if customerID > 0 {
		q = q.Where("customer_id = ?", customerID)
	}
	err := q.Find(&projects).Error
	return projects, err
}

// GetByID gets a project by id
func (r *ProjectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Preload("Customer").Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Create creates a project
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update updates a project
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete soft deletes a project
func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, id).Error
}

package services

import (
	"context"
	"errors"
	"io"
	"log"

	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/adapters/persistence/repositories"
	"coolcare-api/internal/core/domain"
	"coolcare-api/internal/realtime"
	"coolcare-api/internal/storage"

	"gorm.io/gorm"
)

// RequestService handles maintenance job business logic. Every mutation
// publishes a change notification for the requests table so watchers
// re-fetch.
type RequestService struct {
	requestRepo  *repositories.RequestRepository
	customerRepo repositories.CustomerRepository
	projectRepo  *repositories.ProjectRepository
	photos       storage.Store
	notifier     realtime.Notifier
}

// NewRequestService creates a new request service
func NewRequestService(
	requestRepo *repositories.RequestRepository,
	customerRepo repositories.CustomerRepository,
	projectRepo *repositories.ProjectRepository,
	photos storage.Store,
	notifier realtime.Notifier,
) *RequestService {
	return &RequestService{
		requestRepo:  requestRepo,
		customerRepo: customerRepo,
		projectRepo:  projectRepo,
		photos:       photos,
		notifier:     notifier,
	}
}

// CreateRequestInput represents create request input
type CreateRequestInput struct {
	CustomerID   uint   `json:"customer_id" validate:"required"`
	ProjectID    *uint  `json:"project_id"`
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description"`
	ACBrand      string `json:"ac_brand"`
	ACType       string `json:"ac_type"`
	ACPk         string `json:"ac_pk"`
	SerialNumber string `json:"serial_number"`
	TechnicianID *string `json:"technician_id"`
	CreatedBy    string `json:"-"`
}

// Create creates a job request in pending state
func (s *RequestService) Create(ctx context.Context, input *CreateRequestInput) (*models.RequestResponse, error) {
	if _, err := s.customerRepo.GetByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}

	if input.ProjectID != nil {
		project, err := s.projectRepo.GetByID(ctx, *input.ProjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrProjectNotFound
			}
			return nil, err
		}
		if project.CustomerID != input.CustomerID {
			return nil, domain.ErrProjectNotFound
		}
	}

	request := &models.Request{
		Status:       models.StatusPending,
		CustomerID:   input.CustomerID,
		ProjectID:    input.ProjectID,
		Title:        input.Title,
		Description:  input.Description,
		ACBrand:      input.ACBrand,
		ACType:       input.ACType,
		ACPk:         input.ACPk,
		SerialNumber: input.SerialNumber,
		TechnicianID: input.TechnicianID,
		CreatedBy:    input.CreatedBy,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, "requests")
	return request.ToResponse(), nil
}

// UpdateRequestInput represents update request input. Nil fields are left
// unchanged. Status accepts any value; unrecognized ones read back as
// pending — there is no transition enforcement.
type UpdateRequestInput struct {
	Status       *string `json:"status"`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ACBrand      *string `json:"ac_brand"`
	ACType       *string `json:"ac_type"`
	ACPk         *string `json:"ac_pk"`
	SerialNumber *string `json:"serial_number"`
	TechnicianID *string `json:"technician_id"`
}

// Update updates a request
func (s *RequestService) Update(ctx context.Context, id uint, input *UpdateRequestInput) (*models.RequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	if input.Status != nil {
		request.Status = *input.Status
	}
	if input.Title != nil {
		request.Title = *input.Title
	}
	if input.Description != nil {
		request.Description = *input.Description
	}
	if input.ACBrand != nil {
		request.ACBrand = *input.ACBrand
	}
	if input.ACType != nil {
		request.ACType = *input.ACType
	}
	if input.ACPk != nil {
		request.ACPk = *input.ACPk
	}
	if input.SerialNumber != nil {
		request.SerialNumber = *input.SerialNumber
	}
	if input.TechnicianID != nil {
		request.TechnicianID = input.TechnicianID
	}

	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, "requests")
	return request.ToResponse(), nil
}

// GetByID fetches one request
func (s *RequestService) GetByID(ctx context.Context, id uint) (*models.RequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return request.ToResponse(), nil
}

// ListRequestsOutput represents a request listing
type ListRequestsOutput struct {
	Requests   []*models.RequestResponse `json:"requests"`
	Total      int64                     `json:"total"`
	Page       int                       `json:"page"`
	Limit      int                       `json:"limit"`
	TotalPages int                       `json:"total_pages"`
}

// List lists requests matching the filter
func (s *RequestService) List(ctx context.Context, filter repositories.RequestFilter, page, limit int) (*ListRequestsOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	requests, total, err := s.requestRepo.List(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.RequestResponse, len(requests))
	for i, r := range requests {
		responses[i] = r.ToResponse()
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &ListRequestsOutput{
		Requests:   responses,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Delete soft deletes a request
func (s *RequestService) Delete(ctx context.Context, id uint) error {
	if _, err := s.requestRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRequestNotFound
		}
		return err
	}

	if err := s.requestRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.notifier.Publish(ctx, "requests")
	return nil
}

// AttachPhoto stores a captured photo and links it to the request
func (s *RequestService) AttachPhoto(ctx context.Context, requestID uint, uploaderID, category, filename string, r io.Reader) (*models.RequestPhoto, error) {
	if !storage.ValidCategory(category) {
		return nil, domain.ErrBadPhotoCategory
	}

	if _, err := s.requestRepo.GetByID(ctx, requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	url, err := s.photos.Save(uploaderID, category, filename, r)
	if err != nil {
		return nil, err
	}

	photo := &models.RequestPhoto{
		RequestID: requestID,
		Category:  category,
		URL:       url,
	}
	if err := s.requestRepo.AddPhoto(ctx, photo); err != nil {
		// The file is already on disk; the row is the source of truth, so
		// surface the failure instead of pretending the photo is attached.
		log.Printf("⚠️ Photo row insert failed for request %d: %v", requestID, err)
		return nil, err
	}

	s.notifier.Publish(ctx, "requests")
	return photo, nil
}

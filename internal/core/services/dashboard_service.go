package services

import (
	"context"
	"time"

	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// DashboardService computes the per-role dashboard aggregates. Counts are
// grouped by the normalized status label set: rows carrying an unrecognized
// status land in the pending bucket, so the buckets always sum to the total.
type DashboardService struct {
	db          *gorm.DB
	requestRepo *repositories.RequestRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, requestRepo *repositories.RequestRepository) *DashboardService {
	return &DashboardService{db: db, requestRepo: requestRepo}
}

// StatusCounts is a request count per normalized status
type StatusCounts struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Total      int64 `json:"total"`
}

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	TotalUsers       int64 `json:"total_users"`
	TotalAdmins      int64 `json:"total_admins"`
	TotalTechnicians int64 `json:"total_technicians"`
	TotalCustomers   int64 `json:"total_customers"`

	TotalCustomerSites int64 `json:"total_customer_sites"`
	TotalProjects      int64 `json:"total_projects"`

	Requests          StatusCounts `json:"requests"`
	RequestsThisMonth int64        `json:"requests_this_month"`

	RecentRequests []RequestSummary `json:"recent_requests"`
}

// RequestSummary represents a request row on a dashboard
type RequestSummary struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	CustomerName string    `json:"customer_name"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}

	s.db.WithContext(ctx).Table("profiles").Where("deleted_at IS NULL").Count(&data.TotalUsers)
	s.db.WithContext(ctx).Table("profiles").Where("role = ? AND deleted_at IS NULL", models.RoleAdmin).Count(&data.TotalAdmins)
	s.db.WithContext(ctx).Table("profiles").Where("role = ? AND deleted_at IS NULL", models.RoleTechnician).Count(&data.TotalTechnicians)
	s.db.WithContext(ctx).Table("profiles").Where("role = ? AND deleted_at IS NULL", models.RoleCustomer).Count(&data.TotalCustomers)

	s.db.WithContext(ctx).Table("master_customers").Where("deleted_at IS NULL").Count(&data.TotalCustomerSites)
	s.db.WithContext(ctx).Table("master_projects").Where("deleted_at IS NULL").Count(&data.TotalProjects)

	counts, err := s.statusCounts(ctx, repositories.RequestFilter{})
	if err != nil {
		return nil, err
	}
	data.Requests = counts

	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Table("requests").
		Where("created_at >= ? AND deleted_at IS NULL", startOfMonth).
		Count(&data.RequestsThisMonth)

	recent, err := s.recentRequests(ctx, repositories.RequestFilter{})
	if err != nil {
		return nil, err
	}
	data.RecentRequests = recent

	return data, nil
}

// TechnicianDashboardData represents technician dashboard data
type TechnicianDashboardData struct {
	Assigned       StatusCounts     `json:"assigned"`
	RecentRequests []RequestSummary `json:"recent_requests"`
}

// GetTechnicianDashboard returns the job counts for one technician
func (s *DashboardService) GetTechnicianDashboard(ctx context.Context, technicianID string) (*TechnicianDashboardData, error) {
	filter := repositories.RequestFilter{TechnicianID: technicianID}

	counts, err := s.statusCounts(ctx, filter)
	if err != nil {
		return nil, err
	}

	recent, err := s.recentRequests(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &TechnicianDashboardData{
		Assigned:       counts,
		RecentRequests: recent,
	}, nil
}

// CustomerDashboardData represents customer dashboard data
type CustomerDashboardData struct {
	Requests       StatusCounts     `json:"requests"`
	RecentRequests []RequestSummary `json:"recent_requests"`
}

// GetCustomerDashboard returns the job counts for one customer account.
// The customer is correlated to its master row by the weak user_id link.
func (s *DashboardService) GetCustomerDashboard(ctx context.Context, userID string) (*CustomerDashboardData, error) {
	var customer models.Customer
	filter := repositories.RequestFilter{CreatedBy: userID}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&customer).Error
	if err == nil {
		filter = repositories.RequestFilter{CustomerID: customer.ID}
	}

	counts, err := s.statusCounts(ctx, filter)
	if err != nil {
		return nil, err
	}

	recent, err := s.recentRequests(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &CustomerDashboardData{
		Requests:       counts,
		RecentRequests: recent,
	}, nil
}

func (s *DashboardService) statusCounts(ctx context.Context, filter repositories.RequestFilter) (StatusCounts, error) {
	byStatus, err := s.requestRepo.CountByNormalizedStatus(ctx, filter)
	if err != nil {
		return StatusCounts{}, err
	}

	counts := StatusCounts{
		Pending:    byStatus[models.StatusPending],
		InProgress: byStatus[models.StatusInProgress],
		Completed:  byStatus[models.StatusCompleted],
	}
	counts.Total = counts.Pending + counts.InProgress + counts.Completed
	return counts, nil
}

func (s *DashboardService) recentRequests(ctx context.Context, filter repositories.RequestFilter) ([]RequestSummary, error) {
	requests, _, err := s.requestRepo.List(ctx, filter, 0, 10)
	if err != nil {
		return nil, err
	}

	out := make([]RequestSummary, len(requests))
	for i, r := range requests {
		resp := r.ToResponse()
		out[i] = RequestSummary{
			ID:           resp.ID,
			Title:        resp.Title,
			CustomerName: resp.CustomerName,
			Status:       resp.Status,
			CreatedAt:    resp.CreatedAt,
		}
	}
	return out, nil
}

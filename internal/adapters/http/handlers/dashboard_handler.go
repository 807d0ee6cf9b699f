package handlers

import (
	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/core/services"
	"coolcare-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard routes to the dashboard matching the caller's role
// @Summary Dashboard
// @Description Get dashboard data for the authenticated user's role
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	userID, _ := c.Locals("userID").(string)

	switch role {
	case models.RoleAdmin:
		data, err := h.dashboardService.GetAdminDashboard(c.Context())
		if err != nil {
			return response.InternalServerError(c, "Failed to load dashboard")
		}
		return response.Success(c, "Dashboard retrieved successfully", data)
	case models.RoleTechnician:
		data, err := h.dashboardService.GetTechnicianDashboard(c.Context(), userID)
		if err != nil {
			return response.InternalServerError(c, "Failed to load dashboard")
		}
		return response.Success(c, "Dashboard retrieved successfully", data)
	default:
		data, err := h.dashboardService.GetCustomerDashboard(c.Context(), userID)
		if err != nil {
			return response.InternalServerError(c, "Failed to load dashboard")
		}
		return response.Success(c, "Dashboard retrieved successfully", data)
	}
}

// GetAdminDashboard returns the admin dashboard
// @Summary Admin dashboard
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/admin [get]
func (h *DashboardHandler) GetAdminDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}
	return response.Success(c, "Dashboard retrieved successfully", data)
}

// GetTechnicianDashboard returns the technician dashboard
// @Summary Technician dashboard
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/technician [get]
func (h *DashboardHandler) GetTechnicianDashboard(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	data, err := h.dashboardService.GetTechnicianDashboard(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}
	return response.Success(c, "Dashboard retrieved successfully", data)
}

// GetCustomerDashboard returns the customer dashboard
// @Summary Customer dashboard
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/customer [get]
func (h *DashboardHandler) GetCustomerDashboard(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	data, err := h.dashboardService.GetCustomerDashboard(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}
	return response.Success(c, "Dashboard retrieved successfully", data)
}

package handlers

import (
	"errors"
	"strconv"

	"coolcare-api/internal/core/domain"
	"coolcare-api/internal/core/services"
	"coolcare-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProvisionHandler exposes the privileged account-management operations.
// Routes mounted under it must be wrapped in AuthMiddleware + AdminRequired,
// in that order, so the mandatory sequence holds: authenticate (401),
// authorize against the store (403), and only then parse the body (400).
type ProvisionHandler struct {
	provisionService *services.ProvisionService
}

// NewProvisionHandler creates a new provisioning handler
func NewProvisionHandler(provisionService *services.ProvisionService) *ProvisionHandler {
	return &ProvisionHandler{
		provisionService: provisionService,
	}
}

// CreateUserRequest represents create-user request body
type CreateUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// CreateUser handles admin user creation
// @Summary Create user
// @Description Provision a new account: identity plus profile row (Admin only)
// @Tags Provisioning
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateUserRequest true "New user data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/users [post]
func (h *ProvisionHandler) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}

	result, err := h.provisionService.CreateUser(c.Context(), input)
	if err != nil {
		var pe *services.ProviderError
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			return response.BadRequest(c, "Email and password are required")
		case errors.Is(err, domain.ErrPasswordTooShort):
			return response.BadRequest(c, "Password must be at least 6 characters")
		case errors.Is(err, domain.ErrRoleNotValid):
			return response.BadRequest(c, "role not valid")
		case errors.As(err, &pe):
			return response.ProviderError(c, pe.Error(), nil)
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	return response.Success(c, "User created successfully", fiber.Map{
		"user_id": result.UserID,
		"email":   result.Email,
		"role":    result.Role,
	})
}

// UpdatePasswordRequest represents update-user-password request body
type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

// UpdatePassword handles admin password overwrite
// @Summary Update user password
// @Description Overwrite a user's credential (Admin only)
// @Tags Provisioning
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body UpdatePasswordRequest true "New password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/users/{id}/password [put]
func (h *ProvisionHandler) UpdatePassword(c *fiber.Ctx) error {
	var req UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdatePasswordInput{
		UserID:   c.Params("id"),
		Password: req.Password,
	}

	err := h.provisionService.UpdatePassword(c.Context(), input)
	if err != nil {
		var pe *services.ProviderError
		switch {
		case errors.Is(err, domain.ErrUserIDRequired):
			return response.BadRequest(c, "user_id is required")
		case errors.Is(err, domain.ErrMissingFields):
			return response.BadRequest(c, "Password is required")
		case errors.Is(err, domain.ErrPasswordTooShort):
			return response.BadRequest(c, "Password must be at least 6 characters")
		case errors.As(err, &pe):
			return response.ProviderError(c, pe.Error(), nil)
		default:
			return response.InternalServerError(c, "Failed to update password")
		}
	}

	return response.Success(c, "Password updated successfully", fiber.Map{
		"success": true,
	})
}

// DeleteUser handles admin user deletion
// @Summary Delete user
// @Description Delete an identity, its profile and linked customer rows (Admin only). Idempotent.
// @Tags Provisioning
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/users/{id} [delete]
func (h *ProvisionHandler) DeleteUser(c *fiber.Ctx) error {
	userID := c.Params("id")

	err := h.provisionService.DeleteUser(c.Context(), userID)
	if err != nil {
		var pe *services.ProviderError
		switch {
		case errors.Is(err, domain.ErrUserIDRequired):
			return response.BadRequest(c, "user_id is required")
		case errors.As(err, &pe):
			return response.ProviderError(c, pe.Error(), nil)
		default:
			return response.InternalServerError(c, "Failed to delete user")
		}
	}

	return response.Success(c, "User deleted successfully", fiber.Map{
		"success": true,
	})
}

// ListUsers handles the admin user listing
// @Summary List users
// @Description Get a paginated list of user profiles (Admin only)
// @Tags Provisioning
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/users [get]
func (h *ProvisionHandler) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	result, err := h.provisionService.ListUsers(c.Context(), page, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", result)
}

// GetUser handles fetching one user profile
// @Summary Get user
// @Description Get a user profile by id (Admin only)
// @Tags Provisioning
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id} [get]
func (h *ProvisionHandler) GetUser(c *fiber.Ctx) error {
	profile, err := h.provisionService.GetUser(c.Context(), c.Params("id"))
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": profile,
	})
}

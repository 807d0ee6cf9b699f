package handlers

import (
	"strconv"

	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/adapters/persistence/repositories"
	"coolcare-api/internal/pkg/pagination"
	"coolcare-api/internal/pkg/response"
	"coolcare-api/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// CustomerHandler handles customer sites and their projects
type CustomerHandler struct {
	customerRepo repositories.CustomerRepository
	projectRepo  *repositories.ProjectRepository
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerRepo repositories.CustomerRepository, projectRepo *repositories.ProjectRepository) *CustomerHandler {
	return &CustomerHandler{
		customerRepo: customerRepo,
		projectRepo:  projectRepo,
	}
}

// CustomerRequest represents customer create/update body
type CustomerRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	PICName string  `json:"pic_name" validate:"max=200"`
	Phone   string  `json:"phone" validate:"max=30"`
	Address string  `json:"address"`
	Email   string  `json:"email" validate:"omitempty,email"`
	UserID  *string `json:"user_id"`
}

// ListCustomers lists customers with pagination
// @Summary List customers
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	customers, total, err := h.customerRepo.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch customers")
	}

	return response.Success(c, "Customers retrieved successfully",
		pagination.NewResponse(customers, params, total))
}

// GetCustomer gets a customer with its projects
// @Summary Get customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid customer ID")
	}

	customer, err := h.customerRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Customer not found")
	}

	return response.Success(c, "Customer retrieved successfully", fiber.Map{
		"customer": customer,
	})
}

// CreateCustomer creates a customer
// @Summary Create customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CustomerRequest true "Customer data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, validation.Message(err))
	}

	customer := &models.Customer{
		Name:    req.Name,
		PICName: req.PICName,
		Phone:   req.Phone,
		Address: req.Address,
		Email:   req.Email,
		UserID:  req.UserID,
	}
	if err := h.customerRepo.Create(c.Context(), customer); err != nil {
		return response.InternalServerError(c, "Failed to create customer")
	}

	return response.Created(c, "Customer created successfully", fiber.Map{
		"customer": customer,
	})
}

// UpdateCustomer updates a customer
// @Summary Update customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Param body body CustomerRequest true "Customer data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid customer ID")
	}

	var req CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, validation.Message(err))
	}

	customer, err := h.customerRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Customer not found")
	}

	customer.Name = req.Name
	customer.PICName = req.PICName
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.Email = req.Email
	customer.UserID = req.UserID

	if err := h.customerRepo.Update(c.Context(), customer); err != nil {
		return response.InternalServerError(c, "Failed to update customer")
	}

	return response.Success(c, "Customer updated successfully", fiber.Map{
		"customer": customer,
	})
}

// DeleteCustomer deletes a customer
// @Summary Delete customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Success 200 {object} response.Response
// @Router /customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid customer ID")
	}
	if err := h.customerRepo.Delete(c.Context(), uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to delete customer")
	}
	return response.Success(c, "Customer deleted successfully", nil)
}

// ProjectRequest represents project create/update body
type ProjectRequest struct {
	CustomerID  uint   `json:"customer_id" validate:"required"`
	ProjectName string `json:"project_name" validate:"required,max=200"`
	Location    string `json:"location" validate:"max=200"`
	Phone       string `json:"phone" validate:"max=30"`
	Address     string `json:"address"`
}

// ListProjects lists projects, optionally filtered by customer_id
// @Summary List projects
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param customer_id query int false "Filter by customer"
// @Success 200 {object} response.Response
// @Router /projects [get]
func (h *CustomerHandler) ListProjects(c *fiber.Ctx) error {
	customerID, _ := strconv.ParseUint(c.Query("customer_id", "0"), 10, 32)

	projects, err := h.projectRepo.List(c.Context(), uint(customerID))
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch projects")
	}

	return response.Success(c, "Projects retrieved successfully", fiber.Map{
		"projects": projects,
	})
}

// GetProject gets one project
// @Summary Get project
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /projects/{id} [get]
func (h *CustomerHandler) GetProject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	project, err := h.projectRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Project not found")
	}

	return response.Success(c, "Project retrieved successfully", fiber.Map{
		"project": project,
	})
}

// CreateProject creates a project under a customer
// @Summary Create project
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ProjectRequest true "Project data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /projects [post]
func (h *CustomerHandler) CreateProject(c *fiber.Ctx) error {
	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, validation.Message(err))
	}

	if _, err := h.customerRepo.GetByID(c.Context(), req.CustomerID); err != nil {
		return response.BadRequest(c, "Customer not found")
	}

	project := &models.Project{
		CustomerID:  req.CustomerID,
		ProjectName: req.ProjectName,
		Location:    req.Location,
		Phone:       req.Phone,
		Address:     req.Address,
	}
	if err := h.projectRepo.Create(c.Context(), project); err != nil {
		return response.InternalServerError(c, "Failed to create project")
	}

	return response.Created(c, "Project created successfully", fiber.Map{
		"project": project,
	})
}

// UpdateProject updates a project
// @Summary Update project
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param body body ProjectRequest true "Project data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /projects/{id} [put]
func (h *CustomerHandler) UpdateProject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, validation.Message(err))
	}

	project, err := h.projectRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Project not found")
	}

	project.CustomerID = req.CustomerID
	project.ProjectName = req.ProjectName
	project.Location = req.Location
	project.Phone = req.Phone
	project.Address = req.Address

	if err := h.projectRepo.Update(c.Context(), project); err != nil {
		return response.InternalServerError(c, "Failed to update project")
	}

	return response.Success(c, "Project updated successfully", fiber.Map{
		"project": project,
	})
}

// DeleteProject deletes a project
// @Summary Delete project
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} response.Response
// @Router /projects/{id} [delete]
func (h *CustomerHandler) DeleteProject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}
	if err := h.projectRepo.Delete(c.Context(), uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to delete project")
	}
	return response.Success(c, "Project deleted successfully", nil)
}

package handlers

import (
	"strconv"

	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/adapters/persistence/repositories"
	"coolcare-api/internal/pkg/response"
	"coolcare-api/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// MasterHandler handles the AC catalog and role lookups. Reads are open to
// every authenticated role; writes are admin-only (enforced at the route).
type MasterHandler struct {
	roleRepo  repositories.RoleRepository
	brandRepo *repositories.ACBrandRepository
	typeRepo  *repositories.ACTypeRepository
	pkRepo    *repositories.ACPkRepository
}

// NewMasterHandler creates a new master data handler
func NewMasterHandler(
	roleRepo repositories.RoleRepository,
	brandRepo *repositories.ACBrandRepository,
	typeRepo *repositories.ACTypeRepository,
	pkRepo *repositories.ACPkRepository,
) *MasterHandler {
	return &MasterHandler{
		roleRepo:  roleRepo,
		brandRepo: brandRepo,
		typeRepo:  typeRepo,
		pkRepo:    pkRepo,
	}
}

// ListRoles lists assignable roles
// @Summary List roles
// @Description Get the role catalog
// @Tags Master Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /master/roles [get]
func (h *MasterHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.roleRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch roles")
	}
	return response.Success(c, "Roles retrieved successfully", fiber.Map{
		"roles": roles,
	})
}

// NamedItemRequest is the body for simple named catalog rows
type NamedItemRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ListACBrands lists AC brands
// @Summary List AC brands
// @Tags Master Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /master/ac-brands [get]
func (h *MasterHandler) ListACBrands(c *fiber.Ctx) error {
	brands, err := h.brandRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch AC brands")
	}
	return response.Success(c, "AC brands retrieved successfully", fiber.Map{
		"brands": brands,
	})
}

// CreateACBrand creates an AC brand
// @Summary Create AC brand
// @Tags Master Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body NamedItemRequest true "Brand data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /master/ac-brands [post]
func (h *MasterHandler) CreateACBrand(c *fiber.Ctx) error {
	var req NamedItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, validation.Message(err))
	}

	brand := &models.ACBrand{Name: req.Name}
	if err := h.brandRepo.Create(c.Context(), brand); err != nil {
		return response.Conflict(c, "AC brand already exists")
	}
	return response.Created(c, "AC brand created successfully", fiber.Map{
		"brand": brand,
	})
}

// UpdateACBrand updates an AC brand
// @Summary Update AC brand
// @Tags Master Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Brand ID"
// @Param body body NamedItemRequest true "Brand data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/ac-brands/{id} [put]
func (h *MasterHandler) UpdateACBrand(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid brand ID")
	}

	var req NamedItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, validation.Message(err))
	}

	brand, err := h.brandRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "AC brand not found")
	}

	brand.Name = req.Name
	if err := h.brandRepo.Update(c.Context(), brand); err != nil {
		return response.InternalServerError(c, "Failed to update AC brand")
	}
	return response.Success(c, "AC brand updated successfully", fiber.Map{
		"brand": brand,
	})
}

// DeleteACBrand deletes an AC brand
// @Summary Delete AC brand
// @Tags Master Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Brand ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/ac-brands/{id} [delete]
func (h *MasterHandler) DeleteACBrand(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid brand ID")
	}
	if err := h.brandRepo.Delete(c.Context(), uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to delete AC brand")
	}
	return response.Success(c, "AC brand deleted successfully", nil)
}

// ListACTypes lists AC types
// @Summary List AC types
// @Tags Master Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /master/ac-types [get]
func (h *MasterHandler) ListACTypes(c *fiber.Ctx) error {
	types, err := h.typeRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch AC types")
	}
	return response.Success(c, "AC types retrieved successfully", fiber.Map{
		"types": types,
	})
}

// CreateACType creates an AC type
// @Summary Create AC type
// @Tags Master Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body NamedItemRequest true "Type data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /master/ac-types [post]
func (h *MasterHandler) CreateACType(c *fiber.Ctx) error {
	var req NamedItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, validation.Message(err))
	}

	acType := &models.ACType{Name: req.Name}
	if err := h.typeRepo.Create(c.Context(), acType); err != nil {
		return response.Conflict(c, "AC type already exists")
	}
	return response.Created(c, "AC type created successfully", fiber.Map{
		"type": acType,
	})
}

// UpdateACType updates an AC type
// @Summary Update AC type
// @Tags Master Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Type ID"
// @Param body body NamedItemRequest true "Type data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/ac-types/{id} [put]
func (h *MasterHandler) UpdateACType(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid type ID")
	}

	var req NamedItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, validation.Message(err))
	}

	acType, err := h.typeRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "AC type not found")
	}

	acType.Name = req.Name
	if err := h.typeRepo.Update(c.Context(), acType); err != nil {
		return response.InternalServerError(c, "Failed to update AC type")
	}
	return response.Success(c, "AC type updated successfully", fiber.Map{
		"type": acType,
	})
}

// DeleteACType deletes an AC type
// @Summary Delete AC type
// @Tags Master Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Type ID"
// @Success 200 {object} response.Response
// @Router /master/ac-types/{id} [delete]
func (h *MasterHandler) DeleteACType(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid type ID")
	}
	if err := h.typeRepo.Delete(c.Context(), uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to delete AC type")
	}
	return response.Success(c, "AC type deleted successfully", nil)
}

// LabelItemRequest is the body for capacity label rows
type LabelItemRequest struct {
	Label string `json:"label" validate:"required,max=50"`
}

// ListACPks lists AC capacity labels
// @Summary List AC capacities
// @Tags Master Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /master/ac-pks [get]
func (h *MasterHandler) ListACPks(c *fiber.Ctx) error {
	pks, err := h.pkRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch AC capacities")
	}
	return response.Success(c, "AC capacities retrieved successfully", fiber.Map{
		"pks": pks,
	})
}

// CreateACPk creates a capacity label
// @Summary Create AC capacity
// @Tags Master Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LabelItemRequest true "Capacity data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /master/ac-pks [post]
func (h *MasterHandler) CreateACPk(c *fiber.Ctx) error {
	var req LabelItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, validation.Message(err))
	}

	pk := &models.ACPk{Label: req.Label}
	if err := h.pkRepo.Create(c.Context(), pk); err != nil {
		return response.Conflict(c, "AC capacity already exists")
	}
	return response.Created(c, "AC capacity created successfully", fiber.Map{
		"pk": pk,
	})
}

// UpdateACPk updates a capacity label
// @Summary Update AC capacity
// @Tags Master Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Capacity ID"
// @Param body body LabelItemRequest true "Capacity data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/ac-pks/{id} [put]
func (h *MasterHandler) UpdateACPk(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid capacity ID")
	}

	var req LabelItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, validation.Message(err))
	}

	pk, err := h.pkRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "AC capacity not found")
	}

	pk.Label = req.Label
	if err := h.pkRepo.Update(c.Context(), pk); err != nil {
		return response.InternalServerError(c, "Failed to update AC capacity")
	}
	return response.Success(c, "AC capacity updated successfully", fiber.Map{
		"pk": pk,
	})
}

// DeleteACPk deletes a capacity label
// @Summary Delete AC capacity
// @Tags Master Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Capacity ID"
// @Success 200 {object} response.Response
// @Router /master/ac-pks/{id} [delete]
func (h *MasterHandler) DeleteACPk(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid capacity ID")
	}
	if err := h.pkRepo.Delete(c.Context(), uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to delete AC capacity")
	}
	return response.Success(c, "AC capacity deleted successfully", nil)
}

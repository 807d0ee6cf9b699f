package handlers

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"time"

	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/adapters/persistence/repositories"
	"coolcare-api/internal/core/domain"
	"coolcare-api/internal/core/services"
	"coolcare-api/internal/pkg/response"
	"coolcare-api/internal/pkg/validation"
	"coolcare-api/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// RequestHandler handles maintenance job endpoints
type RequestHandler struct {
	requestService *services.RequestService
	notifier       realtime.Notifier
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *services.RequestService, notifier realtime.Notifier) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		notifier:       notifier,
	}
}

// CreateRequest creates a maintenance job
// @Summary Create request
// @Description Create a maintenance job in pending state
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateRequestInput true "Request data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /requests [post]
func (h *RequestHandler) CreateRequest(c *fiber.Ctx) error {
	var input services.CreateRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, validation.Message(err))
	}

	userID, _ := c.Locals("userID").(string)
	input.CreatedBy = userID

	result, err := h.requestService.Create(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			return response.BadRequest(c, "Customer not found")
		case errors.Is(err, domain.ErrProjectNotFound):
			return response.BadRequest(c, "Project not found for this customer")
		default:
			return response.InternalServerError(c, "Failed to create request")
		}
	}

	return response.Created(c, "Request created successfully", fiber.Map{
		"request": result,
	})
}

// ListRequests lists maintenance jobs
// @Summary List requests
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param customer_id query int false "Filter by customer"
// @Param project_id query int false "Filter by project"
// @Param technician_id query string false "Filter by technician"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /requests [get]
func (h *RequestHandler) ListRequests(c *fiber.Ctx) error {
	customerID, _ := strconv.ParseUint(c.Query("customer_id", "0"), 10, 32)
	projectID, _ := strconv.ParseUint(c.Query("project_id", "0"), 10, 32)
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	filter := repositories.RequestFilter{
		Status:       c.Query("status"),
		CustomerID:   uint(customerID),
		ProjectID:    uint(projectID),
		TechnicianID: c.Query("technician_id"),
	}

	// Technicians only see their own assignments; customers only their own
	// submissions. Admin sees everything.
	role, _ := c.Locals("role").(string)
	userID, _ := c.Locals("userID").(string)
	switch role {
	case models.RoleTechnician:
		filter.TechnicianID = userID
	case models.RoleCustomer:
		filter.CreatedBy = userID
	}

	result, err := h.requestService.List(c.Context(), filter, page, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch requests")
	}

	return response.Success(c, "Requests retrieved successfully", result)
}

// GetRequest gets one maintenance job
// @Summary Get request
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /requests/{id} [get]
func (h *RequestHandler) GetRequest(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	result, err := h.requestService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return response.NotFound(c, "Request not found")
		}
		return response.InternalServerError(c, "Failed to fetch request")
	}

	return response.Success(c, "Request retrieved successfully", fiber.Map{
		"request": result,
	})
}

// UpdateRequest updates a maintenance job
// @Summary Update request
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body services.UpdateRequestInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /requests/{id} [put]
func (h *RequestHandler) UpdateRequest(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	var input services.UpdateRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.requestService.Update(c.Context(), uint(id), &input)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return response.NotFound(c, "Request not found")
		}
		return response.InternalServerError(c, "Failed to update request")
	}

	return response.Success(c, "Request updated successfully", fiber.Map{
		"request": result,
	})
}

// DeleteRequest deletes a maintenance job
// @Summary Delete request
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /requests/{id} [delete]
func (h *RequestHandler) DeleteRequest(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	if err := h.requestService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return response.NotFound(c, "Request not found")
		}
		return response.InternalServerError(c, "Failed to delete request")
	}

	return response.Success(c, "Request deleted successfully", nil)
}

// UploadPhoto attaches a job photo
// @Summary Upload request photo
// @Description Attach a photo to a job under a category (before, progress, after, serial-scan)
// @Tags Requests
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param category formData string true "Photo category"
// @Param photo formData file true "Photo file"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /requests/{id}/photos [post]
func (h *RequestHandler) UploadPhoto(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	category := c.FormValue("category")
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return response.BadRequest(c, "Photo file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Unable to read photo file")
	}
	defer file.Close()

	userID, _ := c.Locals("userID").(string)

	photo, err := h.requestService.AttachPhoto(c.Context(), uint(id), userID, category, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBadPhotoCategory):
			return response.BadRequest(c, "Invalid photo category")
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "Request not found")
		default:
			return response.InternalServerError(c, "Failed to upload photo")
		}
	}

	return response.Created(c, "Photo uploaded successfully", fiber.Map{
		"photo": photo,
	})
}

// WatchRequests streams change notifications for the requests table over SSE.
// Events carry only the table name; clients re-fetch the listing on each one.
// A heartbeat comment every 30s keeps proxies from closing the stream.
// @Summary Watch requests
// @Description Server-sent events stream of change notifications
// @Tags Requests
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "event stream"
// @Router /requests/watch [get]
func (h *RequestHandler) WatchRequests(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	notifier := h.notifier
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		changes := make(chan string, 8)
		unsubscribe := notifier.Subscribe("requests", func(table string) {
			select {
			case changes <- table:
			default:
				// Channel full means a refresh is already pending; the
				// client re-fetches everything anyway.
			}
		})
		defer unsubscribe()

		heartbeat := time.NewTicker(30 * time.Second)
		defer heartbeat.Stop()

		fmt.Fprint(w, "event: ready\ndata: {}\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case table := <-changes:
				fmt.Fprintf(w, "event: change\ndata: {\"table\":%q}\n\n", table)
			case <-heartbeat.C:
				fmt.Fprint(w, ": heartbeat\n\n")
			}
			if err := w.Flush(); err != nil {
				// Client went away.
				return
			}
		}
	}))

	return nil
}

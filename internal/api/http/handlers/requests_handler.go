package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/donor-connect/internal/api/dto"
	"github.com/spec-kit/donor-connect/internal/auth"
	"github.com/spec-kit/donor-connect/internal/domain"
	"github.com/spec-kit/donor-connect/internal/service"
	apperrors "github.com/spec-kit/donor-connect/pkg/util/errorutil"
)

// RequestsHandler exposes the blood request ledger and donation history.
type RequestsHandler struct {
	requests *service.RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requestService *service.RequestService) *RequestsHandler {
	return &RequestsHandler{requests: requestService}
}

// Create handles POST /requests.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.DonorID) == "" {
		return apperrors.NewValidationError("donor_id required", map[string]any{"field": "donor_id"})
	}

	request, err := h.requests.Create(c.Context(), principal.User, req.DonorID, req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRequestResponse(request)})
}

// List handles GET /requests: every request the caller participates in.
func (h *RequestsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	requests, err := h.requests.ListForUser(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponses(requests)})
}

// UpdateStatus handles PATCH /requests/:id/status.
func (h *RequestsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", map[string]any{"field": "status"})
	}

	request, err := h.requests.Transition(c.Context(), principal.User, c.Params("id"), domain.RequestStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(request)})
}

// ListDonations handles GET /donations: the caller's donation history.
func (h *RequestsHandler) ListDonations(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	donations, err := h.requests.ListDonationsForUser(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDonationResponses(donations)})
}

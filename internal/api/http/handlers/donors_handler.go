package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/donor-connect/internal/api/dto"
	"github.com/spec-kit/donor-connect/internal/auth"
	"github.com/spec-kit/donor-connect/internal/domain"
	"github.com/spec-kit/donor-connect/internal/repository"
	"github.com/spec-kit/donor-connect/internal/service"
	apperrors "github.com/spec-kit/donor-connect/pkg/util/errorutil"
)

// DonorsHandler exposes donor search and the availability toggle.
type DonorsHandler struct {
	donors *service.DonorService
}

// NewDonorsHandler constructs handler.
func NewDonorsHandler(donorService *service.DonorService) *DonorsHandler {
	return &DonorsHandler{donors: donorService}
}

// Search handles GET /donors?bloodGroup=&location=.
func (h *DonorsHandler) Search(c *fiber.Ctx) error {
	var filter repository.DonorFilter
	if raw := c.Query("bloodGroup"); raw != "" {
		group := domain.BloodGroup(raw)
		filter.BloodGroup = &group
	}
	if raw := c.Query("location"); raw != "" {
		location := raw
		filter.Location = &location
	}

	donors, err := h.donors.SearchDonors(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(donors)})
}

// UpdateAvailability handles PATCH /users/:id/availability. Only the donor
// themselves may toggle their flag.
func (h *DonorsHandler) UpdateAvailability(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.User.ID != c.Params("id") {
		return apperrors.NewForbidden("donors can only change their own availability")
	}

	var req dto.AvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Available == nil {
		return apperrors.NewValidationError("available required", map[string]any{"field": "available"})
	}

	user, err := h.donors.UpdateAvailability(c.Context(), c.Params("id"), *req.Available)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

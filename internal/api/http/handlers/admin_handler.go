package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/donor-connect/internal/api/dto"
	"github.com/spec-kit/donor-connect/internal/auth"
	"github.com/spec-kit/donor-connect/internal/service"
	apperrors "github.com/spec-kit/donor-connect/pkg/util/errorutil"
)

// AdminHandler exposes directory review, donor verification and platform
// statistics for admins. Routes are guarded by RequireRole(ADMIN).
type AdminHandler struct {
	donors *service.DonorService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(donorService *service.DonorService) *AdminHandler {
	return &AdminHandler{donors: donorService}
}

// ListUsers handles GET /users: every donor and recipient, for review.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.donors.ListNonAdmin(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// VerifyDonor handles PATCH /users/:id/verify.
func (h *AdminHandler) VerifyDonor(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := h.donors.VerifyDonor(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.donors.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/donor-connect/internal/api/dto"
	"github.com/spec-kit/donor-connect/internal/domain"
	"github.com/spec-kit/donor-connect/internal/service"
	apperrors "github.com/spec-kit/donor-connect/pkg/util/errorutil"
)

// UsersHandler exposes registration and session endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.RegisterInput{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		Role:             domain.Role(req.Role),
		Location:         req.Location,
		LastDonationDate: req.LastDonationDate,
	}
	if req.BloodGroup != nil {
		group := domain.BloodGroup(*req.BloodGroup)
		input.BloodGroup = &group
	}

	user, token, exp, err := h.auth.Register(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /sessions.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

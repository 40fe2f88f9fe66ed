package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/donor-connect/internal/auth"
	"github.com/spec-kit/donor-connect/internal/config"
	"github.com/spec-kit/donor-connect/internal/domain"
	"github.com/spec-kit/donor-connect/internal/repository"
	apperrors "github.com/spec-kit/donor-connect/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// RegisterInput describes the registration payload.
type RegisterInput struct {
	Name             string
	Email            string
	Password         string
	Role             domain.Role
	Location         string
	BloodGroup       *domain.BloodGroup
	LastDonationDate *time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a new account. Verification and availability flags are
// derived from the role: recipients are trusted on registration, donors start
// unverified but available.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	if err := validateRegisterInput(&input); err != nil {
		return nil, "", time.Time{}, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", map[string]any{"field": "email"})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Name:             strings.TrimSpace(input.Name),
		Email:            strings.TrimSpace(input.Email),
		PasswordHash:     hash,
		Role:             input.Role,
		Location:         strings.TrimSpace(input.Location),
		BloodGroup:       input.BloodGroup,
		IsVerified:       input.Role == domain.RoleRecipient,
		IsAvailable:      input.Role == domain.RoleDonor,
		LastDonationDate: input.LastDonationDate,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates a user by case-insensitive email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

func validateRegisterInput(input *RegisterInput) error {
	missing := func(field string) error {
		return apperrors.NewValidationError(field+" required", map[string]any{"field": field})
	}
	if strings.TrimSpace(input.Name) == "" {
		return missing("name")
	}
	if strings.TrimSpace(input.Email) == "" {
		return missing("email")
	}
	if input.Password == "" {
		return missing("password")
	}
	if strings.TrimSpace(input.Location) == "" {
		return missing("location")
	}
	if !input.Role.Valid() {
		return apperrors.NewValidationError("role must be DONOR, RECIPIENT or ADMIN", map[string]any{"field": "role"})
	}

	switch input.Role {
	case domain.RoleAdmin:
		// admins carry no donor attributes
		input.BloodGroup = nil
		input.LastDonationDate = nil
	default:
		if input.BloodGroup == nil {
			return missing("blood_group")
		}
		if !input.BloodGroup.Valid() {
			return apperrors.NewValidationError("unknown blood group", map[string]any{"field": "blood_group"})
		}
	}
	return nil
}

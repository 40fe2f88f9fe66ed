package dto

import (
	"time"

	"github.com/spec-kit/donor-connect/internal/domain"
)

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Password         string     `json:"password"`
	Role             string     `json:"role"`
	Location         string     `json:"location"`
	BloodGroup       *string    `json:"blood_group"`
	LastDonationDate *time.Time `json:"last_donation_date"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AvailabilityRequest payload for the donor availability toggle.
type AvailabilityRequest struct {
	Available *bool `json:"available"`
}

// UserResponse is the public view of a directory record. Verification and
// availability only appear for donors, blood group only for non-admins.
type UserResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	Location         string     `json:"location"`
	BloodGroup       *string    `json:"blood_group,omitempty"`
	IsVerified       *bool      `json:"is_verified,omitempty"`
	IsAvailable      *bool      `json:"is_available,omitempty"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewUserResponse maps a domain user to its public view.
func NewUserResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		Role:             string(user.Role),
		Location:         user.Location,
		LastDonationDate: user.LastDonationDate,
		CreatedAt:        user.CreatedAt,
	}
	if user.BloodGroup != nil {
		group := string(*user.BloodGroup)
		resp.BloodGroup = &group
	}
	if user.Role == domain.RoleDonor {
		verified := user.IsVerified
		available := user.IsAvailable
		resp.IsVerified = &verified
		resp.IsAvailable = &available
	}
	return resp
}

// NewUserResponses maps a slice of domain users.
func NewUserResponses(users []domain.User) []UserResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, NewUserResponse(&users[i]))
	}
	return items
}

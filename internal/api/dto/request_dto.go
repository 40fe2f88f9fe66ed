package dto

import (
	"time"

	"github.com/spec-kit/donor-connect/internal/domain"
)

// CreateRequestRequest payload for a recipient asking a donor.
type CreateRequestRequest struct {
	DonorID string `json:"donor_id"`
	Message string `json:"message"`
}

// UpdateStatusRequest payload for a request transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// RequestResponse is the public view of a blood request.
type RequestResponse struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	DonorID     string    `json:"donor_id"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	RequestedAt time.Time `json:"requested_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRequestResponse maps a domain request to its public view.
func NewRequestResponse(request *domain.BloodRequest) RequestResponse {
	return RequestResponse{
		ID:          request.ID,
		RecipientID: request.RecipientID,
		DonorID:     request.DonorID,
		Status:      string(request.Status),
		Message:     request.Message,
		RequestedAt: request.RequestedAt,
		UpdatedAt:   request.UpdatedAt,
	}
}

// NewRequestResponses maps a slice of domain requests.
func NewRequestResponses(requests []domain.BloodRequest) []RequestResponse {
	items := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, NewRequestResponse(&requests[i]))
	}
	return items
}

// DonationResponse is the public view of a donation record.
type DonationResponse struct {
	ID           string    `json:"id"`
	DonorID      string    `json:"donor_id"`
	RecipientID  string    `json:"recipient_id"`
	RequestID    string    `json:"request_id"`
	DonationDate time.Time `json:"donation_date"`
	Feedback     *string   `json:"feedback,omitempty"`
}

// NewDonationResponses maps a slice of domain donations.
func NewDonationResponses(donations []domain.Donation) []DonationResponse {
	items := make([]DonationResponse, 0, len(donations))
	for i := range donations {
		items = append(items, DonationResponse{
			ID:           donations[i].ID,
			DonorID:      donations[i].DonorID,
			RecipientID:  donations[i].RecipientID,
			RequestID:    donations[i].RequestID,
			DonationDate: donations[i].DonationDate,
			Feedback:     donations[i].Feedback,
		})
	}
	return items
}

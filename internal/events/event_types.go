package events

import (
	"time"

	"github.com/spec-kit/donor-connect/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated       EventType = "request_created"
	EventRequestStatusChanged EventType = "request_status_changed"
	EventDonationRecorded     EventType = "donation_recorded"
	EventDonorVerified        EventType = "donor_verified"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	RequestID   string `json:"request_id"`
	DonorID     string `json:"donor_id"`
	RecipientID string `json:"recipient_id"`
	Message     string `json:"message,omitempty"`
}

// RequestStatusChangedPayload payload.
type RequestStatusChangedPayload struct {
	RequestID string               `json:"request_id"`
	OldStatus domain.RequestStatus `json:"old_status"`
	NewStatus domain.RequestStatus `json:"new_status"`
}

// DonationRecordedPayload payload.
type DonationRecordedPayload struct {
	DonationID  string `json:"donation_id"`
	RequestID   string `json:"request_id"`
	DonorID     string `json:"donor_id"`
	RecipientID string `json:"recipient_id"`
}

// DonorVerifiedPayload payload.
type DonorVerifiedPayload struct {
	DonorID string `json:"donor_id"`
}

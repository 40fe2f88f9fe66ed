package domain

import "time"

// RequestStatus enumerates lifecycle states for blood requests.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusAccepted  RequestStatus = "ACCEPTED"
	RequestStatusDeclined  RequestStatus = "DECLINED"
	RequestStatusCompleted RequestStatus = "COMPLETED"
)

// Valid reports whether the status is one of the known values.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusDeclined, RequestStatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from the status.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusDeclined || s == RequestStatusCompleted
}

// BloodRequest is a single ask from a recipient to a specific donor.
// Donor, recipient and message are fixed at creation; only the status moves,
// along the PENDING -> {ACCEPTED, DECLINED} -> COMPLETED lattice.
type BloodRequest struct {
	ID          string
	RecipientID string
	DonorID     string
	Status      RequestStatus
	Message     string
	RequestedAt time.Time
	UpdatedAt   time.Time
}

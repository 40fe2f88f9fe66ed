package domain

import "time"

// Donation records a completed transaction between a donor and a recipient.
// It is created exactly once, when a request transitions into COMPLETED, and
// never mutated afterwards.
type Donation struct {
	ID           string
	DonorID      string
	RecipientID  string
	RequestID    string
	DonationDate time.Time
	Feedback     *string
}

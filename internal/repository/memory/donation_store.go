package memory

import (
	"context"

	"github.com/spec-kit/donor-connect/internal/domain"
)

type donationStore struct {
	store *Store
}

func (r *donationStore) ListForUser(_ context.Context, userID string) ([]domain.Donation, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Donation
	for i := range s.donations {
		if s.donations[i].DonorID == userID || s.donations[i].RecipientID == userID {
			result = append(result, cloneDonation(&s.donations[i]))
		}
	}
	return result, nil
}

func (r *donationStore) CountAll(_ context.Context) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.donations)), nil
}

func cloneDonation(donation *domain.Donation) domain.Donation {
	copied := *donation
	if donation.Feedback != nil {
		feedback := *donation.Feedback
		copied.Feedback = &feedback
	}
	return copied
}

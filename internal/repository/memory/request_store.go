package memory

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/donor-connect/internal/domain"
)

type requestStore struct {
	store *Store
}

func (r *requestStore) Create(_ context.Context, request *domain.BloodRequest) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	request.ID = s.newID()
	request.RequestedAt = now
	request.UpdatedAt = now
	// newest first
	s.requests = append([]domain.BloodRequest{*request}, s.requests...)
	return nil
}

func (r *requestStore) GetByID(_ context.Context, id string) (*domain.BloodRequest, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.requests {
		if s.requests[i].ID == id {
			request := s.requests[i]
			return &request, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *requestStore) ListForUser(_ context.Context, userID string) ([]domain.BloodRequest, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.BloodRequest
	for i := range s.requests {
		if s.requests[i].DonorID == userID || s.requests[i].RecipientID == userID {
			result = append(result, s.requests[i])
		}
	}
	return result, nil
}

func (r *requestStore) UpdateStatus(_ context.Context, request *domain.BloodRequest) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateStatusLocked(request)
}

// Complete holds the write lock across the status write and the donation
// append so no intermediate state is ever observable.
func (r *requestStore) Complete(_ context.Context, request *domain.BloodRequest, donation *domain.Donation) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.updateStatusLocked(request); err != nil {
		return err
	}

	donation.ID = s.newID()
	donation.DonationDate = s.now()
	s.donations = append([]domain.Donation{*donation}, s.donations...)
	return nil
}

func (s *Store) updateStatusLocked(request *domain.BloodRequest) error {
	for i := range s.requests {
		if s.requests[i].ID == request.ID {
			s.requests[i].Status = request.Status
			s.requests[i].UpdatedAt = s.now()
			request.UpdatedAt = s.requests[i].UpdatedAt
			return nil
		}
	}
	return pgx.ErrNoRows
}

package memory

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/donor-connect/internal/domain"
	"github.com/spec-kit/donor-connect/internal/repository"
)

type userStore struct {
	store *Store
}

func (r *userStore) Create(_ context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	user.ID = s.newID()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users = append(s.users, cloneUser(user))
	return nil
}

func (r *userStore) Update(_ context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == user.ID {
			user.CreatedAt = s.users[i].CreatedAt
			user.UpdatedAt = s.now()
			s.users[i] = cloneUser(user)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *userStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].ID == id {
			user := cloneUser(&s.users[i])
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if strings.EqualFold(s.users[i].Email, email) {
			user := cloneUser(&s.users[i])
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userStore) SearchDonors(_ context.Context, filter repository.DonorFilter) ([]domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.User
	for i := range s.users {
		user := &s.users[i]
		if !user.IsSearchableDonor() {
			continue
		}
		if filter.BloodGroup != nil && (user.BloodGroup == nil || *user.BloodGroup != *filter.BloodGroup) {
			continue
		}
		if filter.Location != nil {
			needle := strings.ToLower(strings.TrimSpace(*filter.Location))
			if needle != "" && !strings.Contains(strings.ToLower(user.Location), needle) {
				continue
			}
		}
		result = append(result, cloneUser(user))
	}
	return result, nil
}

func (r *userStore) ListNonAdmin(_ context.Context) ([]domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.User
	for i := range s.users {
		if s.users[i].Role == domain.RoleAdmin {
			continue
		}
		result = append(result, cloneUser(&s.users[i]))
	}
	return result, nil
}

func cloneUser(user *domain.User) domain.User {
	copied := *user
	if user.BloodGroup != nil {
		group := *user.BloodGroup
		copied.BloodGroup = &group
	}
	if user.LastDonationDate != nil {
		date := *user.LastDonationDate
		copied.LastDonationDate = &date
	}
	return copied
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/donor-connect/internal/cache"
	"github.com/spec-kit/donor-connect/internal/domain"
	"github.com/spec-kit/donor-connect/internal/events"
	"github.com/spec-kit/donor-connect/internal/repository"
	apperrors "github.com/spec-kit/donor-connect/pkg/util/errorutil"
)

// DonorService covers donor search and the directory operations around it:
// admin review, donor verification and availability.
type DonorService struct {
	users       repository.UserRepository
	donations   repository.DonationRepository
	searchCache *cache.DonorCache
	dispatcher  events.Dispatcher
}

// PlatformStats summarizes the directory for the admin dashboard.
type PlatformStats struct {
	TotalUsers      int   `json:"total_users"`
	TotalDonors     int   `json:"total_donors"`
	TotalRecipients int   `json:"total_recipients"`
	TotalDonations  int64 `json:"total_donations"`
}

// NewDonorService constructs the service. searchCache may be nil.
func NewDonorService(users repository.UserRepository, donations repository.DonationRepository, searchCache *cache.DonorCache, dispatcher events.Dispatcher) *DonorService {
	return &DonorService{
		users:       users,
		donations:   donations,
		searchCache: searchCache,
		dispatcher:  dispatcher,
	}
}

// SearchDonors returns verified, available donors matching the filter.
// Blood group matches exactly, location as a case-insensitive substring; an
// empty filter returns all eligible donors, in stable insertion order.
func (s *DonorService) SearchDonors(ctx context.Context, filter repository.DonorFilter) ([]domain.User, error) {
	if filter.BloodGroup != nil && !filter.BloodGroup.Valid() {
		return nil, apperrors.NewValidationError("unknown blood group", map[string]any{"field": "bloodGroup"})
	}

	if donors, ok := s.searchCache.Get(ctx, filter); ok {
		return donors, nil
	}
	donors, err := s.users.SearchDonors(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.searchCache.Set(ctx, filter, donors)
	return donors, nil
}

// GetUser fetches a single directory record.
func (s *DonorService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}

// ListNonAdmin returns every donor and recipient for administrative review.
func (s *DonorService) ListNonAdmin(ctx context.Context) ([]domain.User, error) {
	return s.users.ListNonAdmin(ctx)
}

// VerifyDonor flips a donor's verification flag. Verifying an already
// verified donor is a no-op, not an error.
func (s *DonorService) VerifyDonor(ctx context.Context, actor *domain.User, donorID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, donorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("donor", map[string]any{"id": donorID})
		}
		return nil, err
	}
	if user.Role != domain.RoleDonor {
		return nil, apperrors.NewInvalidRole("only donors can be verified", map[string]any{"id": donorID, "role": string(user.Role)})
	}
	if user.IsVerified {
		return user, nil
	}

	user.IsVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.searchCache.Invalidate(ctx)
	s.publish(ctx, events.Event{
		Type:    events.EventDonorVerified,
		Actor:   events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload: events.DonorVerifiedPayload{DonorID: user.ID},
	})
	return user, nil
}

// UpdateAvailability toggles a donor's availability. Ownership (the caller
// must be that donor) is enforced at the HTTP boundary.
func (s *DonorService) UpdateAvailability(ctx context.Context, donorID string, available bool) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, donorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("donor", map[string]any{"id": donorID})
		}
		return nil, err
	}
	if user.Role != domain.RoleDonor {
		return nil, apperrors.NewInvalidRole("availability applies to donors only", map[string]any{"id": donorID, "role": string(user.Role)})
	}

	if user.IsAvailable != available {
		user.IsAvailable = available
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
		s.searchCache.Invalidate(ctx)
	}
	return user, nil
}

// Stats aggregates directory and donation counts.
func (s *DonorService) Stats(ctx context.Context) (*PlatformStats, error) {
	members, err := s.users.ListNonAdmin(ctx)
	if err != nil {
		return nil, err
	}
	donationCount, err := s.donations.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &PlatformStats{TotalUsers: len(members), TotalDonations: donationCount}
	for i := range members {
		switch members[i].Role {
		case domain.RoleDonor:
			stats.TotalDonors++
		case domain.RoleRecipient:
			stats.TotalRecipients++
		}
	}
	return stats, nil
}

func (s *DonorService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

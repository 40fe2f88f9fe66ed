package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/donor-connect/internal/domain"
	"github.com/spec-kit/donor-connect/internal/events"
	"github.com/spec-kit/donor-connect/internal/repository"
	apperrors "github.com/spec-kit/donor-connect/pkg/util/errorutil"
)

// RequestService owns the blood request ledger: creation, per-user listing
// and the status transition lattice, including the donation record appended
// when a request completes.
type RequestService struct {
	requests   repository.RequestRepository
	donations  repository.DonationRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewRequestService constructs the service.
func NewRequestService(requests repository.RequestRepository, donations repository.DonationRepository, users repository.UserRepository, dispatcher events.Dispatcher) *RequestService {
	return &RequestService{
		requests:   requests,
		donations:  donations,
		users:      users,
		dispatcher: dispatcher,
	}
}

// allowedTransitions is the full lattice: PENDING is the sole initial state,
// DECLINED and COMPLETED are terminal.
var allowedTransitions = map[domain.RequestStatus][]domain.RequestStatus{
	domain.RequestStatusPending:   {domain.RequestStatusAccepted, domain.RequestStatusDeclined},
	domain.RequestStatusAccepted:  {domain.RequestStatusCompleted},
	domain.RequestStatusDeclined:  {},
	domain.RequestStatusCompleted: {},
}

func isValidTransition(current, next domain.RequestStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Create opens a PENDING request from a recipient to a specific donor.
func (s *RequestService) Create(ctx context.Context, recipient *domain.User, donorID, message string) (*domain.BloodRequest, error) {
	if recipient.Role != domain.RoleRecipient {
		return nil, apperrors.NewInvalidRole("only recipients can send blood requests", map[string]any{"role": string(recipient.Role)})
	}

	donor, err := s.users.GetByID(ctx, donorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("donor", map[string]any{"id": donorID})
		}
		return nil, err
	}
	if donor.Role != domain.RoleDonor {
		return nil, apperrors.NewInvalidRole("request target must be a donor", map[string]any{"id": donorID, "role": string(donor.Role)})
	}

	request := &domain.BloodRequest{
		RecipientID: recipient.ID,
		DonorID:     donor.ID,
		Status:      domain.RequestStatusPending,
		Message:     strings.TrimSpace(message),
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:  events.EventRequestCreated,
		Actor: events.Actor{UserID: recipient.ID, Role: recipient.Role},
		Payload: events.RequestCreatedPayload{
			RequestID:   request.ID,
			DonorID:     request.DonorID,
			RecipientID: request.RecipientID,
			Message:     request.Message,
		},
	})
	return request, nil
}

// ListForUser returns every request the user participates in, newest first.
func (s *RequestService) ListForUser(ctx context.Context, userID string) ([]domain.BloodRequest, error) {
	return s.requests.ListForUser(ctx, userID)
}

// ListDonationsForUser returns the user's donation history, newest first.
func (s *RequestService) ListDonationsForUser(ctx context.Context, userID string) ([]domain.Donation, error) {
	return s.donations.ListForUser(ctx, userID)
}

// Transition moves a request along the lattice. The donor answers PENDING
// requests (ACCEPTED or DECLINED); the recipient completes ACCEPTED ones.
// Completing atomically appends the donation record.
func (s *RequestService) Transition(ctx context.Context, actor *domain.User, requestID string, next domain.RequestStatus) (*domain.BloodRequest, error) {
	if !next.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"field": "status"})
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("request", map[string]any{"id": requestID})
		}
		return nil, err
	}

	if err := s.authorizeTransition(actor, request, next); err != nil {
		return nil, err
	}
	if !isValidTransition(request.Status, next) {
		return nil, apperrors.NewInvalidTransition(string(request.Status), string(next))
	}

	oldStatus := request.Status
	request.Status = next

	if next == domain.RequestStatusCompleted {
		donation := &domain.Donation{
			DonorID:     request.DonorID,
			RecipientID: request.RecipientID,
			RequestID:   request.ID,
		}
		if err := s.requests.Complete(ctx, request, donation); err != nil {
			return nil, err
		}
		s.publish(ctx, events.Event{
			Type:  events.EventDonationRecorded,
			Actor: events.Actor{UserID: actor.ID, Role: actor.Role},
			Payload: events.DonationRecordedPayload{
				DonationID:  donation.ID,
				RequestID:   request.ID,
				DonorID:     donation.DonorID,
				RecipientID: donation.RecipientID,
			},
		})
	} else {
		if err := s.requests.UpdateStatus(ctx, request); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.Event{
		Type:  events.EventRequestStatusChanged,
		Actor: events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload: events.RequestStatusChangedPayload{
			RequestID: request.ID,
			OldStatus: oldStatus,
			NewStatus: request.Status,
		},
	})
	return request, nil
}

func (s *RequestService) authorizeTransition(actor *domain.User, request *domain.BloodRequest, next domain.RequestStatus) error {
	switch next {
	case domain.RequestStatusAccepted, domain.RequestStatusDeclined:
		if actor.ID != request.DonorID {
			return apperrors.NewForbidden("only the requested donor can answer a request")
		}
	case domain.RequestStatusCompleted:
		if actor.ID != request.RecipientID {
			return apperrors.NewForbidden("only the requesting recipient can complete a request")
		}
	default:
		// PENDING is never a transition target; let the lattice reject it.
	}
	return nil
}

func (s *RequestService) publish(ctx context.Context, event events.Event) {
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

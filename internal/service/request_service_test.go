package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/donor-connect/internal/domain"
	"github.com/spec-kit/donor-connect/internal/repository/memory"
	apperrors "github.com/spec-kit/donor-connect/pkg/util/errorutil"
)

func seedUser(t *testing.T, store *memory.Store, role domain.Role, email string) *domain.User {
	t.Helper()
	group := domain.BloodGroupOPositive
	user := &domain.User{
		Name:        "User " + email,
		Email:       email,
		Role:        role,
		Location:    "New York, NY",
		IsVerified:  role != domain.RoleDonor,
		IsAvailable: role == domain.RoleDonor,
	}
	if role != domain.RoleAdmin {
		user.BloodGroup = &group
	}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func newRequestFixture(t *testing.T) (*RequestService, *memory.Store, *domain.User, *domain.User) {
	t.Helper()
	store := memory.NewStore()
	svc := NewRequestService(store.Requests(), store.Donations(), store.Users(), nil)
	donor := seedUser(t, store, domain.RoleDonor, "donor@example.com")
	recipient := seedUser(t, store, domain.RoleRecipient, "recipient@example.com")
	return svc, store, donor, recipient
}

func TestRequestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a pending request", func(t *testing.T) {
		svc, _, donor, recipient := newRequestFixture(t)

		request, err := svc.Create(ctx, recipient, donor.ID, "urgent need for O+ blood")
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusPending, request.Status)
		assert.Equal(t, donor.ID, request.DonorID)
		assert.Equal(t, recipient.ID, request.RecipientID)
		assert.NotEmpty(t, request.ID)
		assert.False(t, request.RequestedAt.IsZero())
	})

	t.Run("rejects a non-recipient sender", func(t *testing.T) {
		svc, _, donor, _ := newRequestFixture(t)

		_, err := svc.Create(ctx, donor, donor.ID, "hi")
		assertErrorCode(t, err, "INVALID_ROLE")
	})

	t.Run("rejects a non-donor target", func(t *testing.T) {
		svc, store, _, recipient := newRequestFixture(t)
		other := seedUser(t, store, domain.RoleRecipient, "other@example.com")

		_, err := svc.Create(ctx, recipient, other.ID, "hi")
		assertErrorCode(t, err, "INVALID_ROLE")
	})

	t.Run("reports an unknown donor", func(t *testing.T) {
		svc, _, _, recipient := newRequestFixture(t)

		_, err := svc.Create(ctx, recipient, "missing-id", "hi")
		assertErrorCode(t, err, "NOT_FOUND")
	})

	t.Run("lists newest first", func(t *testing.T) {
		svc, _, donor, recipient := newRequestFixture(t)

		first, err := svc.Create(ctx, recipient, donor.ID, "first")
		require.NoError(t, err)
		second, err := svc.Create(ctx, recipient, donor.ID, "second")
		require.NoError(t, err)

		listed, err := svc.ListForUser(ctx, donor.ID)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, second.ID, listed[0].ID)
		assert.Equal(t, first.ID, listed[1].ID)
	})
}

// requestAt moves a fresh request into the wanted status via permitted edges.
func requestAt(t *testing.T, svc *RequestService, donor, recipient *domain.User, status domain.RequestStatus) *domain.BloodRequest {
	t.Helper()
	ctx := context.Background()
	request, err := svc.Create(ctx, recipient, donor.ID, "fixture")
	require.NoError(t, err)

	switch status {
	case domain.RequestStatusPending:
	case domain.RequestStatusAccepted:
		request, err = svc.Transition(ctx, donor, request.ID, domain.RequestStatusAccepted)
		require.NoError(t, err)
	case domain.RequestStatusDeclined:
		request, err = svc.Transition(ctx, donor, request.ID, domain.RequestStatusDeclined)
		require.NoError(t, err)
	case domain.RequestStatusCompleted:
		request, err = svc.Transition(ctx, donor, request.ID, domain.RequestStatusAccepted)
		require.NoError(t, err)
		request, err = svc.Transition(ctx, recipient, request.ID, domain.RequestStatusCompleted)
		require.NoError(t, err)
	}
	return request
}

func TestRequestService_TransitionLattice(t *testing.T) {
	ctx := context.Background()
	statuses := []domain.RequestStatus{
		domain.RequestStatusPending,
		domain.RequestStatusAccepted,
		domain.RequestStatusDeclined,
		domain.RequestStatusCompleted,
	}
	permitted := map[[2]domain.RequestStatus]bool{
		{domain.RequestStatusPending, domain.RequestStatusAccepted}:   true,
		{domain.RequestStatusPending, domain.RequestStatusDeclined}:   true,
		{domain.RequestStatusAccepted, domain.RequestStatusCompleted}: true,
	}

	for _, current := range statuses {
		for _, next := range statuses {
			current, next := current, next
			t.Run(string(current)+"_to_"+string(next), func(t *testing.T) {
				svc, _, donor, recipient := newRequestFixture(t)
				request := requestAt(t, svc, donor, recipient, current)

				actor := donor
				if next == domain.RequestStatusCompleted {
					actor = recipient
				}
				updated, err := svc.Transition(ctx, actor, request.ID, next)

				if permitted[[2]domain.RequestStatus{current, next}] {
					require.NoError(t, err)
					assert.Equal(t, next, updated.Status)
				} else {
					assertErrorCode(t, err, "INVALID_TRANSITION")

					unchanged, getErr := svc.requests.GetByID(ctx, request.ID)
					require.NoError(t, getErr)
					assert.Equal(t, current, unchanged.Status)
				}
			})
		}
	}
}

func TestRequestService_TransitionNotFound(t *testing.T) {
	svc, _, donor, _ := newRequestFixture(t)

	_, err := svc.Transition(context.Background(), donor, "missing-id", domain.RequestStatusAccepted)
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestRequestService_TransitionUnknownStatus(t *testing.T) {
	svc, _, donor, recipient := newRequestFixture(t)
	request := requestAt(t, svc, donor, recipient, domain.RequestStatusPending)

	_, err := svc.Transition(context.Background(), donor, request.ID, domain.RequestStatus("SHIPPED"))
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestRequestService_TransitionAuthorization(t *testing.T) {
	ctx := context.Background()

	t.Run("only the requested donor answers", func(t *testing.T) {
		svc, store, donor, recipient := newRequestFixture(t)
		request := requestAt(t, svc, donor, recipient, domain.RequestStatusPending)
		stranger := seedUser(t, store, domain.RoleDonor, "stranger@example.com")

		_, err := svc.Transition(ctx, stranger, request.ID, domain.RequestStatusAccepted)
		assertErrorCode(t, err, "FORBIDDEN")

		_, err = svc.Transition(ctx, recipient, request.ID, domain.RequestStatusDeclined)
		assertErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("only the requesting recipient completes", func(t *testing.T) {
		svc, _, donor, recipient := newRequestFixture(t)
		request := requestAt(t, svc, donor, recipient, domain.RequestStatusAccepted)

		_, err := svc.Transition(ctx, donor, request.ID, domain.RequestStatusCompleted)
		assertErrorCode(t, err, "FORBIDDEN")
	})
}

func TestRequestService_CompletionAppendsDonation(t *testing.T) {
	ctx := context.Background()
	svc, store, donor, recipient := newRequestFixture(t)

	request := requestAt(t, svc, donor, recipient, domain.RequestStatusAccepted)

	before, err := store.Donations().CountAll(ctx)
	require.NoError(t, err)

	completed, err := svc.Transition(ctx, recipient, request.ID, domain.RequestStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusCompleted, completed.Status)

	after, err := store.Donations().CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	donations, err := svc.ListDonationsForUser(ctx, donor.ID)
	require.NoError(t, err)
	require.Len(t, donations, 1)
	assert.Equal(t, donor.ID, donations[0].DonorID)
	assert.Equal(t, recipient.ID, donations[0].RecipientID)
	assert.Equal(t, request.ID, donations[0].RequestID)
	assert.False(t, donations[0].DonationDate.IsZero())
}

func TestRequestService_DeclineAfterCompleteLeavesRequestUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, store, donor, recipient := newRequestFixture(t)

	request := requestAt(t, svc, donor, recipient, domain.RequestStatusCompleted)

	_, err := svc.Transition(ctx, donor, request.ID, domain.RequestStatusDeclined)
	assertErrorCode(t, err, "INVALID_TRANSITION")

	unchanged, err := store.Requests().GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusCompleted, unchanged.Status)

	count, err := store.Donations().CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRequestService_EndToEndScenario(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	requestSvc := NewRequestService(store.Requests(), store.Donations(), store.Users(), nil)
	donorSvc := NewDonorService(store.Users(), store.Donations(), nil, nil)

	donor := seedUser(t, store, domain.RoleDonor, "john.d@example.com")
	recipient := seedUser(t, store, domain.RoleRecipient, "rick@example.com")

	admin := seedUser(t, store, domain.RoleAdmin, "admin@example.com")
	verified, err := donorSvc.VerifyDonor(ctx, admin, donor.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)

	request, err := requestSvc.Create(ctx, recipient, donor.ID, "urgent need for O+ blood for surgery")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusPending, request.Status)

	accepted, err := requestSvc.Transition(ctx, donor, request.ID, domain.RequestStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusAccepted, accepted.Status)

	completed, err := requestSvc.Transition(ctx, recipient, request.ID, domain.RequestStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusCompleted, completed.Status)

	donations, err := requestSvc.ListDonationsForUser(ctx, recipient.ID)
	require.NoError(t, err)
	require.Len(t, donations, 1)
	assert.Equal(t, donor.ID, donations[0].DonorID)
	assert.Equal(t, recipient.ID, donations[0].RecipientID)
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, code, domainErr.Code)
}

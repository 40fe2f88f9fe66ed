package memory

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/donor-connect/internal/domain"
)

func addUser(t *testing.T, store *Store, role domain.Role, email string) *domain.User {
	t.Helper()
	group := domain.BloodGroupAPositive
	user := &domain.User{
		Name:        "User " + email,
		Email:       email,
		Role:        role,
		Location:    "Chicago, IL",
		IsVerified:  role == domain.RoleRecipient,
		IsAvailable: role == domain.RoleDonor,
	}
	if role != domain.RoleAdmin {
		user.BloodGroup = &group
	}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns ids and timestamps on create", func(t *testing.T) {
		store := NewStore()
		user := addUser(t, store, domain.RoleDonor, "a@example.com")
		assert.NotEmpty(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("email lookup ignores case", func(t *testing.T) {
		store := NewStore()
		created := addUser(t, store, domain.RoleDonor, "Mixed.Case@Example.com")

		found, err := store.Users().GetByEmail(ctx, "mixed.case@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("unknown ids map to pgx.ErrNoRows", func(t *testing.T) {
		store := NewStore()
		_, err := store.Users().GetByID(ctx, "missing")
		assert.ErrorIs(t, err, pgx.ErrNoRows)

		_, err = store.Users().GetByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, pgx.ErrNoRows)

		err = store.Users().Update(ctx, &domain.User{ID: "missing"})
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		store := NewStore()
		created := addUser(t, store, domain.RoleDonor, "a@example.com")

		loaded, err := store.Users().GetByID(ctx, created.ID)
		require.NoError(t, err)
		loaded.Name = "mutated"
		*loaded.BloodGroup = domain.BloodGroupONegative

		reloaded, err := store.Users().GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "User a@example.com", reloaded.Name)
		assert.Equal(t, domain.BloodGroupAPositive, *reloaded.BloodGroup)
	})

	t.Run("non-admin listing keeps insertion order", func(t *testing.T) {
		store := NewStore()
		first := addUser(t, store, domain.RoleDonor, "a@example.com")
		addUser(t, store, domain.RoleAdmin, "admin@example.com")
		second := addUser(t, store, domain.RoleRecipient, "b@example.com")

		listed, err := store.Users().ListNonAdmin(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, first.ID, listed[0].ID)
		assert.Equal(t, second.ID, listed[1].ID)
	})
}

func TestRequestStoreOrderingAndCompletion(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	donor := addUser(t, store, domain.RoleDonor, "donor@example.com")
	recipient := addUser(t, store, domain.RoleRecipient, "recipient@example.com")

	newRequest := func(message string) *domain.BloodRequest {
		request := &domain.BloodRequest{
			RecipientID: recipient.ID,
			DonorID:     donor.ID,
			Status:      domain.RequestStatusPending,
			Message:     message,
		}
		require.NoError(t, store.Requests().Create(ctx, request))
		return request
	}

	first := newRequest("first")
	second := newRequest("second")

	listed, err := store.Requests().ListForUser(ctx, donor.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, first.ID, listed[1].ID)

	// completion appends the donation in the same step
	first.Status = domain.RequestStatusCompleted
	donation := &domain.Donation{
		DonorID:     donor.ID,
		RecipientID: recipient.ID,
		RequestID:   first.ID,
	}
	require.NoError(t, store.Requests().Complete(ctx, first, donation))
	assert.NotEmpty(t, donation.ID)
	assert.False(t, donation.DonationDate.IsZero())

	stored, err := store.Requests().GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusCompleted, stored.Status)

	count, err := store.Donations().CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	donations, err := store.Donations().ListForUser(ctx, recipient.ID)
	require.NoError(t, err)
	require.Len(t, donations, 1)
	assert.Equal(t, first.ID, donations[0].RequestID)

	err = store.Requests().Complete(ctx, &domain.BloodRequest{ID: "missing"}, &domain.Donation{})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/donor-connect/internal/config"
	"github.com/spec-kit/donor-connect/internal/domain"
	"github.com/spec-kit/donor-connect/internal/repository/memory"
)

func newAuthFixture(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
	}, store.Users())
	return svc, store
}

func donorInput(email string) RegisterInput {
	group := domain.BloodGroupOPositive
	return RegisterInput{
		Name:       "John Doe",
		Email:      email,
		Password:   "hunter2hunter2",
		Role:       domain.RoleDonor,
		Location:   "New York, NY",
		BloodGroup: &group,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("donor starts unverified but available", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		user, token, exp, err := svc.Register(ctx, donorInput("john.d@example.com"))
		require.NoError(t, err)
		assert.False(t, user.IsVerified)
		assert.True(t, user.IsAvailable)
		assert.NotEmpty(t, user.ID)
		assert.NotEmpty(t, token)
		assert.False(t, exp.IsZero())
		assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	})

	t.Run("recipient is trusted on registration", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		input := donorInput("rick@example.com")
		input.Role = domain.RoleRecipient
		user, _, _, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.True(t, user.IsVerified)
		assert.False(t, user.IsAvailable)
	})

	t.Run("admin carries no donor attributes", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		input := donorInput("admin@example.com")
		input.Role = domain.RoleAdmin
		user, _, _, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.Nil(t, user.BloodGroup)
		assert.False(t, user.IsVerified)
		assert.False(t, user.IsAvailable)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		for _, mutate := range []func(*RegisterInput){
			func(in *RegisterInput) { in.Name = "" },
			func(in *RegisterInput) { in.Email = " " },
			func(in *RegisterInput) { in.Password = "" },
			func(in *RegisterInput) { in.Location = "" },
			func(in *RegisterInput) { in.Role = "STAFF" },
			func(in *RegisterInput) { in.BloodGroup = nil },
		} {
			input := donorInput("x@example.com")
			mutate(&input)
			_, _, _, err := svc.Register(ctx, input)
			require.Error(t, err)
			assertErrorCode(t, err, "VALIDATION_FAILED")
		}
	})

	t.Run("rejects duplicate email case-insensitively", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		_, _, _, err := svc.Register(ctx, donorInput("john.d@example.com"))
		require.NoError(t, err)

		_, _, _, err = svc.Register(ctx, donorInput("John.D@Example.COM"))
		assertErrorCode(t, err, "CONFLICT")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)

	_, _, _, err := svc.Register(ctx, donorInput("john.d@example.com"))
	require.NoError(t, err)

	t.Run("matches email case-insensitively", func(t *testing.T) {
		user, token, _, err := svc.Login(ctx, "JOHN.D@example.com", "hunter2hunter2")
		require.NoError(t, err)
		assert.Equal(t, "john.d@example.com", user.Email)
		assert.NotEmpty(t, token)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "john.d@example.com", "wrong")
		assertErrorCode(t, err, "UNAUTHORIZED")
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
		assertErrorCode(t, err, "UNAUTHORIZED")
	})
}

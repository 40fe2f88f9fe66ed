// Package memory provides mutex-guarded in-memory implementations of the
// repository interfaces. It backs the test suites and the DSN-less
// development mode; the Postgres repositories are the production path.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/donor-connect/internal/domain"
	"github.com/spec-kit/donor-connect/internal/repository"
)

// Store owns the three in-memory collections. Users keep insertion order;
// requests and donations keep newest-first order. All returned records are
// copies so callers never alias store-owned memory.
type Store struct {
	mu        sync.RWMutex
	users     []domain.User
	requests  []domain.BloodRequest
	donations []domain.Donation
	now       func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Users returns the directory view of the store.
func (s *Store) Users() repository.UserRepository {
	return &userStore{store: s}
}

// Requests returns the request ledger view of the store.
func (s *Store) Requests() repository.RequestRepository {
	return &requestStore{store: s}
}

// Donations returns the donation history view of the store.
func (s *Store) Donations() repository.DonationRepository {
	return &donationStore{store: s}
}

func (s *Store) newID() string {
	return uuid.NewString()
}

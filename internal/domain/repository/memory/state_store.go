package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uiineed/todo-service/internal/domain/errors"
)

// StateStore is an in-process anti-forgery nonce store for deployments
// without redis and for tests. Check-and-remove runs under one mutex, so of
// two concurrent Consume calls on the same nonce exactly one succeeds.
type StateStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewStateStore creates an in-memory state store with the given validity
// window.
func NewStateStore(ttl time.Duration) *StateStore {
	return &StateStore{
		entries: make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Issue generates a random nonce and records its issue time. Expired
// leftovers are swept on the same lock acquisition, so unconsumed nonces
// never accumulate past one validity window.
func (s *StateStore) Issue(_ context.Context) (string, error) {
	nonce := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.entries[nonce] = s.now()
	return nonce, nil
}

// Consume atomically checks existence and freshness and removes the entry.
func (s *StateStore) Consume(_ context.Context, nonce string) error {
	if nonce == "" {
		return errors.ErrStateInvalidOrConsumed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	issuedAt, ok := s.entries[nonce]
	if !ok {
		return errors.ErrStateInvalidOrConsumed
	}
	delete(s.entries, nonce)

	if s.now().Sub(issuedAt) > s.ttl {
		return errors.ErrStateInvalidOrConsumed
	}
	return nil
}

func (s *StateStore) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for nonce, issuedAt := range s.entries {
		if issuedAt.Before(cutoff) {
			delete(s.entries, nonce)
		}
	}
}

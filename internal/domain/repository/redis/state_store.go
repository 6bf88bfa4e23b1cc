package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/domain/errors"
)

const stateKeyPrefix = "auth:state:"

// StateStore keeps anti-forgery login nonces in redis. Expiry is enforced by
// the key TTL and single use by GETDEL, so concurrent consumers of the same
// nonce race on one atomic operation.
type StateStore struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewStateStore creates a redis-backed state store with the given validity
// window.
func NewStateStore(client *redis.Client, logger *zap.Logger, ttl time.Duration) *StateStore {
	return &StateStore{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Issue generates a random nonce and records it with the validity window.
func (s *StateStore) Issue(ctx context.Context) (string, error) {
	nonce := uuid.New().String()
	if err := s.client.Set(ctx, stateKeyPrefix+nonce, 1, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store login state: %w", err)
	}
	return nonce, nil
}

// Consume removes the nonce and succeeds only if it still existed. Expired
// nonces disappear on their own; replayed ones have already been deleted.
func (s *StateStore) Consume(ctx context.Context, nonce string) error {
	if nonce == "" {
		return errors.ErrStateInvalidOrConsumed
	}
	if err := s.client.GetDel(ctx, stateKeyPrefix+nonce).Err(); err != nil {
		if err == redis.Nil {
			return errors.ErrStateInvalidOrConsumed
		}
		s.logger.Error("failed to consume login state", zap.Error(err))
		return fmt.Errorf("failed to consume login state: %w", err)
	}
	return nil
}

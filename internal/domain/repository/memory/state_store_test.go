package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiineed/todo-service/internal/domain/errors"
)

func TestStateStore_IssueThenConsume(t *testing.T) {
	store := NewStateStore(10 * time.Minute)
	ctx := context.Background()

	nonce, err := store.Issue(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, nonce)

	require.NoError(t, store.Consume(ctx, nonce))
}

func TestStateStore_SecondConsumeFails(t *testing.T) {
	store := NewStateStore(10 * time.Minute)
	ctx := context.Background()

	nonce, err := store.Issue(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Consume(ctx, nonce))
	assert.ErrorIs(t, store.Consume(ctx, nonce), errors.ErrStateInvalidOrConsumed)
}

func TestStateStore_UnknownAndEmptyNonce(t *testing.T) {
	store := NewStateStore(10 * time.Minute)
	ctx := context.Background()

	assert.ErrorIs(t, store.Consume(ctx, "never-issued"), errors.ErrStateInvalidOrConsumed)
	assert.ErrorIs(t, store.Consume(ctx, ""), errors.ErrStateInvalidOrConsumed)
}

func TestStateStore_ExpiredNonceRejected(t *testing.T) {
	store := NewStateStore(10 * time.Minute)
	ctx := context.Background()

	nonce, err := store.Issue(ctx)
	require.NoError(t, err)

	// Jump the clock past the validity window.
	store.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	assert.ErrorIs(t, store.Consume(ctx, nonce), errors.ErrStateInvalidOrConsumed)
}

func TestStateStore_SweepDropsExpiredEntries(t *testing.T) {
	store := NewStateStore(10 * time.Minute)
	ctx := context.Background()

	stale, err := store.Issue(ctx)
	require.NoError(t, err)

	store.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	// Issuing sweeps; the stale entry must be gone afterwards.
	_, err = store.Issue(ctx)
	require.NoError(t, err)

	store.mu.Lock()
	_, ok := store.entries[stale]
	store.mu.Unlock()
	assert.False(t, ok, "expired nonce should have been swept")
}

func TestStateStore_ConcurrentConsumeExactlyOneWins(t *testing.T) {
	store := NewStateStore(10 * time.Minute)
	ctx := context.Background()

	nonce, err := store.Issue(ctx)
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results <- store.Consume(ctx, nonce)
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, errors.ErrStateInvalidOrConsumed)
		}
	}
	assert.Equal(t, 1, wins)
}

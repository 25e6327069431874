package api

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/gtm-studio/internal/observability"
)

func TestSessionStoreSweepsIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	store := NewSessionStore(&fakeGateway{}, 30*time.Minute, nil)
	store.now = func() time.Time { return now }

	stale, _ := store.Create()
	now = now.Add(20 * time.Minute)
	fresh, _ := store.Create()
	assert.Equal(t, float64(2), testutil.ToFloat64(observability.ActiveSessions))

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, store.Sweep())

	_, err := store.Get(stale)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(fresh)
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(observability.ActiveSessions))
}

func TestSessionStoreGetRefreshesLastSeen(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	store := NewSessionStore(&fakeGateway{}, 10*time.Minute, nil)
	store.now = func() time.Time { return now }

	id, _ := store.Create()
	now = now.Add(8 * time.Minute)
	_, err := store.Get(id)
	require.NoError(t, err)
	now = now.Add(8 * time.Minute)

	assert.Zero(t, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestSessionStoreZeroTTLNeverExpires(t *testing.T) {
	store := NewSessionStore(&fakeGateway{}, 0, nil)
	store.Create()
	assert.Zero(t, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestRunJanitorStopsOnCancel(t *testing.T) {
	store := NewSessionStore(&fakeGateway{}, time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- store.RunJanitor(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

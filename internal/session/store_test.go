// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/diary/internal/session"
)

// fakeSource serves sessions from a map and broadcasts through a real Bus.
type fakeSource struct {
	bus      *session.Bus
	mu       sync.Mutex
	sessions map[string]*session.Session
	err      error
}

func newFakeSource() *fakeSource {
	return &fakeSource{bus: session.NewBus(), sessions: make(map[string]*session.Session)}
}

func (source *fakeSource) GetSession(_ context.Context, id string) (*session.Session, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	if source.err != nil {
		return nil, source.err
	}
	return source.sessions[id], nil
}

func (source *fakeSource) OnAuthStateChange(handler func(session.Event)) func() {
	return source.bus.Subscribe(handler)
}

func sampleSession(id, userID string) *session.Session {
	return &session.Session{
		ID:       id,
		Identity: session.Identity{ID: userID, Email: userID + "@example.com"},
		Credentials: session.Credentials{
			AccessToken: "token-" + userID,
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
}

/*
TestStore_InitialStateIsLoading verifies the only transient state.
*/
func TestStore_InitialStateIsLoading(t *testing.T) {
	store := session.NewStore(newFakeSource(), "sid")

	assert.Equal(t, session.StatusLoading, store.State().Status())
	assert.Nil(t, store.Session())
}

/*
TestStore_Init resolves loading to authenticated or anonymous.
*/
func TestStore_Init(t *testing.T) {
	source := newFakeSource()
	source.sessions["sid"] = sampleSession("sid", "user-1")

	t.Run("authenticated", func(t *testing.T) {
		store := session.NewStore(source, "sid")
		defer store.Dispose()

		require.NoError(t, store.Init(context.Background()))
		state := store.State()
		assert.Equal(t, session.StatusAuthenticated, state.Status())
		require.NotNil(t, state.Identity)
		assert.Equal(t, "user-1", state.Identity.ID)
		assert.Equal(t, "token-user-1", store.Session().AccessToken())
	})

	t.Run("unknown_session_is_anonymous", func(t *testing.T) {
		store := session.NewStore(source, "other")
		defer store.Dispose()

		require.NoError(t, store.Init(context.Background()))
		assert.Equal(t, session.StatusAnonymous, store.State().Status())
	})

	t.Run("empty_id_is_anonymous", func(t *testing.T) {
		store := session.NewStore(source, "")
		defer store.Dispose()

		require.NoError(t, store.Init(context.Background()))
		assert.Equal(t, session.StatusAnonymous, store.State().Status())
	})
}

/*
TestStore_InitFailure leaves the store anonymous and reports the error.
*/
func TestStore_InitFailure(t *testing.T) {
	source := newFakeSource()
	source.err = errors.New("cache down")

	store := session.NewStore(source, "sid")
	defer store.Dispose()

	err := store.Init(context.Background())
	assert.Error(t, err)
	assert.Equal(t, session.StatusAnonymous, store.State().Status())
}

/*
TestStore_Transitions verifies authenticated <-> anonymous driven by events.
*/
func TestStore_Transitions(t *testing.T) {
	source := newFakeSource()
	store := session.NewStore(source, "sid")
	defer store.Dispose()
	require.NoError(t, store.Init(context.Background()))

	source.bus.Publish(session.Event{Kind: session.EventSignedIn, SessionID: "sid", Session: sampleSession("sid", "user-2")})
	assert.Eventually(t, func() bool {
		return store.State().Status() == session.StatusAuthenticated
	}, time.Second, 5*time.Millisecond)

	// Events for other sessions are ignored.
	source.bus.Publish(session.Event{Kind: session.EventSignedOut, SessionID: "someone-else"})

	source.bus.Publish(session.Event{Kind: session.EventSignedOut, SessionID: "sid"})
	assert.Eventually(t, func() bool {
		return store.State().Status() == session.StatusAnonymous
	}, time.Second, 5*time.Millisecond)
	assert.Nil(t, store.Session())
}

/*
TestStore_Watch notifies watchers with every new state.
*/
func TestStore_Watch(t *testing.T) {
	source := newFakeSource()
	store := session.NewStore(source, "sid")
	defer store.Dispose()

	var calls atomic.Int32
	cancel := store.Watch(func(session.State) { calls.Add(1) })
	defer cancel()

	require.NoError(t, store.Init(context.Background()))
	assert.Equal(t, int32(1), calls.Load())

	source.bus.Publish(session.Event{Kind: session.EventTokenRefreshed, SessionID: "sid", Session: sampleSession("sid", "user-3")})
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

/*
TestStore_Dispose unsubscribes from the bus and is idempotent.
*/
func TestStore_Dispose(t *testing.T) {
	source := newFakeSource()
	store := session.NewStore(source, "sid")
	require.NoError(t, store.Init(context.Background()))
	assert.Equal(t, 1, source.bus.Len())

	store.Dispose()
	store.Dispose()
	assert.Equal(t, 0, source.bus.Len())

	// Events after dispose no longer change the state.
	source.bus.Publish(session.Event{Kind: session.EventSignedIn, SessionID: "sid", Session: sampleSession("sid", "late")})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, session.StatusAnonymous, store.State().Status())

	disposed := session.NewStore(source, "sid")
	disposed.Dispose()
	assert.ErrorIs(t, disposed.Init(context.Background()), session.ErrDisposed)
}

/*
TestPreloaded serves a verified session only for its own id.
*/
func TestPreloaded(t *testing.T) {
	current := sampleSession("bearer:user-4", "user-4")
	source := session.Preloaded(current, nil)

	loaded, err := source.GetSession(context.Background(), "bearer:user-4")
	require.NoError(t, err)
	assert.Same(t, current, loaded)

	loaded, err = source.GetSession(context.Background(), "other")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	source.OnAuthStateChange(func(session.Event) {})()
}

/*
TestSession_Expired checks the refresh window computation.
*/
func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	current := &session.Session{Credentials: session.Credentials{ExpiresAt: now.Add(time.Minute)}}

	assert.False(t, current.Expired(now, 30*time.Second))
	assert.True(t, current.Expired(now, time.Minute))
	assert.False(t, (&session.Session{}).Expired(now, time.Minute))

	var missing *session.Session
	assert.Empty(t, missing.UserID())
	assert.Empty(t, missing.AccessToken())
}

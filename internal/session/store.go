// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"sync"
)

// ErrDisposed is returned by [Store.Init] after [Store.Dispose].
var ErrDisposed = errors.New("session: store disposed")

// Source is the contract a [Store] needs from the auth service.
type Source interface {
	// GetSession returns the persisted session for id, or nil when none exists.
	GetSession(ctx context.Context, id string) (*Session, error)

	// OnAuthStateChange subscribes to identity transitions.
	OnAuthStateChange(handler func(Event)) (unsubscribe func())
}

// Store is the state holder for one consumer (one request, one client).
//
// # Lifecycle
//
//  1. NewStore: state is loading.
//  2. Init: subscribes to auth events, loads the persisted session, and leaves
//     the loading state (authenticated or anonymous).
//  3. Events for this session id move the state between authenticated and
//     anonymous.
//  4. Dispose: unsubscribes. The last state remains readable.
type Store struct {
	source    Source
	sessionID string

	mu          sync.RWMutex
	state       State
	current     *Session
	initialized bool
	disposed    bool
	unsubscribe func()
	watchers    map[int]func(State)
	nextWatcher int
}

// NewStore creates a [Store] in the loading state for sessionID.
// An empty sessionID yields an anonymous store after Init.
func NewStore(source Source, sessionID string) *Store {
	return &Store{
		source:    source,
		sessionID: sessionID,
		state:     State{IsLoading: true},
		watchers:  make(map[int]func(State)),
	}
}

// Init loads the persisted session and subscribes to auth events.
//
// A load failure leaves the store anonymous and is returned to the caller
// for logging; the store stays usable.
func (store *Store) Init(ctx context.Context) error {
	store.mu.Lock()
	if store.disposed {
		store.mu.Unlock()
		return ErrDisposed
	}
	if store.initialized {
		store.mu.Unlock()
		return nil
	}
	store.initialized = true
	store.mu.Unlock()

	// Subscribe before loading so a sign-in racing with the load is not lost.
	unsubscribe := store.source.OnAuthStateChange(store.handle)

	var (
		loaded  *Session
		loadErr error
	)
	if store.sessionID != "" {
		loaded, loadErr = store.source.GetSession(ctx, store.sessionID)
	}

	store.mu.Lock()
	if store.disposed {
		store.mu.Unlock()
		unsubscribe()
		return ErrDisposed
	}
	store.unsubscribe = unsubscribe

	// An event may already have settled the state while loading.
	if store.state.IsLoading {
		if loadErr != nil {
			loaded = nil
		}
		store.setLocked(loaded)
	}
	state := store.state
	watchers := store.watcherListLocked()
	store.mu.Unlock()

	notify(watchers, state)
	return loadErr
}

// SessionID returns the opaque id this store tracks.
func (store *Store) SessionID() string {
	return store.sessionID
}

// State returns a snapshot of the observable state.
func (store *Store) State() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

// Session returns the current session with credentials, or nil when anonymous.
func (store *Store) Session() *Session {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.current
}

// Watch registers fn to be called with every state change.
func (store *Store) Watch(fn func(State)) (cancel func()) {
	store.mu.Lock()
	id := store.nextWatcher
	store.nextWatcher++
	store.watchers[id] = fn
	store.mu.Unlock()

	return func() {
		store.mu.Lock()
		delete(store.watchers, id)
		store.mu.Unlock()
	}
}

// Dispose unsubscribes from auth events. It is safe to call more than once.
func (store *Store) Dispose() {
	store.mu.Lock()
	if store.disposed {
		store.mu.Unlock()
		return
	}
	store.disposed = true
	unsubscribe := store.unsubscribe
	store.unsubscribe = nil
	store.watchers = make(map[int]func(State))
	store.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// handle applies an auth event addressed to this store's session id.
func (store *Store) handle(event Event) {
	if store.sessionID == "" || event.SessionID != store.sessionID {
		return
	}

	store.mu.Lock()
	if store.disposed {
		store.mu.Unlock()
		return
	}

	switch event.Kind {
	case EventSignedIn, EventTokenRefreshed:
		store.setLocked(event.Session)
	case EventSignedOut:
		store.setLocked(nil)
	default:
		store.mu.Unlock()
		return
	}

	state := store.state
	watchers := store.watcherListLocked()
	store.mu.Unlock()

	notify(watchers, state)
}

func (store *Store) setLocked(current *Session) {
	store.current = current
	store.state.IsLoading = false
	store.state.Identity = nil
	if current != nil {
		identity := current.Identity
		store.state.Identity = &identity
	}
}

func (store *Store) watcherListLocked() []func(State) {
	list := make([]func(State), 0, len(store.watchers))
	for _, fn := range store.watchers {
		list = append(list, fn)
	}
	return list
}

func notify(watchers []func(State), state State) {
	for _, fn := range watchers {
		fn(state)
	}
}

// # Preloaded Sources

// Preloaded returns a [Source] that serves an already verified session (for
// example one resolved from a bearer token) and delegates subscriptions.
func Preloaded(current *Session, events func(handler func(Event)) func()) Source {
	return preloadedSource{current: current, events: events}
}

type preloadedSource struct {
	current *Session
	events  func(handler func(Event)) func()
}

func (source preloadedSource) GetSession(_ context.Context, id string) (*Session, error) {
	if source.current == nil || source.current.ID != id {
		return nil, nil
	}
	return source.current, nil
}

func (source preloadedSource) OnAuthStateChange(handler func(Event)) func() {
	if source.events == nil {
		return func() {}
	}
	return source.events(handler)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/diary/internal/session"
)

// MemorySessionRepository keeps sessions in process memory. It is used when
// no Redis URL is configured, and in tests.
type MemorySessionRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	session   session.Session
	expiresAt time.Time
}

// NewMemorySessionRepository creates an empty in-memory [SessionRepository].
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Save stores a copy of sess until ttl elapses.
func (repository *MemorySessionRepository) Save(_ context.Context, sess *session.Session, ttl time.Duration) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.entries[sess.ID] = memoryEntry{session: *sess, expiresAt: repository.now().Add(ttl)}
	return nil
}

// Get returns a copy of the session, or nil when unknown or expired.
func (repository *MemorySessionRepository) Get(_ context.Context, id string) (*session.Session, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	entry, ok := repository.entries[id]
	if !ok {
		return nil, nil
	}
	if !repository.now().Before(entry.expiresAt) {
		delete(repository.entries, id)
		return nil, nil
	}

	sess := entry.session
	return &sess, nil
}

// Delete removes the session.
func (repository *MemorySessionRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.entries, id)
	return nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package supabasetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/diary/internal/platform/ctxutil"
	"github.com/taibuivan/diary/internal/session"
)

// User is a signed-in identity for service tests.
type User struct {
	ID    string
	Email string
}

// NewUser returns a user with a fresh id.
func NewUser(email string) User {
	return User{ID: uuid.NewString(), Email: email}
}

// Session returns a session carrying an access token the [Server] accepts.
func (user User) Session() *session.Session {
	token := IssueToken(user.ID, user.Email, time.Hour)
	return &session.Session{
		ID:       "test:" + user.ID,
		Identity: session.Identity{ID: user.ID, Email: user.Email},
		Credentials: session.Credentials{
			AccessToken: token,
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
}

// Context returns a context holding an initialised session store for the
// user, the way the session middleware prepares a request.
func (user User) Context(t testing.TB) context.Context {
	t.Helper()

	sess := user.Session()
	store := session.NewStore(session.Preloaded(sess, nil), sess.ID)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("supabasetest: init session store: %v", err)
	}
	t.Cleanup(store.Dispose)

	return ctxutil.WithSessionStore(context.Background(), store)
}

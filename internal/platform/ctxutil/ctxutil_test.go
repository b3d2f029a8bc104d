// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/diary/internal/platform/ctxutil"
	"github.com/taibuivan/diary/internal/session"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_SessionStore verifies that the request's session store travels in context.
*/
func TestContext_SessionStore(t *testing.T) {
	ctx := context.Background()

	// 1. Initially nothing is attached
	assert.Nil(t, ctxutil.GetSessionStore(ctx))
	assert.Nil(t, ctxutil.CurrentSession(ctx))

	// 2. Attach a store resolved from a preloaded session
	current := &session.Session{ID: "sid", Identity: session.Identity{ID: "user-123"}}
	store := session.NewStore(session.Preloaded(current, nil), "sid")
	require.NoError(t, store.Init(ctx))
	defer store.Dispose()

	ctx = ctxutil.WithSessionStore(ctx, store)
	assert.Same(t, store, ctxutil.GetSessionStore(ctx))
	assert.Equal(t, "user-123", ctxutil.CurrentSession(ctx).UserID())
}

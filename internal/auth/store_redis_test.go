// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/diary/internal/auth"
	"github.com/taibuivan/diary/internal/platform/redis"
	"github.com/taibuivan/diary/internal/session"
	"github.com/taibuivan/diary/pkg/uuid"
)

/*
TestRedisSessionRepository_RoundTrip runs against a real Redis when REDIS_URL is set.
*/
func TestRedisSessionRepository_RoundTrip(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := redis.NewClient(ctx, redisURL, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer client.Close()

	repository := auth.NewRedisSessionRepository(client)
	sess := &session.Session{
		ID:       uuid.New(),
		Identity: session.Identity{ID: "user-1", Email: "redis@example.com"},
		Credentials: session.Credentials{
			AccessToken:  "access",
			RefreshToken: "refresh",
			ExpiresAt:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		},
	}

	require.NoError(t, repository.Save(ctx, sess, time.Minute))

	loaded, err := repository.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, sess.Identity, loaded.Identity)
	assert.True(t, sess.Credentials.ExpiresAt.Equal(loaded.Credentials.ExpiresAt))

	require.NoError(t, repository.Delete(ctx, sess.ID))
	loaded, err = repository.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

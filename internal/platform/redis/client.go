// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the managed client behind the persisted session cache.

Sessions are stored with a TTL under an opaque id, so every API replica can
resolve a session cookie without a round trip to the remote platform. When
REDIS_URL is empty the server keeps sessions in process memory instead.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/diary/internal/platform/constants"
)

// Session lookups run once per request, so the pool mirrors the HTTP
// concurrency of a single replica rather than a worker fleet.
const (
	poolSize     = 16
	minIdleConns = 4
	dialTimeout  = 3 * time.Second
	ioTimeout    = 500 * time.Millisecond
	pingTimeout  = 2 * time.Second
)

// NewClient parses REDIS_URL and returns a client whose connectivity has
// been checked.
//
// # Parameters
//   - context: Bounds the initial ping.
//   - redisURL: redis:// or rediss:// URL.
//   - logger: Receives the connection event.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis_url_invalid: %w", err)
	}

	options.ClientName = constants.AppName
	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("session_cache_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
	)
	return client, nil
}

// Ping reports whether the session cache answers within [pingTimeout]. The
// readiness probe calls it on every check.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("session_cache_ping_failed: %w", err)
	}
	return nil
}

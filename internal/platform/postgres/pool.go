// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres connects directly to the platform's PostgreSQL database.
//
// # Architecture
//
// The API itself never talks to the database; it goes through the platform's
// REST and auth endpoints. This package serves the operator tooling
// (cmd/migrate), which applies the schema and then verifies that every
// relation the API reads is in place.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/diary/internal/platform/constants"
	"github.com/taibuivan/diary/internal/platform/database/schema"
)

// Pool settings for short-lived operator sessions.
const (
	maxConns        = 4
	maxConnLifetime = 10 * time.Minute
	connectTimeout  = 5 * time.Second
	pingTimeout     = 2 * time.Second
)

// Relations lists the tables and views the API depends on.
var Relations = []string{
	"public." + schema.DiaryProfile.Table,
	"public." + schema.DiaryPost.Table,
	"public." + schema.DiaryComment.Table,
	"public." + schema.DiaryPostWithAuthor.Table,
	"public." + schema.DiaryCommentWithAuthor.Table,
}

// NewPool creates and validates a new PostgreSQL connection pool.
//
// # Parameters
//   - ctx: Context for the initial connection attempt.
//   - dsn: A libpq-compatible connection string or postgres:// URL.
//   - logger: Structured logger for pool-level events.
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = maxConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	// Bound every statement by the API's own request timeout.
	poolConfig.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		timeoutQuery := fmt.Sprintf("SET statement_timeout = '%ds'", int(constants.GlobalRequestTimeout.Seconds()))
		_, err := connection.Exec(ctx, timeoutQuery)
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected", slog.Int("max_conns", int(pool.Stat().MaxConns())))
	return pool, nil
}

// Ping verifies that the PostgreSQL connection pool is healthy.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}

	return nil
}

// Querier is the subset of [pgxpool.Pool] the schema check needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MissingRelations returns the entries of [Relations] that do not resolve.
func MissingRelations(ctx context.Context, db Querier) ([]string, error) {
	var missing []string
	for _, relation := range Relations {
		var exists bool
		if err := db.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", relation).Scan(&exists); err != nil {
			return nil, fmt.Errorf("postgres: relation check %s failed: %w", relation, err)
		}
		if !exists {
			missing = append(missing, relation)
		}
	}
	return missing, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command migrate applies the diary schema to the platform's PostgreSQL
// database and verifies that every relation the API reads exists.
//
// # Usage
//
//	DATABASE_URL=postgres://... migrate [-direction up|down] [-verify-only]
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/taibuivan/diary/internal/platform/config"
	"github.com/taibuivan/diary/internal/platform/constants"
	"github.com/taibuivan/diary/internal/platform/migration"
	"github.com/taibuivan/diary/internal/platform/postgres"
)

func main() {
	direction := flag.String("direction", string(migration.Up), "migration direction: up or down")
	verifyOnly := flag.Bool("verify-only", false, "skip migrating and only check the schema")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", constants.AppName+"-migrate"))

	cfg, err := config.Load()
	must(log, err, "load configuration")
	if cfg.DatabaseURL == "" {
		log.Error("startup_failure", slog.String("context", "DATABASE_URL is not set"))
		os.Exit(1)
	}

	if !*verifyOnly {
		must(log, migration.Run(cfg.DatabaseURL, cfg.MigrationPath, migration.Direction(*direction), log), "run migrations")
	}

	if migration.Direction(*direction) == migration.Down && !*verifyOnly {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	missing, err := postgres.MissingRelations(ctx, pool)
	must(log, err, "verify schema")
	if len(missing) > 0 {
		log.Error("schema_incomplete", slog.Any("missing", missing))
		pool.Close()
		os.Exit(1)
	}

	log.Info("schema_verified", slog.Any("relations", postgres.Relations))
}

func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure", slog.String("context", context), slog.Any("error", err))
		os.Exit(1)
	}
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the diary HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Build the metrics registry and the remote platform client.
//  4. Connect to Redis for sessions (or keep them in memory).
//  5. Wire services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/taibuivan/diary/internal/api"
	"github.com/taibuivan/diary/internal/auth"
	"github.com/taibuivan/diary/internal/diary/comment"
	"github.com/taibuivan/diary/internal/diary/post"
	"github.com/taibuivan/diary/internal/diary/profile"
	"github.com/taibuivan/diary/internal/platform/config"
	"github.com/taibuivan/diary/internal/platform/constants"
	"github.com/taibuivan/diary/internal/platform/metrics"
	redisstore "github.com/taibuivan/diary/internal/platform/redis"
	"github.com/taibuivan/diary/internal/platform/sec"
	"github.com/taibuivan/diary/internal/platform/supabase"
	"github.com/taibuivan/diary/internal/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	if missing := cfg.MissingRemote(); len(missing) > 0 {
		log.Warn("remote_platform_not_configured",
			slog.Any("missing", missing),
			slog.String("effect", "every data and auth call fails with REMOTE_UNAVAILABLE"),
		)
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Metrics & Remote Platform ──────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	client := supabase.New(supabase.Config{
		URL:        cfg.SupabaseURL,
		AnonKey:    cfg.SupabaseAnonKey,
		HTTPClient: &http.Client{Timeout: constants.RemoteCallTimeout},
		Observer:   collector,
	})

	// ── 4. Session Storage ────────────────────────────────────────────────
	health := api.HealthDependencies{CheckRemote: client.Ping}

	var sessions auth.SessionRepository
	if cfg.RedisURL == "" {
		log.Warn("session_store_in_memory", slog.String("effect", "sessions are lost on restart"))
		sessions = auth.NewMemorySessionRepository()
	} else {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		sessions = auth.NewRedisSessionRepository(rdb)
		health.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	bus := session.NewBus()
	bus.OnDrop = func(event session.Event) {
		collector.RecordDroppedEvent()
		log.Warn("auth_event_dropped", slog.String("kind", string(event.Kind)))
	}

	// Without a JWT secret the verifier is disabled and bearer tokens are
	// resolved by the platform instead.
	verifier := sec.NewTokenVerifier(cfg.SupabaseJWTSecret, constants.TokenClockSkew)

	authService := auth.NewService(client, sessions, bus, verifier, collector, log)
	profileService := profile.NewService(profile.NewRemoteRepository(client), log)
	postService := post.NewService(post.NewRemoteRepository(client), log)
	commentService := comment.NewService(comment.NewRemoteRepository(client), log)

	liveness, readiness := api.NewHealthHandlers(health, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   collector.Handler(),
		Auth:      auth.NewHandler(authService, !cfg.IsDevelopment()),
		Profile:   profile.NewHandler(profileService),
		Post:      post.NewHandler(postService, commentService),
		Comment:   comment.NewHandler(commentService),
	}

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, authService, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

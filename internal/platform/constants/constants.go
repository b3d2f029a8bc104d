// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire service.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Session: Cookie naming and cache key prefixes.
  - Shared Messages: User-facing text used by more than one module.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "diary-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 12 * time.Second

	// RemoteCallTimeout bounds a single call to the remote platform.
	RemoteCallTimeout = 10 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Session

const (
	// SessionCookieName carries the opaque session id issued at sign-in.
	SessionCookieName = "diary_session"

	// SessionCookiePath scopes the session cookie to the API.
	SessionCookiePath = "/api/v1"

	// SessionTTL is how long a persisted session survives without activity.
	SessionTTL = 30 * 24 * time.Hour

	// AccessTokenLeeway refreshes access tokens slightly before they expire.
	AccessTokenLeeway = 30 * time.Second

	// TokenClockSkew is tolerated when verifying bearer tokens locally.
	TokenClockSkew = 5 * time.Second
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
)

// # Shared Messages

const (
	UnknownAuthorEmail      = "Unknown"
	MessageLoginRequired    = "로그인이 필요합니다"
	MessageSessionUnchecked = "로그인 상태를 확인할 수 없습니다"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession = "diary:session:"
)

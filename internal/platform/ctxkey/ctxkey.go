// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the context keys for per-request values. Only
// ctxutil reads or writes them.
package ctxkey

type key int

const (
	// KeyRequestID carries the X-Request-ID correlation value.
	KeyRequestID key = iota

	// KeySession carries the request's initialised session store.
	KeySession

	// KeyLogger carries the request-scoped logger.
	KeyLogger
)

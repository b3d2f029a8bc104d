// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/diary/internal/platform/apperr"
	"github.com/taibuivan/diary/internal/platform/constants"
	"github.com/taibuivan/diary/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/diary/internal/platform/request"
	"github.com/taibuivan/diary/internal/platform/respond"
	"github.com/taibuivan/diary/internal/session"
)

// SessionResolver defines what the session middleware needs from the auth service.
//
// # Why an interface?
//
// Defining SessionResolver here decouples the middleware from the `auth`
// service implementation, so tests can inject a fake.
type SessionResolver interface {
	session.Source

	// ResolveToken turns a bearer access token into a request-scoped session.
	ResolveToken(ctx context.Context, token string) (*session.Session, error)
}

// Session builds the request's [session.Store] and places it in the context.
//
// # Flow
//  1. A bearer token wins: it is resolved and served through a preloaded store.
//  2. Otherwise the session cookie's opaque id is loaded from the session cache.
//  3. Neither present: the store settles as anonymous.
//  4. The store is initialised before the handler runs and disposed after it.
//
// # Parameters
//   - resolver: The auth service.
//
// # Returns
//   - An [http.Handler] middleware.
func Session(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			// ── 1. Pick the Source ────────────────────────────────────────────
			var store *session.Store
			if token := requestutil.BearerToken(request); token != "" {
				resolved, err := resolver.ResolveToken(ctx, token)
				if err != nil {
					respond.Error(writer, request, err)
					return
				}
				store = session.NewStore(session.Preloaded(resolved, resolver.OnAuthStateChange), resolved.ID)
			} else {
				store = session.NewStore(resolver, requestutil.SessionID(request))
			}
			defer store.Dispose()

			// ── 2. Load ───────────────────────────────────────────────────────
			if err := store.Init(ctx); err != nil {
				ctxutil.GetLogger(ctx).WarnContext(ctx, "session_load_failed", slog.String("error", err.Error()))
				if apperr.HasCode(err, apperr.CodeRemoteUnavailable) {
					respond.Error(writer, request, err)
					return
				}
				respond.Error(writer, request, apperr.RemoteUnavailable(constants.MessageSessionUnchecked, err))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx = ctxutil.WithSessionStore(ctx, store)
			if current := store.Session(); current != nil {
				ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", current.UserID())))
			}

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests without a signed-in session.
//
// # Usage
//
// Must be registered in the router AFTER [Session]. Services check the
// session themselves too; this guard only rejects early.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.CurrentSession(request.Context()) == nil {
			respond.Error(writer, request, apperr.AuthRequired(constants.MessageLoginRequired))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

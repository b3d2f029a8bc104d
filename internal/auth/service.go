// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements sign-up, sign-in, sign-out and session resolution on
top of the remote platform's auth API.

Architecture:

  - Service: Orchestrates the platform calls, the session cache and auth events.
  - Repository: The session cache (Redis, or memory when Redis is not configured),
    keyed by an opaque session id the client holds in a cookie.
  - Events: Every identity transition is broadcast on a [session.Bus]; request
    scoped [session.Store]s subscribe to it through [Service.OnAuthStateChange].

Passwords never touch this service's storage; the platform owns credentials.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/diary/internal/platform/apperr"
	"github.com/taibuivan/diary/internal/platform/constants"
	"github.com/taibuivan/diary/internal/platform/dberr"
	"github.com/taibuivan/diary/internal/platform/sec"
	"github.com/taibuivan/diary/internal/platform/supabase"
	"github.com/taibuivan/diary/internal/session"
	"github.com/taibuivan/diary/pkg/uuid"
)

// # Contracts & Types

// Platform is the slice of the remote auth API the service needs.
type Platform interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (supabase.SignUpResult, error)
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.AuthSession, error)
	RefreshSession(ctx context.Context, refreshToken string) (*supabase.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
}

// EventRecorder counts broadcast auth events.
type EventRecorder interface {
	RecordAuthEvent(kind string)
}

// Service implements the authentication use cases.
type Service struct {
	platform  Platform
	sessions  SessionRepository
	bus       *session.Bus
	verifier  *sec.TokenVerifier
	recorder  EventRecorder
	logger    *slog.Logger
	refreshes singleflight.Group
	now       func() time.Time
}

// NewService constructs a new [Service]. verifier and recorder may be nil.
func NewService(
	platform Platform,
	sessions SessionRepository,
	bus *session.Bus,
	verifier *sec.TokenVerifier,
	recorder EventRecorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		platform: platform,
		sessions: sessions,
		bus:      bus,
		verifier: verifier,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// # Registration Flow

// SignUpInput holds the data required to create an account.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
}

/*
SignUp creates an account on the platform.

Description: When the platform issues a session right away, the session is
persisted and SIGNED_IN is broadcast. When the platform requires email
confirmation first, the result is marked pending and carries the
confirmation message instead of a session.

Parameters:
  - context: context.Context
  - input: SignUpInput

Returns:
  - *SignUpResult: Active or pending outcome
  - error: UNAUTHORIZED with the platform message, or REMOTE_UNAVAILABLE
*/
func (service *Service) SignUp(context context.Context, input SignUpInput) (*SignUpResult, error) {
	var metadata map[string]any
	if fullName := strings.TrimSpace(input.FullName); fullName != "" {
		metadata = map[string]any{"full_name": fullName}
	}

	result, err := service.platform.SignUp(context, input.Email, input.Password, metadata)
	if err != nil {
		return nil, authError(err)
	}

	if result.PendingConfirmation() {
		service.logger.InfoContext(context, "auth_sign_up_pending_confirmation", slog.String("user_id", result.User.ID))
		return &SignUpResult{
			PendingConfirmation: true,
			Message:             MessagePendingConfirmation,
			Identity:            identityFromUser(result.User),
		}, nil
	}

	established, err := service.establish(context, result.Session)
	if err != nil {
		return nil, err
	}

	return &SignUpResult{Identity: established.Identity, Session: established}, nil
}

// # Authentication Flow

/*
SignIn exchanges credentials for a persisted session.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *session.Session: The new session (ID is the opaque session id)
  - error: UNAUTHORIZED on invalid credentials, or REMOTE_UNAVAILABLE
*/
func (service *Service) SignIn(context context.Context, email, password string) (*session.Session, error) {
	issued, err := service.platform.SignInWithPassword(context, email, password)
	if err != nil {
		return nil, authError(err)
	}

	return service.establish(context, issued)
}

/*
SignOut ends a session. It is best effort and never fails.

Description: The platform is asked to revoke the tokens; a failure there is
logged and ignored. The cached session is always removed and SIGNED_OUT is
always broadcast.

Parameters:
  - context: context.Context
  - current: *session.Session (nil is a no-op)
*/
func (service *Service) SignOut(context context.Context, current *session.Session) {
	if current == nil {
		return
	}

	if token := current.AccessToken(); token != "" {
		if err := service.platform.SignOut(context, token); err != nil {
			service.logger.WarnContext(context, "auth_sign_out_failed",
				slog.String("user_id", current.UserID()),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := service.sessions.Delete(context, current.ID); err != nil {
		service.logger.WarnContext(context, "auth_session_delete_failed", slog.String("error", err.Error()))
	}

	service.publish(context, session.Event{Kind: session.EventSignedOut, SessionID: current.ID})
}

// # Session Management

/*
GetSession returns the persisted session for an opaque id without a platform
round trip, refreshing it once when the access token has expired.

Description: Concurrent callers for the same id share one refresh. A refresh
token the platform rejects ends the session (nil, nil).

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *session.Session: The session, or nil when unknown or ended
  - error: Cache failures or REMOTE_UNAVAILABLE during refresh
*/
func (service *Service) GetSession(context context.Context, id string) (*session.Session, error) {
	if id == "" {
		return nil, nil
	}

	current, err := service.sessions.Get(context, id)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_get_failed: %w", err)
	}
	if current == nil || !current.Expired(service.now(), constants.AccessTokenLeeway) {
		return current, nil
	}

	// The shared refresh outlives any one caller going away.
	refreshed, err, _ := service.refreshes.Do(id, func() (any, error) {
		refreshCtx, cancel := detached(context)
		defer cancel()
		return service.refresh(refreshCtx, current)
	})
	if err != nil {
		return nil, err
	}

	sess, _ := refreshed.(*session.Session)
	return sess, nil
}

// detached keeps parent's values but not its cancellation, under a fresh
// remote call deadline.
func detached(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), constants.RemoteCallTimeout)
}

func (service *Service) refresh(context context.Context, current *session.Session) (*session.Session, error) {
	if current.Credentials.RefreshToken == "" {
		_ = service.sessions.Delete(context, current.ID)
		return nil, nil
	}

	issued, err := service.platform.RefreshSession(context, current.Credentials.RefreshToken)
	if err != nil {
		if supabase.IsUnavailable(err) {
			return nil, apperr.RemoteUnavailable(dberr.MessageUnavailable, err)
		}

		// Revoked or reused refresh token: the session is over.
		service.logger.InfoContext(context, "auth_refresh_rejected",
			slog.String("user_id", current.UserID()),
			slog.String("error", supabase.Message(err)),
		)
		_ = service.sessions.Delete(context, current.ID)
		service.publish(context, session.Event{Kind: session.EventSignedOut, SessionID: current.ID})
		return nil, nil
	}

	refreshed := sessionFromPlatform(current.ID, issued, service.now())
	if err := service.sessions.Save(context, refreshed, constants.SessionTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_save_failed: %w", err)
	}

	service.publish(context, session.Event{Kind: session.EventTokenRefreshed, SessionID: refreshed.ID, Session: refreshed})
	return refreshed, nil
}

/*
ResolveToken turns a bearer access token into a request-scoped session.

Description: Verified locally when the platform's JWT secret is configured,
otherwise by asking the platform who the token belongs to.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *session.Session: Session carrying the token (not persisted)
  - error: UNAUTHORIZED for invalid tokens, REMOTE_UNAVAILABLE when the platform is down
*/
func (service *Service) ResolveToken(context context.Context, token string) (*session.Session, error) {
	if service.verifier.Enabled() {
		claims, err := service.verifier.Verify(token)
		if err != nil {
			return nil, apperr.Unauthorized(MessageInvalidSession).WithCause(err)
		}
		return sessionFromClaims(token, claims), nil
	}

	user, err := service.platform.GetUser(context, token)
	if err != nil {
		if supabase.IsUnavailable(err) {
			return nil, apperr.RemoteUnavailable(dberr.MessageUnavailable, err)
		}
		return nil, apperr.Unauthorized(MessageInvalidSession).WithCause(err)
	}

	// The platform vouched for the token; its claims are only read for the session id and expiry.
	resolved := &session.Session{
		ID:       "bearer:" + user.ID,
		Identity: identityFromUser(*user),
		Credentials: session.Credentials{
			AccessToken: token,
		},
	}
	if claims, err := sec.ReadClaims(token); err == nil {
		if claims.SessionID != "" {
			resolved.ID = claims.SessionID
		}
		resolved.Credentials.ExpiresAt = claims.Expiry()
	}

	return resolved, nil
}

/*
OnAuthStateChange subscribes handler to every identity transition.

Returns:
  - func(): Idempotent unsubscribe; must be called on teardown
*/
func (service *Service) OnAuthStateChange(handler func(session.Event)) func() {
	return service.bus.Subscribe(handler)
}

// # Internals

// establish persists a freshly issued platform session under a new opaque id.
func (service *Service) establish(context context.Context, issued *supabase.AuthSession) (*session.Session, error) {
	established := sessionFromPlatform(uuid.New(), issued, service.now())

	if err := service.sessions.Save(context, established, constants.SessionTTL); err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_session_save_failed: %w", err))
	}

	service.publish(context, session.Event{Kind: session.EventSignedIn, SessionID: established.ID, Session: established})
	return established, nil
}

func (service *Service) publish(context context.Context, event session.Event) {
	if service.recorder != nil {
		service.recorder.RecordAuthEvent(string(event.Kind))
	}

	service.logger.InfoContext(context, "auth_state_changed",
		slog.String("kind", string(event.Kind)),
		slog.String("user_id", event.Session.UserID()),
	)

	service.bus.Publish(event)
}

// authError maps a platform auth failure, keeping the platform's message verbatim.
func authError(err error) error {
	if supabase.IsUnavailable(err) {
		return apperr.RemoteUnavailable(dberr.MessageUnavailable, err)
	}
	return apperr.Unauthorized(supabase.Message(err)).WithCause(err)
}

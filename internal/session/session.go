// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session holds the authentication state of a single consumer.

# Architecture

  - Session: a persisted platform session (identity plus credentials) keyed by
    an opaque session id.
  - State: the observable view of a session, {identity, isLoading}.
  - Store: an explicit state holder with a defined lifecycle
    (Init -> subscribe -> notify* -> Dispose), injected into consumers.
  - Bus: the process-wide broadcaster of auth events the Store subscribes to.

The package has no dependency on the remote platform; the auth package adapts
platform sessions into these types.
*/
package session

import (
	"time"
)

// # Domain Entities

// Identity is an authenticated user record as issued by the remote platform.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	LastSignInAt time.Time `json:"last_sign_in_at"`
}

// Credentials are the platform tokens backing a session.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Session is a persisted platform session.
type Session struct {
	ID          string      `json:"id"`
	Identity    Identity    `json:"identity"`
	Credentials Credentials `json:"credentials"`
}

// Expired reports whether the access token is expired (or about to be) at now.
func (s *Session) Expired(now time.Time, leeway time.Duration) bool {
	if s.Credentials.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(leeway).Before(s.Credentials.ExpiresAt)
}

// UserID returns the identity id, or "" for a nil session.
func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	return s.Identity.ID
}

// AccessToken returns the access token, or "" for a nil session.
func (s *Session) AccessToken() string {
	if s == nil {
		return ""
	}
	return s.Credentials.AccessToken
}

// # Observable State

// Status is the position of a [State] in the auth state machine.
type Status string

const (
	StatusLoading       Status = "loading"
	StatusAuthenticated Status = "authenticated"
	StatusAnonymous     Status = "anonymous"
)

// State is what consumers observe: the current identity and whether the
// initial load is still in flight.
type State struct {
	Identity  *Identity `json:"identity"`
	IsLoading bool      `json:"is_loading"`
}

// Status derives the state machine position.
func (s State) Status() Status {
	switch {
	case s.IsLoading:
		return StatusLoading
	case s.Identity != nil:
		return StatusAuthenticated
	default:
		return StatusAnonymous
	}
}

// # Auth Events

// EventKind names an identity transition.
type EventKind string

const (
	EventSignedIn       EventKind = "SIGNED_IN"
	EventSignedOut      EventKind = "SIGNED_OUT"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
)

// Event is broadcast on every identity transition. Session is nil for
// [EventSignedOut].
type Event struct {
	Kind      EventKind
	SessionID string
	Session   *Session
}

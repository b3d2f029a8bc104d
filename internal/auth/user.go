// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"time"

	"github.com/taibuivan/diary/internal/platform/sec"
	"github.com/taibuivan/diary/internal/platform/supabase"
	"github.com/taibuivan/diary/internal/session"
)

// # Messages

const (
	// MessagePendingConfirmation is returned when sign-up succeeded but the
	// platform wants the address confirmed before the first sign-in.
	MessagePendingConfirmation = "이메일로 확인 링크가 발송되었습니다. 이메일을 확인하신 후 다시 로그인해주세요."

	// MessageInvalidSession is returned when a session id or token is unknown or expired.
	MessageInvalidSession = "세션이 만료되었습니다. 다시 로그인해주세요."
)

// # Sign-up Result

// SignUpResult distinguishes an active session from a pending confirmation.
type SignUpResult struct {
	PendingConfirmation bool             `json:"pending_confirmation"`
	Message             string           `json:"message,omitempty"`
	Identity            session.Identity `json:"identity"`

	// Session is nil while confirmation is pending.
	Session *session.Session `json:"-"`
}

// # Platform Adapters

// identityFromUser maps a platform user onto the identity the app exposes.
func identityFromUser(user supabase.User) session.Identity {
	identity := session.Identity{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
	if user.LastSignInAt != nil {
		identity.LastSignInAt = *user.LastSignInAt
	}
	return identity
}

// sessionFromPlatform builds a persisted session from issued platform tokens.
func sessionFromPlatform(id string, issued *supabase.AuthSession, issuedAt time.Time) *session.Session {
	return &session.Session{
		ID:       id,
		Identity: identityFromUser(issued.User),
		Credentials: session.Credentials{
			AccessToken:  issued.AccessToken,
			RefreshToken: issued.RefreshToken,
			ExpiresAt:    issued.Expiry(issuedAt),
		},
	}
}

// sessionFromClaims builds a request-scoped session from a verified bearer token.
// The session id is the platform's own session claim; it is never persisted.
func sessionFromClaims(token string, claims *sec.AccessClaims) *session.Session {
	id := claims.SessionID
	if id == "" {
		id = "bearer:" + claims.UserID()
	}
	return &session.Session{
		ID: id,
		Identity: session.Identity{
			ID:    claims.UserID(),
			Email: claims.Email,
		},
		Credentials: session.Credentials{
			AccessToken: token,
			ExpiresAt:   claims.Expiry(),
		},
	}
}

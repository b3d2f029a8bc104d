// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/diary/internal/session"
)

// # Session Cache

// SessionRepository is the session cache: persisted platform sessions keyed
// by the opaque session id handed to the client.
type SessionRepository interface {

	/*
		Save stores or replaces a session.

		Parameters:
		  - context: context.Context
		  - sess: *session.Session (keyed by sess.ID)
		  - ttl: time.Duration

		Returns:
		  - error: Storage failures
	*/
	Save(context context.Context, sess *session.Session, ttl time.Duration) error

	/*
		Get loads a session.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *session.Session: nil when the id is unknown or expired
		  - error: Storage failures
	*/
	Get(context context.Context, id string) (*session.Session, error)

	/*
		Delete removes a session. Deleting an unknown id is not an error.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Storage failures
	*/
	Delete(context context.Context, id string) error
}

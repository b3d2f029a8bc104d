// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the opaque identifiers the server mints itself, such as
session cookie ids.

Rows in the diary tables get their ids from the remote platform; this package
is only for ids that never leave the server's own stores. Values are Version 7,
so keys written to the session cache sort by creation time.
*/
package uuid

import "github.com/google/uuid"

// New returns a fresh UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		// entropy failure; fall back to a random v4 rather than failing sign-in
		return uuid.NewString()
	}
	return id.String()
}

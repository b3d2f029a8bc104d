// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Platform Roles

// PlatformRole is the database role a platform token runs as.
type PlatformRole string

const (
	// Requests signed only with the public API key
	RoleAnon PlatformRole = "anon"

	// Signed-in users; row-level security policies apply
	RoleAuthenticated PlatformRole = "authenticated"

	// Server-side key that bypasses row-level security
	RoleServiceRole PlatformRole = "service_role"
)

// IsAuthenticated reports whether the role belongs to a signed-in user.
func (r PlatformRole) IsAuthenticated() bool {
	return r == RoleAuthenticated
}

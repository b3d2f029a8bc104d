// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import "context"

// Repository is the remote profiles table.
type Repository interface {
	GetProfile(context context.Context, id string) (*Profile, error)
	CreateProfile(context context.Context, draft Draft) (*Profile, error)

	// UpdateProfile returns nil when no row was changed.
	UpdateProfile(context context.Context, id string, patch map[string]any) (*Profile, error)

	// ListProfiles returns the rows of the inclusive [from, to] window and the total count.
	ListProfiles(context context.Context, from, to int) ([]*Profile, int, error)
	Search(context context.Context, term string) ([]*Profile, error)
}

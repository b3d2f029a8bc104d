// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import "context"

// Repository is the remote posts table and the posts_with_author view.
//
// Every call runs with the access token of the session in ctx, so the
// platform applies its row policies on behalf of that identity.
type Repository interface {
	Probe(context context.Context) error
	ListPosts(context context.Context) ([]*Post, error)
	GetPost(context context.Context, id string) (*Post, error)
	CreatePost(context context.Context, row Draft) (*Post, error)

	// UpdatePost returns nil when no row was changed.
	UpdatePost(context context.Context, id string, patch map[string]any) (*Post, error)

	// DeletePost returns the number of rows removed.
	DeletePost(context context.Context, id string) (int, error)

	ListByAuthor(context context.Context, authorID string) ([]*Post, error)
	Search(context context.Context, term string) ([]*Post, error)
}

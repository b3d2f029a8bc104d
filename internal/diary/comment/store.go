// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import "context"

// Repository is the remote comments table and the comments_with_author view.
type Repository interface {
	Probe(context context.Context) error
	ListByPost(context context.Context, postID string) ([]*Comment, error)
	GetComment(context context.Context, id string) (*Comment, error)
	CreateComment(context context.Context, draft Draft) (*Comment, error)
	UpdateComment(context context.Context, id, content string) (*Comment, error)
	DeleteComment(context context.Context, id string) (int, error)
	ListByAuthor(context context.Context, authorID string) ([]*Comment, error)
}

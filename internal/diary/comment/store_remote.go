// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"

	"github.com/taibuivan/diary/internal/platform/ctxutil"
	"github.com/taibuivan/diary/internal/platform/database/schema"
	"github.com/taibuivan/diary/internal/platform/supabase"
)

// RemoteRepository implements [Repository] on the remote platform.
type RemoteRepository struct {
	client *supabase.Client
}

// NewRemoteRepository creates a new platform-backed [Repository].
func NewRemoteRepository(client *supabase.Client) *RemoteRepository {
	return &RemoteRepository{client: client}
}

func (repository *RemoteRepository) scoped(context context.Context) *supabase.Client {
	return repository.client.WithAccessToken(ctxutil.CurrentSession(context).AccessToken())
}

func (repository *RemoteRepository) Probe(context context.Context) error {
	var rows []struct {
		ID string `json:"id"`
	}
	err := repository.scoped(context).
		From(schema.DiaryComment.Table).
		Select(schema.DiaryComment.ID).
		Limit(1).
		Do(context, &rows)
	if err != nil {
		return fmt.Errorf("comment_probe_failed: %w", err)
	}
	return nil
}

func (repository *RemoteRepository) ListByPost(context context.Context, postID string) ([]*Comment, error) {
	comments := []*Comment{}
	err := repository.scoped(context).
		From(schema.DiaryComment.Table).
		Select("*").
		Eq(schema.DiaryComment.PostID, postID).
		Order(schema.DiaryComment.CreatedAt, true).
		Do(context, &comments)
	if err != nil {
		return nil, fmt.Errorf("comment_list_failed: %w", err)
	}
	return comments, nil
}

func (repository *RemoteRepository) GetComment(context context.Context, id string) (*Comment, error) {
	comment := &Comment{}
	err := repository.scoped(context).
		From(schema.DiaryComment.Table).
		Select("*").
		Eq(schema.DiaryComment.ID, id).
		Single().
		Do(context, comment)
	if err != nil {
		return nil, fmt.Errorf("comment_get_failed: %w", err)
	}
	return comment, nil
}

func (repository *RemoteRepository) CreateComment(context context.Context, draft Draft) (*Comment, error) {
	comment := &Comment{}
	err := repository.scoped(context).
		From(schema.DiaryComment.Table).
		Insert(draft).
		Single().
		Do(context, comment)
	if err != nil {
		return nil, fmt.Errorf("comment_insert_failed: %w", err)
	}
	return comment, nil
}

// UpdateComment returns nil when the platform changed no row.
func (repository *RemoteRepository) UpdateComment(context context.Context, id, content string) (*Comment, error) {
	var updated []*Comment
	err := repository.scoped(context).
		From(schema.DiaryComment.Table).
		Update(map[string]any{schema.DiaryComment.Content: content}).
		Eq(schema.DiaryComment.ID, id).
		Do(context, &updated)
	if err != nil {
		return nil, fmt.Errorf("comment_update_failed: %w", err)
	}
	if len(updated) == 0 {
		return nil, nil
	}
	return updated[0], nil
}

func (repository *RemoteRepository) DeleteComment(context context.Context, id string) (int, error) {
	deleted, err := repository.scoped(context).
		From(schema.DiaryComment.Table).
		Delete().
		Eq(schema.DiaryComment.ID, id).
		Exec(context)
	if err != nil {
		return 0, fmt.Errorf("comment_delete_failed: %w", err)
	}
	return deleted, nil
}

func (repository *RemoteRepository) ListByAuthor(context context.Context, authorID string) ([]*Comment, error) {
	comments := []*Comment{}
	err := repository.scoped(context).
		From(schema.DiaryCommentWithAuthor.Table).
		Select("*").
		Eq(schema.DiaryCommentWithAuthor.AuthorID, authorID).
		Order(schema.DiaryCommentWithAuthor.CreatedAt, false).
		Do(context, &comments)
	if err != nil {
		return nil, fmt.Errorf("comment_list_by_author_failed: %w", err)
	}
	return comments, nil
}

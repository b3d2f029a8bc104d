// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

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

// scoped returns the client acting as the session in ctx (anonymous when none).
func (repository *RemoteRepository) scoped(context context.Context) *supabase.Client {
	return repository.client.WithAccessToken(ctxutil.CurrentSession(context).AccessToken())
}

// Probe checks that the posts table exists and is readable.
func (repository *RemoteRepository) Probe(context context.Context) error {
	var rows []struct {
		ID string `json:"id"`
	}
	err := repository.scoped(context).
		From(schema.DiaryPost.Table).
		Select(schema.DiaryPost.ID).
		Limit(1).
		Do(context, &rows)
	if err != nil {
		return fmt.Errorf("post_probe_failed: %w", err)
	}
	return nil
}

func (repository *RemoteRepository) ListPosts(context context.Context) ([]*Post, error) {
	posts := []*Post{}
	err := repository.scoped(context).
		From(schema.DiaryPost.Table).
		Select(schema.DiaryPost.SelectWithCount()).
		Order(schema.DiaryPost.DiaryDate, false).
		Order(schema.DiaryPost.CreatedAt, false).
		Do(context, &posts)
	if err != nil {
		return nil, fmt.Errorf("post_list_failed: %w", err)
	}
	return posts, nil
}

func (repository *RemoteRepository) GetPost(context context.Context, id string) (*Post, error) {
	post := &Post{}
	err := repository.scoped(context).
		From(schema.DiaryPost.Table).
		Select(schema.DiaryPost.SelectWithCount()).
		Eq(schema.DiaryPost.ID, id).
		Single().
		Do(context, post)
	if err != nil {
		return nil, fmt.Errorf("post_get_failed: %w", err)
	}
	return post, nil
}

func (repository *RemoteRepository) CreatePost(context context.Context, row Draft) (*Post, error) {
	post := &Post{}
	err := repository.scoped(context).
		From(schema.DiaryPost.Table).
		Insert(row).
		Single().
		Do(context, post)
	if err != nil {
		return nil, fmt.Errorf("post_insert_failed: %w", err)
	}
	return post, nil
}

func (repository *RemoteRepository) UpdatePost(context context.Context, id string, patch map[string]any) (*Post, error) {
	var updated []*Post
	err := repository.scoped(context).
		From(schema.DiaryPost.Table).
		Update(patch).
		Eq(schema.DiaryPost.ID, id).
		Returning(schema.DiaryPost.SelectWithCount()).
		Do(context, &updated)
	if err != nil {
		return nil, fmt.Errorf("post_update_failed: %w", err)
	}
	if len(updated) == 0 {
		return nil, nil
	}
	return updated[0], nil
}

func (repository *RemoteRepository) DeletePost(context context.Context, id string) (int, error) {
	deleted, err := repository.scoped(context).
		From(schema.DiaryPost.Table).
		Delete().
		Eq(schema.DiaryPost.ID, id).
		Exec(context)
	if err != nil {
		return 0, fmt.Errorf("post_delete_failed: %w", err)
	}
	return deleted, nil
}

func (repository *RemoteRepository) ListByAuthor(context context.Context, authorID string) ([]*Post, error) {
	posts := []*Post{}
	err := repository.scoped(context).
		From(schema.DiaryPostWithAuthor.Table).
		Select("*").
		Eq(schema.DiaryPostWithAuthor.AuthorID, authorID).
		Order(schema.DiaryPostWithAuthor.CreatedAt, false).
		Do(context, &posts)
	if err != nil {
		return nil, fmt.Errorf("post_list_by_author_failed: %w", err)
	}
	return posts, nil
}

func (repository *RemoteRepository) Search(context context.Context, term string) ([]*Post, error) {
	posts := []*Post{}
	err := repository.scoped(context).
		From(schema.DiaryPostWithAuthor.Table).
		Select("*").
		OrIlike(term, schema.DiaryPostWithAuthor.Title, schema.DiaryPostWithAuthor.Content).
		Order(schema.DiaryPostWithAuthor.CreatedAt, false).
		Do(context, &posts)
	if err != nil {
		return nil, fmt.Errorf("post_search_failed: %w", err)
	}
	return posts, nil
}

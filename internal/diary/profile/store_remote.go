// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

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

func (repository *RemoteRepository) GetProfile(context context.Context, id string) (*Profile, error) {
	profile := &Profile{}
	err := repository.scoped(context).
		From(schema.DiaryProfile.Table).
		Select("*").
		Eq(schema.DiaryProfile.ID, id).
		Single().
		Do(context, profile)
	if err != nil {
		return nil, fmt.Errorf("profile_get_failed: %w", err)
	}
	return profile, nil
}

func (repository *RemoteRepository) CreateProfile(context context.Context, draft Draft) (*Profile, error) {
	profile := &Profile{}
	err := repository.scoped(context).
		From(schema.DiaryProfile.Table).
		Insert(draft).
		Single().
		Do(context, profile)
	if err != nil {
		return nil, fmt.Errorf("profile_insert_failed: %w", err)
	}
	return profile, nil
}

func (repository *RemoteRepository) UpdateProfile(context context.Context, id string, patch map[string]any) (*Profile, error) {
	var updated []*Profile
	err := repository.scoped(context).
		From(schema.DiaryProfile.Table).
		Update(patch).
		Eq(schema.DiaryProfile.ID, id).
		Do(context, &updated)
	if err != nil {
		return nil, fmt.Errorf("profile_update_failed: %w", err)
	}
	if len(updated) == 0 {
		return nil, nil
	}
	return updated[0], nil
}

func (repository *RemoteRepository) ListProfiles(context context.Context, from, to int) ([]*Profile, int, error) {
	profiles := []*Profile{}
	total, err := repository.scoped(context).
		From(schema.DiaryProfile.Table).
		Select("*").
		Order(schema.DiaryProfile.CreatedAt, false).
		Range(from, to).
		DoCount(context, &profiles)
	if err != nil {
		return nil, 0, fmt.Errorf("profile_list_failed: %w", err)
	}
	return profiles, total, nil
}

func (repository *RemoteRepository) Search(context context.Context, term string) ([]*Profile, error) {
	profiles := []*Profile{}
	err := repository.scoped(context).
		From(schema.DiaryProfile.Table).
		Select("*").
		OrIlike(term, schema.DiaryProfile.FullName, schema.DiaryProfile.Bio).
		Order(schema.DiaryProfile.CreatedAt, false).
		Do(context, &profiles)
	if err != nil {
		return nil, fmt.Errorf("profile_search_failed: %w", err)
	}
	return profiles, nil
}

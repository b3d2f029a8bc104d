// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/diary/internal/platform/apperr"
	"github.com/taibuivan/diary/internal/platform/constants"
	"github.com/taibuivan/diary/internal/platform/ctxutil"
	"github.com/taibuivan/diary/internal/platform/dberr"
	"github.com/taibuivan/diary/internal/platform/supabase"
	"github.com/taibuivan/diary/internal/platform/validate"
	"github.com/taibuivan/diary/internal/session"
)

// Service implements the diary entry use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// # Listing

/*
GetAllPosts returns every post visible to the caller, newest diary date first
and, within one date, newest first.

Description: The posts table is probed first. When it is missing or
unreadable the result is an empty list together with an error describing
what to set up, so callers can render the empty state and the reason.

Parameters:
  - context: context.Context

Returns:
  - []*Post: Never nil
  - error: REMOTE_UNAVAILABLE with a setup hint, or the classified read error
    carrying the remote message
*/
func (service *Service) GetAllPosts(context context.Context) ([]*Post, error) {
	if err := service.repo.Probe(context); err != nil {
		service.logger.WarnContext(context, "post_table_probe_failed", slog.String("error", err.Error()))
		if supabase.IsUnavailable(err) {
			return []*Post{}, apperr.RemoteUnavailable(dberr.MessageUnavailable, err)
		}
		return []*Post{}, apperr.RemoteUnavailable(MessageTableMissing, err)
	}

	posts, err := service.repo.ListPosts(context)
	if err != nil {
		return []*Post{}, dberr.WrapDescribed(err, MessageNotFound, MessageListFailed)
	}

	for _, post := range posts {
		post.withPlaceholderAuthor().decorate()
	}
	return posts, nil
}

// GetUserPosts lists one author's visible posts from the author view, newest first.
func (service *Service) GetUserPosts(context context.Context, authorID string) ([]*Post, error) {
	posts, err := service.repo.ListByAuthor(context, authorID)
	if err != nil {
		return nil, dberr.WrapDescribed(err, MessageNotFound, MessageListFailed)
	}
	return decorateAll(posts), nil
}

// SearchPosts matches term against title and content, case-insensitively, newest first.
func (service *Service) SearchPosts(context context.Context, term string) ([]*Post, error) {
	posts, err := service.repo.Search(context, strings.TrimSpace(term))
	if err != nil {
		return nil, dberr.WrapDescribed(err, MessageNotFound, MessageListFailed)
	}
	return decorateAll(posts), nil
}

// # Single Entry

/*
GetPost returns one post.

Description: Any failure, including a missing row, a row hidden by the
privacy policy or a failed query, is reported as NOT_FOUND.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Post: The post with placeholder author fields
  - error: NOT_FOUND
*/
func (service *Service) GetPost(context context.Context, id string) (*Post, error) {
	post, err := service.repo.GetPost(context, id)
	if err != nil {
		if !supabase.IsNoRows(err) {
			service.logger.WarnContext(context, "post_get_failed", slog.String("post_id", id), slog.String("error", err.Error()))
		}
		return nil, apperr.NotFoundMessage(MessageNotFound).WithCause(err)
	}
	return post.withPlaceholderAuthor().decorate(), nil
}

// # Mutations

/*
CreatePost writes a new diary entry for the signed-in identity.

Description: Input is validated before anything is sent. The content is
trimmed, a blank title is stored as null, and a missing diary date defaults
to today (UTC). The author is always the session identity.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Post: The stored row with generated id and timestamps
  - error: VALIDATION_ERROR, AUTH_REQUIRED, or the classified platform error
*/
func (service *Service) CreatePost(context context.Context, input CreateInput) (*Post, error) {
	content := strings.TrimSpace(input.Content)

	validator := &validate.Validator{}
	validator.Custom(FieldContent, content == "", MessageContentMissing).
		MaxLen(FieldContent, content, 10000).
		Date(FieldDiaryDate, input.DiaryDate)
	if input.Title != nil {
		validator.MaxLen(FieldTitle, strings.TrimSpace(*input.Title), 200)
	}
	if content == "" {
		return nil, validator.ErrMessage(MessageContentMissing)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	viewer := ctxutil.CurrentSession(context)
	if viewer == nil {
		return nil, apperr.AuthRequired(constants.MessageLoginRequired)
	}

	draft := Draft{
		AuthorID:  viewer.UserID(),
		Title:     blankToNil(input.Title),
		Content:   content,
		Mood:      input.Mood,
		Weather:   input.Weather,
		DiaryDate: input.DiaryDate,
		IsPrivate: input.IsPrivate,
	}
	if draft.DiaryDate == "" {
		draft.DiaryDate = service.now().UTC().Format(time.DateOnly)
	}
	if draft.Mood != nil && *draft.Mood == "" {
		draft.Mood = nil
	}
	if draft.Weather != nil && *draft.Weather == "" {
		draft.Weather = nil
	}

	created, err := service.repo.CreatePost(context, draft)
	if err != nil {
		return nil, dberr.Wrap(err, MessageNotFound)
	}

	service.logger.InfoContext(context, "post_created",
		slog.String("post_id", created.ID),
		slog.String("user_id", viewer.UserID()),
	)
	return created.decorate(), nil
}

/*
UpdatePost changes the given fields of a post the caller owns.

Description: Ownership is checked locally first; the platform enforces it
again, and an update it silently skips is also reported as FORBIDDEN.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateInput

Returns:
  - *Post: The updated row
  - error: VALIDATION_ERROR, AUTH_REQUIRED, NOT_FOUND, FORBIDDEN
*/
func (service *Service) UpdatePost(context context.Context, id string, input UpdateInput) (*Post, error) {
	patch, err := buildPatch(input)
	if err != nil {
		return nil, err
	}

	viewer, err := service.authorize(context, id)
	if err != nil {
		return nil, err
	}

	updated, err := service.repo.UpdatePost(context, id, patch)
	if err != nil {
		return nil, dberr.Wrap(err, MessageNotFound)
	}
	if updated == nil {
		return nil, apperr.Forbidden(MessageNotOwner)
	}

	service.logger.InfoContext(context, "post_updated",
		slog.String("post_id", id),
		slog.String("user_id", viewer.UserID()),
	)
	return updated.decorate(), nil
}

/*
DeletePost removes a post the caller owns, together with its comments.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: AUTH_REQUIRED, NOT_FOUND, FORBIDDEN
*/
func (service *Service) DeletePost(context context.Context, id string) error {
	viewer, err := service.authorize(context, id)
	if err != nil {
		return err
	}

	deleted, err := service.repo.DeletePost(context, id)
	if err != nil {
		return dberr.Wrap(err, MessageNotFound)
	}
	if deleted == 0 {
		return apperr.Forbidden(MessageNotOwner)
	}

	service.logger.WarnContext(context, "post_deleted",
		slog.String("post_id", id),
		slog.String("user_id", viewer.UserID()),
	)
	return nil
}

// # Internals

// authorize loads the post and checks that the session identity wrote it.
func (service *Service) authorize(context context.Context, id string) (*session.Session, error) {
	viewer := ctxutil.CurrentSession(context)
	if viewer == nil {
		return nil, apperr.AuthRequired(constants.MessageLoginRequired)
	}

	existing, err := service.repo.GetPost(context, id)
	if err != nil {
		return nil, dberr.Wrap(err, MessageNotFound)
	}
	if existing.AuthorID != viewer.UserID() {
		return nil, apperr.Forbidden(MessageNotOwner)
	}

	return viewer, nil
}

func buildPatch(input UpdateInput) (map[string]any, error) {
	patch := map[string]any{}
	validator := &validate.Validator{}

	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if content == "" {
			return nil, validator.Custom(FieldContent, true, MessageContentMissing).ErrMessage(MessageContentMissing)
		}
		validator.MaxLen(FieldContent, content, 10000)
		patch[FieldContent] = content
	}
	if input.Title != nil {
		validator.MaxLen(FieldTitle, strings.TrimSpace(*input.Title), 200)
		patch[FieldTitle] = blankToNil(input.Title)
	}
	if input.Mood != nil {
		patch[FieldMood] = nilIfEmpty(string(*input.Mood))
	}
	if input.Weather != nil {
		patch[FieldWeather] = nilIfEmpty(string(*input.Weather))
	}
	if input.DiaryDate != nil {
		validator.Required(FieldDiaryDate, *input.DiaryDate).Date(FieldDiaryDate, *input.DiaryDate)
		patch[FieldDiaryDate] = *input.DiaryDate
	}
	if input.IsPrivate != nil {
		patch[FieldIsPrivate] = *input.IsPrivate
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, apperr.ValidationError(MessageNothingToEdit)
	}
	return patch, nil
}

func blankToNil(title *string) *string {
	if title == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*title)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func nilIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func decorateAll(posts []*Post) []*Post {
	for _, post := range posts {
		post.decorate()
	}
	return posts
}

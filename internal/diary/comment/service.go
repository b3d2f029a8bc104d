// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/diary/internal/platform/apperr"
	"github.com/taibuivan/diary/internal/platform/constants"
	"github.com/taibuivan/diary/internal/platform/ctxutil"
	"github.com/taibuivan/diary/internal/platform/dberr"
	"github.com/taibuivan/diary/internal/platform/supabase"
	"github.com/taibuivan/diary/internal/platform/validate"
	"github.com/taibuivan/diary/internal/session"
)

const maxContentLength = 1000

// Service implements the comment use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

/*
GetCommentsByPost lists a post's comments, oldest first.

Description: Failures are logged and swallowed; the result is then an empty
list. Comments never block a post from rendering.

Parameters:
  - context: context.Context
  - postID: string

Returns:
  - []*Comment: Never nil
*/
func (service *Service) GetCommentsByPost(context context.Context, postID string) []*Comment {
	if err := service.repo.Probe(context); err != nil {
		service.logger.WarnContext(context, "comment_table_probe_failed", slog.String("error", err.Error()))
		return []*Comment{}
	}

	comments, err := service.repo.ListByPost(context, postID)
	if err != nil {
		service.logger.WarnContext(context, "comment_list_failed",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
		return []*Comment{}
	}

	for _, comment := range comments {
		comment.withPlaceholderAuthor()
	}
	return comments
}

// GetUserComments lists one author's comments from the author view, newest first.
func (service *Service) GetUserComments(context context.Context, authorID string) ([]*Comment, error) {
	comments, err := service.repo.ListByAuthor(context, authorID)
	if err != nil {
		return nil, dberr.Wrap(err, MessageNotFound)
	}
	for _, comment := range comments {
		if comment.AuthorEmail == "" {
			comment.AuthorEmail = constants.UnknownAuthorEmail
		}
	}
	return comments, nil
}

/*
CreateComment leaves a cheer message on a post as the signed-in identity.

Parameters:
  - context: context.Context
  - postID: string
  - content: string (trimmed before storing)

Returns:
  - *Comment: The stored row
  - error: VALIDATION_ERROR (also for an unknown post), AUTH_REQUIRED, REMOTE_UNAVAILABLE
*/
func (service *Service) CreateComment(context context.Context, postID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	viewer := ctxutil.CurrentSession(context)
	if viewer == nil {
		return nil, apperr.AuthRequired(constants.MessageLoginRequired)
	}

	if err := service.repo.Probe(context); err != nil {
		service.logger.WarnContext(context, "comment_table_probe_failed", slog.String("error", err.Error()))
		if supabase.IsUnavailable(err) {
			return nil, apperr.RemoteUnavailable(dberr.MessageUnavailable, err)
		}
		return nil, apperr.RemoteUnavailable(MessageTableMissing, err)
	}

	created, err := service.repo.CreateComment(context, Draft{
		PostID:   postID,
		AuthorID: viewer.UserID(),
		Content:  content,
	})
	if err != nil {
		return nil, dberr.Wrap(err, MessageNotFound)
	}

	service.logger.InfoContext(context, "comment_created",
		slog.String("comment_id", created.ID),
		slog.String("post_id", postID),
		slog.String("user_id", viewer.UserID()),
	)
	return created, nil
}

// UpdateComment replaces the content of a comment the caller wrote.
func (service *Service) UpdateComment(context context.Context, id, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	viewer, err := service.authorize(context, id)
	if err != nil {
		return nil, err
	}

	updated, err := service.repo.UpdateComment(context, id, content)
	if err != nil {
		return nil, dberr.Wrap(err, MessageNotFound)
	}
	if updated == nil {
		return nil, apperr.Forbidden(MessageNotOwner)
	}

	service.logger.InfoContext(context, "comment_updated",
		slog.String("comment_id", id),
		slog.String("user_id", viewer.UserID()),
	)
	return updated, nil
}

// DeleteComment removes a comment the caller wrote.
func (service *Service) DeleteComment(context context.Context, id string) error {
	viewer, err := service.authorize(context, id)
	if err != nil {
		return err
	}

	deleted, err := service.repo.DeleteComment(context, id)
	if err != nil {
		return dberr.Wrap(err, MessageNotFound)
	}
	if deleted == 0 {
		return apperr.Forbidden(MessageNotOwner)
	}

	service.logger.InfoContext(context, "comment_deleted",
		slog.String("comment_id", id),
		slog.String("user_id", viewer.UserID()),
	)
	return nil
}

// # Internals

func (service *Service) authorize(context context.Context, id string) (*session.Session, error) {
	viewer := ctxutil.CurrentSession(context)
	if viewer == nil {
		return nil, apperr.AuthRequired(constants.MessageLoginRequired)
	}

	existing, err := service.repo.GetComment(context, id)
	if err != nil {
		return nil, dberr.Wrap(err, MessageNotFound)
	}
	if existing.AuthorID != viewer.UserID() {
		return nil, apperr.Forbidden(MessageNotOwner)
	}
	return viewer, nil
}

func validateContent(content string) error {
	validator := &validate.Validator{}
	if content == "" {
		return validator.Custom(FieldContent, true, MessageContentMissing).ErrMessage(MessageContentMissing)
	}
	validator.MaxLen(FieldContent, content, maxContentLength)
	return validator.Err()
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between remote platform errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/taibuivan/diary/internal/platform/apperr"
	"github.com/taibuivan/diary/internal/platform/supabase"
)

// MessageUnavailable is shown when the platform cannot be reached at all.
const MessageUnavailable = "원격 저장소에 연결할 수 없습니다"

// Wrap classifies a platform error into an [apperr.AppError].
// notFound is the client message used when a single-row read matched nothing.
// The remote message is surfaced as-is for rejections the user can act on.
func Wrap(err error, notFound string) error {
	if err == nil {
		return nil
	}

	// Already classified upstream
	if appErr := apperr.As(err); appErr != nil {
		return appErr
	}

	switch {
	case supabase.IsNoRows(err):
		return apperr.NotFoundMessage(notFound).WithCause(err)

	case supabase.IsUnavailable(err):
		return apperr.RemoteUnavailable(MessageUnavailable, err)

	case supabase.IsMissingRelation(err):
		return apperr.RemoteUnavailable(supabase.Message(err), err)

	case supabase.IsPermission(err):
		return apperr.Forbidden(supabase.Message(err)).WithCause(err)
	}

	var remote *supabase.Error
	if errors.As(err, &remote) {
		switch remote.Code {
		case "23505":
			return apperr.Conflict(remote.Message).WithCause(err)
		case "23502", "23503", "23514", "22P02", "22007", "22008":
			return apperr.ValidationError(remote.Message).WithCause(err)
		}
	}

	// Unknown failures become Internal Server Errors
	return apperr.Internal(err)
}

// WrapDescribed is [Wrap] for reads whose failure is shown to the user. A
// platform rejection that [Wrap] cannot classify keeps the remote message
// behind prefix, e.g. "일기 조회 실패: column posts.x does not exist".
func WrapDescribed(err error, notFound, prefix string) error {
	wrapped := Wrap(err, notFound)
	if !apperr.HasCode(wrapped, apperr.CodeInternal) {
		return wrapped
	}

	var remote *supabase.Error
	if !errors.As(err, &remote) {
		return wrapped
	}
	return apperr.InternalMessage(prefix+": "+supabase.Message(remote), err)
}

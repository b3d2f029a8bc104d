// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/diary/internal/platform/apperr"
)

/*
TestAppError_Constructors verifies status and code mapping of the taxonomy.
*/
func TestAppError_Constructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		code   string
		status int
	}{
		{"not_found", apperr.NotFound("Post"), apperr.CodeNotFound, http.StatusNotFound},
		{"unauthorized", apperr.Unauthorized("bad credentials"), apperr.CodeUnauthorized, http.StatusUnauthorized},
		{"auth_required", apperr.AuthRequired("login first"), apperr.CodeAuthRequired, http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("not yours"), apperr.CodeForbidden, http.StatusForbidden},
		{"validation", apperr.ValidationError("bad"), apperr.CodeValidation, http.StatusBadRequest},
		{"remote", apperr.RemoteUnavailable("down", nil), apperr.CodeRemoteUnavailable, http.StatusServiceUnavailable},
		{"internal", apperr.Internal(errors.New("boom")), apperr.CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}

	assert.Equal(t, "Post not found", apperr.NotFound("Post").Error())
}

/*
TestAppError_ChainHelpers verifies extraction through wrapped errors.
*/
func TestAppError_ChainHelpers(t *testing.T) {
	wrapped := fmt.Errorf("post_service_get_failed: %w", apperr.NotFound("Post"))

	assert.True(t, apperr.IsAppError(wrapped))
	assert.True(t, apperr.IsNotFound(wrapped))
	assert.False(t, apperr.HasCode(wrapped, apperr.CodeForbidden))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeNotFound, ae.Code)

	assert.Nil(t, apperr.As(errors.New("plain")))
}

/*
TestNormalize verifies that foreign errors are hidden behind INTERNAL_ERROR.
*/
func TestNormalize(t *testing.T) {
	assert.Nil(t, apperr.Normalize(nil))

	cause := errors.New("socket closed")
	normalized := apperr.Normalize(cause)
	assert.Equal(t, apperr.CodeInternal, normalized.Code)
	assert.ErrorIs(t, normalized, cause)

	forbidden := apperr.Forbidden("nope")
	assert.Same(t, forbidden, apperr.Normalize(forbidden))
}

/*
TestWithCause verifies that attaching a cause does not mutate the original.
*/
func TestWithCause(t *testing.T) {
	base := apperr.Forbidden("nope")
	cause := errors.New("rls")

	withCause := base.WithCause(cause)
	assert.Nil(t, base.Cause)
	assert.ErrorIs(t, withCause, cause)
	assert.Equal(t, base.Message, withCause.Message)
}

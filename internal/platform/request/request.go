// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/diary/internal/platform/apperr"
	"github.com/taibuivan/diary/internal/platform/constants"
	"github.com/taibuivan/diary/internal/platform/ctxutil"
	"github.com/taibuivan/diary/internal/platform/validate"
	"github.com/taibuivan/diary/internal/session"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter holding a row id and checks its format.

Returns:
  - string: The id
  - error: VALIDATION_ERROR if the id is not a UUID
*/
func ID(request *http.Request, name string) (string, error) {
	id := chi.URLParam(request, name)
	if err := new(validate.Validator).UUID(name, id).Err(); err != nil {
		return "", err
	}
	return id, nil
}

/*
SearchTerm returns the trimmed "q" query parameter.
*/
func SearchTerm(request *http.Request) string {
	return strings.TrimSpace(request.URL.Query().Get("q"))
}

/*
Viewer returns the signed-in session of the request, or nil for anonymous callers.
*/
func Viewer(request *http.Request) *session.Session {
	return ctxutil.CurrentSession(request.Context())
}

/*
RequiredViewer ensures the request is authenticated and returns its session.

Returns:
  - *session.Session: The signed-in session
  - error: apperr.AuthRequired if the request is anonymous
*/
func RequiredViewer(request *http.Request) (*session.Session, error) {

	// Get the request's session
	viewer := Viewer(request)

	// If the user is not authenticated, return an error
	if viewer == nil {
		return nil, apperr.AuthRequired(constants.MessageLoginRequired)
	}

	return viewer, nil
}

/*
BearerToken extracts the token from an "Authorization: Bearer" header, or "".
*/
func BearerToken(request *http.Request) string {
	header := request.Header.Get(constants.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

/*
SessionID returns the opaque session id from the session cookie, or "".
*/
func SessionID(request *http.Request) string {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

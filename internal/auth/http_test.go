// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/diary/internal/auth"
	"github.com/taibuivan/diary/internal/platform/constants"
	"github.com/taibuivan/diary/internal/platform/middleware"
	"github.com/taibuivan/diary/internal/platform/supabase/supabasetest"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *string         `json:"error"`
	Code  string          `json:"code"`
}

func newAuthRouter(f *fixture) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Session(f.service))
	router.Mount("/api/v1/auth", auth.NewHandler(f.service, false).Routes())
	return router
}

func call(t *testing.T, router http.Handler, method, path, body string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var decoded envelope
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder, decoded
}

func sessionCookie(recorder *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			return cookie
		}
	}
	return nil
}

/*
TestHandler_SessionLifecycle drives sign-up, session lookup and sign-out over HTTP.
*/
func TestHandler_SessionLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	router := newAuthRouter(f)

	recorder, body := call(t, router, http.MethodPost, "/api/v1/auth/signup",
		`{"email":"http@example.com","password":"secret-password","full_name":"Kim"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Nil(t, body.Error)

	cookie := sessionCookie(recorder)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	_, body = call(t, router, http.MethodGet, "/api/v1/auth/session", "", cookie)
	var state struct {
		Identity *struct {
			Email string `json:"email"`
		} `json:"identity"`
		IsLoading bool `json:"is_loading"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &state))
	require.NotNil(t, state.Identity)
	assert.Equal(t, "http@example.com", state.Identity.Email)
	assert.False(t, state.IsLoading)

	recorder, _ = call(t, router, http.MethodPost, "/api/v1/auth/signout", "", cookie)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	cleared := sessionCookie(recorder)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	_, body = call(t, router, http.MethodGet, "/api/v1/auth/session", "", cookie)
	require.NoError(t, json.Unmarshal(body.Data, &state))
	assert.Nil(t, state.Identity)
}

/*
TestHandler_Rejections verifies validation and credential failures.
*/
func TestHandler_Rejections(t *testing.T) {
	f := newFixture(t, nil)
	router := newAuthRouter(f)
	signUp(t, f, "member@example.com")

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"malformed json", "/api/v1/auth/signin", `{`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad email", "/api/v1/auth/signup", `{"email":"nope","password":"secret-password"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"short password", "/api/v1/auth/signup", `{"email":"a@example.com","password":"123"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing password", "/api/v1/auth/signin", `{"email":"member@example.com"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrong password", "/api/v1/auth/signin", `{"email":"member@example.com","password":"wrong-one"}`, http.StatusUnauthorized, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, body := call(t, router, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Equal(t, tt.wantErr, body.Code)
			assert.Equal(t, "null", string(body.Data))
			assert.Nil(t, sessionCookie(recorder))
		})
	}
}

/*
TestHandler_SignUpPending verifies the confirmation response carries no cookie.
*/
func TestHandler_SignUpPending(t *testing.T) {
	f := newFixture(t, nil, supabasetest.WithEmailConfirmation())
	router := newAuthRouter(f)

	recorder, body := call(t, router, http.MethodPost, "/api/v1/auth/signup",
		`{"email":"later@example.com","password":"secret-password"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, sessionCookie(recorder))

	var result auth.SignUpResult
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.True(t, result.PendingConfirmation)
	assert.Equal(t, auth.MessagePendingConfirmation, result.Message)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/diary/internal/api"
	"github.com/taibuivan/diary/internal/auth"
	"github.com/taibuivan/diary/internal/diary/comment"
	"github.com/taibuivan/diary/internal/diary/post"
	"github.com/taibuivan/diary/internal/diary/profile"
	"github.com/taibuivan/diary/internal/platform/config"
	"github.com/taibuivan/diary/internal/platform/constants"
	"github.com/taibuivan/diary/internal/platform/metrics"
	"github.com/taibuivan/diary/internal/platform/supabase"
	"github.com/taibuivan/diary/internal/platform/supabase/supabasetest"
	"github.com/taibuivan/diary/internal/session"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *string         `json:"error"`
	Code  string          `json:"code"`
}

func newTestServer(t *testing.T, health api.HealthDependencies) (*supabasetest.Server, http.Handler) {
	t.Helper()

	fake := supabasetest.New(t, supabasetest.WithProfileTrigger())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	collector := metrics.NewCollector(prometheus.NewRegistry())

	client := supabase.New(supabase.Config{
		URL:      fake.URL,
		AnonKey:  supabasetest.AnonKey,
		Observer: collector,
	})

	authService := auth.NewService(client, auth.NewMemorySessionRepository(), session.NewBus(), nil, collector, logger)
	commentService := comment.NewService(comment.NewRemoteRepository(client), logger)
	liveness, readiness := api.NewHealthHandlers(health, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, &config.Config{ServerPort: "0", Environment: "test"}, logger, authService, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   collector.Handler(),
		Auth:      auth.NewHandler(authService, false),
		Profile:   profile.NewHandler(profile.NewService(profile.NewRemoteRepository(client), logger)),
		Post:      post.NewHandler(post.NewService(post.NewRemoteRepository(client), logger), commentService),
		Comment:   comment.NewHandler(commentService),
	})
	return fake, server.Handler()
}

func do(t *testing.T, handler http.Handler, method, path, body string, cookie *http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	request.RemoteAddr = "192.0.2.10:4000"
	if cookie != nil {
		request.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	var decoded envelope
	if strings.HasPrefix(recorder.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder, decoded
}

func cookieFrom(recorder *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			return cookie
		}
	}
	return nil
}

/*
TestServer_DiaryFlow signs up, writes an entry, and reads it back through
the full middleware chain.
*/
func TestServer_DiaryFlow(t *testing.T) {
	_, handler := newTestServer(t, api.HealthDependencies{})

	recorder, _ := do(t, handler, http.MethodPost, "/api/v1/auth/signup",
		`{"email":"flow@example.com","password":"secret-password","full_name":"Flow Kim"}`, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)
	cookie := cookieFrom(recorder)
	require.NotNil(t, cookie)

	recorder, body := do(t, handler, http.MethodGet, "/api/v1/profiles/me", "", cookie)
	require.Equal(t, http.StatusOK, recorder.Code)
	var me profile.Profile
	require.NoError(t, json.Unmarshal(body.Data, &me))
	require.NotNil(t, me.FullName)
	assert.Equal(t, "Flow Kim", *me.FullName)

	recorder, body = do(t, handler, http.MethodPost, "/api/v1/posts",
		`{"content":"좋은 하루","mood":"happy"}`, cookie)
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created post.Post
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, me.ID, created.AuthorID)

	recorder, _ = do(t, handler, http.MethodPost, "/api/v1/posts/"+created.ID+"/comments", `{"content":"힘내세요"}`, cookie)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder, body = do(t, handler, http.MethodGet, "/api/v1/users/"+me.ID+"/posts", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var mine []post.Post
	require.NoError(t, json.Unmarshal(body.Data, &mine))
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].AuthorName)
	assert.Equal(t, "Flow Kim", *mine[0].AuthorName)
	assert.Equal(t, "flow@example.com", mine[0].AuthorEmail)
	assert.Equal(t, 1, mine[0].CommentsCount)

	recorder, _ = do(t, handler, http.MethodPost, "/api/v1/posts", `{"content":"x"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))
}

/*
TestServer_Health verifies liveness, readiness and the metrics endpoint.
*/
func TestServer_Health(t *testing.T) {
	_, handler := newTestServer(t, api.HealthDependencies{
		CheckRemote: func(context.Context) error { return nil },
		CheckCache:  func(context.Context) error { return errors.New("redis down") },
	})

	recorder, _ := do(t, handler, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder, body := do(t, handler, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	var ready struct {
		Status string `json:"status"`
		Checks []struct {
			Name string `json:"name"`
			OK   bool   `json:"ok"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &ready))
	assert.Equal(t, "degraded", ready.Status)
	require.Len(t, ready.Checks, 2)
	assert.True(t, ready.Checks[0].OK)
	assert.False(t, ready.Checks[1].OK)

	do(t, handler, http.MethodGet, "/api/v1/posts", "", nil)
	recorder, _ = do(t, handler, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "diary_remote_calls_total")
}

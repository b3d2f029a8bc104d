// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package supabase is the client for the hosted backend-as-a-service platform.

It speaks the platform's two HTTP APIs:

  - REST (PostgREST): table-scoped select/insert/update/delete with filter
    predicates, under /rest/v1.
  - Auth (GoTrue): sign-up, password sign-in, refresh, sign-out and user
    lookup, under /auth/v1.

A [Client] is immutable. [Client.WithAccessToken] returns a copy whose table
requests run with the caller's row-level security scope; the zero scope is
the anonymous role.

Every call reports its outcome to an optional [Observer] (see internal/platform/metrics).
*/
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	restPath = "/rest/v1/"
	authPath = "/auth/v1/"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Observer receives the outcome of every remote call.
type Observer interface {
	ObserveRemoteCall(resource, operation, outcome string, elapsed time.Duration)
}

// Config configures a [Client].
type Config struct {
	// URL is the project URL, e.g. https://xyz.supabase.co.
	URL string

	// AnonKey is the public API key sent with every request.
	AnonKey string

	// HTTPClient defaults to a client with a 10s timeout.
	HTTPClient *http.Client

	// Observer is optional.
	Observer Observer
}

// Client is a handle on the remote platform.
type Client struct {
	baseURL     *url.URL
	anonKey     string
	httpClient  *http.Client
	observer    Observer
	accessToken string
	configErr   error
}

// New builds a [Client]. Missing or malformed settings do not fail here:
// the resulting client reports [Client.Configured] false and every call
// fails with a not-configured [Error].
func New(cfg Config) *Client {
	client := &Client{
		anonKey:    cfg.AnonKey,
		httpClient: cfg.HTTPClient,
		observer:   cfg.Observer,
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	switch {
	case strings.TrimSpace(cfg.URL) == "" || cfg.AnonKey == "":
		client.configErr = errors.New("supabase url or anon key is not set")
	default:
		parsed, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			client.configErr = fmt.Errorf("supabase url %q is invalid", cfg.URL)
		} else {
			client.baseURL = parsed
		}
	}

	return client
}

// Configured reports whether the client can reach a platform at all.
func (client *Client) Configured() bool {
	return client.configErr == nil
}

// WithAccessToken returns a copy of the client scoped to a user's access token.
// An empty token returns the anonymous scope.
func (client *Client) WithAccessToken(token string) *Client {
	clone := *client
	clone.accessToken = token
	return &clone
}

// From starts a query against a table or view.
func (client *Client) From(table string) *Query {
	return &Query{
		client:  client,
		table:   table,
		method:  http.MethodGet,
		columns: "*",
		params:  url.Values{},
	}
}

// Ping checks that the REST endpoint answers.
func (client *Client) Ping(ctx context.Context) error {
	return client.send(ctx, call{
		resource:  "rest",
		operation: "ping",
		method:    http.MethodGet,
		path:      restPath,
	}, nil)
}

// # Transport

// call describes one HTTP exchange with the platform.
type call struct {
	resource  string
	operation string
	method    string
	path      string
	query     url.Values
	headers   http.Header
	body      any
	bearer    string

	// onResponse, if set, sees the headers of a successful response.
	onResponse func(http.Header)
}

// send executes c and decodes a successful JSON response into dest (if non-nil).
func (client *Client) send(ctx context.Context, c call, dest any) (err error) {
	started := time.Now()
	defer func() {
		client.observe(c, err, time.Since(started))
	}()

	if client.configErr != nil {
		return &Error{Op: c.operation, Resource: c.resource, Code: CodeNotConfigured, Message: client.configErr.Error()}
	}

	target := *client.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + c.path
	if len(c.query) > 0 {
		target.RawQuery = c.query.Encode()
	}

	var payload io.Reader
	if c.body != nil {
		encoded, marshalErr := json.Marshal(c.body)
		if marshalErr != nil {
			return fmt.Errorf("supabase_encode_failed: %w", marshalErr)
		}
		payload = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, c.method, target.String(), payload)
	if err != nil {
		return fmt.Errorf("supabase_request_build_failed: %w", err)
	}

	bearer := c.bearer
	if bearer == "" {
		bearer = client.anonKey
	}
	request.Header.Set("apikey", client.anonKey)
	request.Header.Set("Authorization", "Bearer "+bearer)
	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	for key, values := range c.headers {
		request.Header[key] = values
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return &Error{Op: c.operation, Resource: c.resource, Code: CodeNetwork, Message: "remote platform is unreachable", Cause: err}
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		return decodeError(c, response.StatusCode, body)
	}

	if c.onResponse != nil {
		c.onResponse(response.Header)
	}

	if dest == nil || response.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("supabase_decode_failed: %w", err)
	}

	return nil
}

func (client *Client) observe(c call, err error, elapsed time.Duration) {
	if client.observer == nil {
		return
	}

	outcome := "ok"
	var remoteErr *Error
	switch {
	case err == nil:
	case errors.As(err, &remoteErr):
		outcome = remoteErr.outcome()
	default:
		outcome = "error"
	}

	client.observer.ObserveRemoteCall(c.resource, c.operation, outcome, elapsed)
}

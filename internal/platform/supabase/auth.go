// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// # Auth Types

// User is the platform's account record.
type User struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	Role             string         `json:"role,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	LastSignInAt     *time.Time     `json:"last_sign_in_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// AuthSession is a token pair issued by the platform.
type AuthSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

// Expiry returns the absolute expiry, deriving it from ExpiresIn when needed.
func (s *AuthSession) Expiry(issuedAt time.Time) time.Time {
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0).UTC()
	}
	return issuedAt.Add(time.Duration(s.ExpiresIn) * time.Second).UTC()
}

// SignUpResult carries a session when the account is immediately usable,
// or only the user when the platform requires email confirmation first.
type SignUpResult struct {
	Session *AuthSession
	User    User
}

// PendingConfirmation reports that no session was issued.
func (r SignUpResult) PendingConfirmation() bool {
	return r.Session == nil
}

// # Auth Operations

type passwordGrant struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// SignUp registers an account. metadata is stored as the user's metadata.
func (client *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (SignUpResult, error) {
	var raw json.RawMessage
	err := client.send(ctx, call{
		resource:  "auth",
		operation: "signup",
		method:    http.MethodPost,
		path:      authPath + "signup",
		body:      passwordGrant{Email: email, Password: password, Data: metadata},
	}, &raw)
	if err != nil {
		return SignUpResult{}, err
	}

	var issued AuthSession
	if err := json.Unmarshal(raw, &issued); err == nil && issued.AccessToken != "" {
		return SignUpResult{Session: &issued, User: issued.User}, nil
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return SignUpResult{}, err
	}
	return SignUpResult{User: user}, nil
}

// SignInWithPassword exchanges credentials for a session.
func (client *Client) SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error) {
	return client.token(ctx, "password", passwordGrant{Email: email, Password: password})
}

// RefreshSession exchanges a refresh token for a new session.
func (client *Client) RefreshSession(ctx context.Context, refreshToken string) (*AuthSession, error) {
	return client.token(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (client *Client) token(ctx context.Context, grant string, body any) (*AuthSession, error) {
	var issued AuthSession
	err := client.send(ctx, call{
		resource:  "auth",
		operation: grant,
		method:    http.MethodPost,
		path:      authPath + "token",
		query:     url.Values{"grant_type": {grant}},
		body:      body,
	}, &issued)
	if err != nil {
		return nil, err
	}
	return &issued, nil
}

// SignOut revokes the session behind accessToken.
func (client *Client) SignOut(ctx context.Context, accessToken string) error {
	return client.send(ctx, call{
		resource:  "auth",
		operation: "logout",
		method:    http.MethodPost,
		path:      authPath + "logout",
		bearer:    accessToken,
	}, nil)
}

// GetUser resolves the user an access token belongs to.
func (client *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	err := client.send(ctx, call{
		resource:  "auth",
		operation: "user",
		method:    http.MethodGet,
		path:      authPath + "user",
		bearer:    accessToken,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

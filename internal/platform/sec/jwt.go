// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec verifies access tokens issued by the remote platform.
//
// # Architecture
//
// The platform signs its access tokens with the project's JWT secret (HS256).
// When that secret is configured, the API resolves the caller of a bearer
// token locally instead of asking the platform on every request.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrVerifierDisabled is returned when no signing secret is configured.
var ErrVerifierDisabled = errors.New("sec: token verification is disabled")

// AccessClaims is the payload of a platform access token.
type AccessClaims struct {
	jwt.RegisteredClaims

	Email     string       `json:"email"`
	Role      PlatformRole `json:"role"`
	SessionID string       `json:"session_id"`
}

// UserID returns the subject the token was issued to.
func (c *AccessClaims) UserID() string {
	return c.Subject
}

// Expiry returns the token expiry, zero when the claim is absent.
func (c *AccessClaims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// TokenVerifier checks platform access tokens against the shared secret.
type TokenVerifier struct {
	secret []byte
	leeway time.Duration
}

// NewTokenVerifier creates a verifier. An empty secret yields a disabled verifier.
func NewTokenVerifier(secret string, leeway time.Duration) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), leeway: leeway}
}

// Enabled reports whether tokens can be verified locally.
func (verifier *TokenVerifier) Enabled() bool {
	return verifier != nil && len(verifier.secret) > 0
}

// Verify checks the signature, expiry and role of a token string.
func (verifier *TokenVerifier) Verify(tokenString string) (*AccessClaims, error) {
	if !verifier.Enabled() {
		return nil, ErrVerifierDisabled
	}

	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return verifier.secret, nil
	}, jwt.WithLeeway(verifier.leeway), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	if !claims.Role.IsAuthenticated() || claims.Subject == "" {
		return nil, fmt.Errorf("sec: token does not carry a user identity")
	}

	return claims, nil
}

// ReadClaims decodes a token's claims WITHOUT checking its signature. Use it
// only on tokens the platform has already vouched for.
func ReadClaims(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("sec: malformed token: %w", err)
	}
	return claims, nil
}

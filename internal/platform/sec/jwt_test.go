// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/diary/internal/platform/sec"
)

const secret = "super-secret-jwt-token-with-at-least-32-characters"

func sign(t *testing.T, key string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

/*
TestTokenVerifier_Verify covers valid, expired, foreign and anonymous tokens.
*/
func TestTokenVerifier_Verify(t *testing.T) {
	verifier := sec.NewTokenVerifier(secret, 5*time.Second)
	now := time.Now()

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{
			name: "valid user token",
			token: sign(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": "u1", "email": "u1@example.com", "role": "authenticated", "exp": now.Add(time.Hour).Unix(),
			}),
		},
		{
			name: "expired",
			token: sign(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": "u1", "role": "authenticated", "exp": now.Add(-time.Minute).Unix(),
			}),
			wantErr: true,
		},
		{
			name: "wrong secret",
			token: sign(t, "another-secret", jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": "u1", "role": "authenticated", "exp": now.Add(time.Hour).Unix(),
			}),
			wantErr: true,
		},
		{
			name: "anon key",
			token: sign(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{
				"role": "anon", "exp": now.Add(time.Hour).Unix(),
			}),
			wantErr: true,
		},
		{
			name: "missing expiry",
			token: sign(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": "u1", "role": "authenticated",
			}),
			wantErr: true,
		},
		{name: "garbage", token: "not-a-token", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := verifier.Verify(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", claims.UserID())
			assert.Equal(t, "u1@example.com", claims.Email)
			assert.False(t, claims.Expiry().IsZero())
		})
	}
}

/*
TestTokenVerifier_Disabled verifies that an empty secret disables local checks.
*/
func TestTokenVerifier_Disabled(t *testing.T) {
	verifier := sec.NewTokenVerifier("", 0)

	assert.False(t, verifier.Enabled())
	_, err := verifier.Verify("anything")
	assert.ErrorIs(t, err, sec.ErrVerifierDisabled)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Locally assigned error codes. Remote codes (PostgreSQL SQLSTATE, PGRSTxxx,
// GoTrue error_code) are passed through unchanged.
const (
	CodeNotConfigured = "not_configured"
	CodeNetwork       = "network_error"
)

// Remote codes the domain layer branches on.
const (
	codeNoRows          = "PGRST116"
	codeMissingSchema   = "PGRST205"
	codeUndefinedTable  = "42P01"
	codeInsufficientRLS = "42501"
)

// Error is a failed platform call.
type Error struct {
	Op       string
	Resource string
	Status   int
	Code     string
	Message  string
	Details  string
	Hint     string
	Cause    error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "supabase %s %s", e.Resource, e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) outcome() string {
	switch {
	case e.Code == CodeNotConfigured:
		return "not_configured"
	case e.Status == 0:
		return "network"
	case e.Status >= http.StatusInternalServerError:
		return "server_error"
	default:
		return "client_error"
	}
}

// errorBody covers both the REST and the Auth error shapes.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	Message          string          `json:"message"`
	Details          string          `json:"details"`
	Hint             string          `json:"hint"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func decodeError(c call, status int, body []byte) *Error {
	remote := &Error{Op: c.operation, Resource: c.resource, Status: status}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		remote.Message = strings.TrimSpace(string(body))
		if remote.Message == "" {
			remote.Message = http.StatusText(status)
		}
		return remote
	}

	// REST codes are strings, Auth codes are the numeric HTTP status.
	var code string
	if json.Unmarshal(parsed.Code, &code) == nil {
		remote.Code = code
	}
	if parsed.ErrorCode != "" {
		remote.Code = parsed.ErrorCode
	}

	remote.Message = firstNonEmpty(parsed.Message, parsed.Msg, parsed.ErrorDescription, parsed.Error, http.StatusText(status))
	remote.Details = parsed.Details
	remote.Hint = parsed.Hint

	return remote
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// # Classification

func asError(err error) (*Error, bool) {
	var remote *Error
	ok := errors.As(err, &remote)
	return remote, ok
}

// IsNoRows reports whether a single-row read matched nothing.
func IsNoRows(err error) bool {
	remote, ok := asError(err)
	return ok && (remote.Code == codeNoRows || remote.Status == http.StatusNotAcceptable)
}

// IsMissingRelation reports whether the table or view does not exist.
func IsMissingRelation(err error) bool {
	remote, ok := asError(err)
	if !ok {
		return false
	}
	return remote.Code == codeUndefinedTable || remote.Code == codeMissingSchema || remote.Status == http.StatusNotFound
}

// IsPermission reports a row-level security or credential rejection.
func IsPermission(err error) bool {
	remote, ok := asError(err)
	if !ok {
		return false
	}
	return remote.Code == codeInsufficientRLS || remote.Status == http.StatusUnauthorized || remote.Status == http.StatusForbidden
}

// IsUnavailable reports that the platform could not be reached or is not configured.
func IsUnavailable(err error) bool {
	remote, ok := asError(err)
	return ok && (remote.Code == CodeNotConfigured || remote.Code == CodeNetwork || remote.Status >= http.StatusInternalServerError)
}

// IsInvalidCredentials reports a rejected password sign-in or refresh token.
func IsInvalidCredentials(err error) bool {
	remote, ok := asError(err)
	if !ok {
		return false
	}
	switch remote.Code {
	case "invalid_credentials", "invalid_grant", "refresh_token_not_found", "refresh_token_already_used":
		return true
	}
	return remote.Resource == "auth" && remote.Status == http.StatusBadRequest && strings.Contains(strings.ToLower(remote.Message), "invalid")
}

// Message returns the remote's human-readable message for err, or err.Error().
func Message(err error) string {
	if remote, ok := asError(err); ok && remote.Message != "" {
		return remote.Message
	}
	return err.Error()
}

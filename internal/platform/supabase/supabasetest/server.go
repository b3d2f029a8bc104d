// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package supabasetest runs an in-memory stand-in for the hosted platform.

The [Server] speaks enough of the REST and Auth APIs for the diary tables:

  - profiles, posts, comments and the posts_with_author/comments_with_author views
  - eq/ilike filters, or(...) disjunctions, order, limit/offset, single-object reads
  - row ownership enforced the way the platform's row-level security policies do:
    inserts must carry the caller's id, updates and deletes silently skip foreign rows,
    private posts are hidden from everyone but their author
  - sign-up (optionally with email confirmation), password and refresh grants,
    logout and user lookup, with HS256 access tokens

It is meant for tests only.
*/
package supabasetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taibuivan/diary/internal/platform/supabase"
)

const (
	// AnonKey is the public API key the server accepts.
	AnonKey = "test-anon-key"

	// JWTSecret signs every access token the server issues.
	JWTSecret = "test-jwt-secret-with-enough-entropy"

	timestampLayout = "2006-01-02T15:04:05.000000Z"
	dateLayout      = "2006-01-02"
)

// Row is one stored record.
type Row = map[string]any

type account struct {
	id        string
	email     string
	password  string
	metadata  map[string]any
	confirmed bool
	createdAt time.Time
	lastLogin time.Time
}

type grant struct {
	userID    string
	sessionID string
}

// Option configures a [Server].
type Option func(*Server)

// WithEmailConfirmation makes sign-up return a user without a session until
// [Server.ConfirmEmail] is called.
func WithEmailConfirmation() Option {
	return func(s *Server) { s.requireConfirmation = true }
}

// WithProfileTrigger creates a profiles row on every sign-up.
func WithProfileTrigger() Option {
	return func(s *Server) { s.profileTrigger = true }
}

// WithClock replaces the server clock.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// Server is the fake platform.
type Server struct {
	URL string

	http *httptest.Server

	mu                  sync.Mutex
	tables              map[string][]Row
	dropped             map[string]bool
	calls               map[string]int
	accounts            map[string]*account
	refreshTokens       map[string]grant
	tokenTTL            time.Duration
	requireConfirmation bool
	profileTrigger      bool
	now                 func() time.Time
}

// New starts a server that is closed when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	server := &Server{
		tables: map[string][]Row{
			"profiles": {},
			"posts":    {},
			"comments": {},
		},
		dropped:       map[string]bool{},
		calls:         map[string]int{},
		accounts:      map[string]*account{},
		refreshTokens: map[string]grant{},
		tokenTTL:      time.Hour,
	}

	// Strictly increasing timestamps keep created_at ordering deterministic.
	tick := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	server.now = func() time.Time {
		tick = tick.Add(time.Millisecond)
		return tick
	}

	for _, opt := range opts {
		opt(server)
	}

	router := chi.NewRouter()
	router.Get("/rest/v1/", func(writer http.ResponseWriter, _ *http.Request) {
		writeJSON(writer, http.StatusOK, map[string]any{})
	})
	router.HandleFunc("/rest/v1/{table}", server.serveTable)
	router.Post("/auth/v1/signup", server.signUp)
	router.Post("/auth/v1/token", server.token)
	router.Post("/auth/v1/logout", server.logout)
	router.Get("/auth/v1/user", server.user)

	server.http = httptest.NewServer(router)
	server.URL = server.http.URL
	t.Cleanup(server.http.Close)

	return server
}

// Client returns an anonymous client pointed at the server.
func (s *Server) Client() *supabase.Client {
	return supabase.New(supabase.Config{URL: s.URL, AnonKey: AnonKey})
}

// Close stops the server; later calls fail as network errors.
func (s *Server) Close() {
	s.http.Close()
}

// # Test Controls

// DropTable makes a table (and the views built on it) disappear.
func (s *Server) DropTable(table string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropped[table] = true
}

// Seed stores rows as-is, bypassing ownership rules.
func (s *Server) Seed(table string, rows ...Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.tables[table] = append(s.tables[table], copyRow(row))
	}
}

// Rows returns a copy of every stored row of a table.
func (s *Server) Rows(table string) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, 0, len(s.tables[table]))
	for _, row := range s.tables[table] {
		out = append(out, copyRow(row))
	}
	return out
}

// Calls reports how many REST requests have targeted a table or view.
func (s *Server) Calls(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[table]
}

// ConfirmEmail marks an account as confirmed.
func (s *Server) ConfirmEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct, ok := s.accounts[strings.ToLower(email)]; ok {
		acct.confirmed = true
	}
}

// SetTokenTTL changes the lifetime of access tokens issued from now on.
func (s *Server) SetTokenTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenTTL = ttl
}

// # REST

func (s *Server) serveTable(writer http.ResponseWriter, request *http.Request) {
	table := chi.URLParam(request, "table")

	if request.Header.Get("apikey") != AnonKey {
		writeJSON(writer, http.StatusUnauthorized, map[string]any{"message": "Invalid API key"})
		return
	}

	uid, ok := s.caller(request)
	if !ok {
		writeJSON(writer, http.StatusUnauthorized, map[string]any{"code": "PGRST301", "message": "JWT expired"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[table]++

	if !s.exists(table) {
		writeJSON(writer, http.StatusNotFound, map[string]any{
			"code":    "PGRST205",
			"message": fmt.Sprintf("Could not find the table 'public.%s' in the schema cache", table),
		})
		return
	}

	single := strings.Contains(request.Header.Get("Accept"), "vnd.pgrst.object")
	query := request.URL.Query()

	switch request.Method {
	case http.MethodGet:
		s.selectRows(writer, table, uid, query, single, strings.Contains(request.Header.Get("Prefer"), "count=exact"))
	case http.MethodPost:
		s.insertRows(writer, request, table, uid, single)
	case http.MethodPatch:
		s.updateRows(writer, request, table, uid, query, single)
	case http.MethodDelete:
		s.deleteRows(writer, table, uid, query, single)
	default:
		writeJSON(writer, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
	}
}

func (s *Server) exists(table string) bool {
	switch table {
	case "profiles", "posts", "comments":
		return !s.dropped[table]
	case "posts_with_author":
		return !s.dropped["posts"] && !s.dropped["profiles"]
	case "comments_with_author":
		return !s.dropped["comments"] && !s.dropped["profiles"]
	}
	return false
}

func (s *Server) selectRows(writer http.ResponseWriter, table, uid string, query map[string][]string, single, count bool) {
	rows, err := filterRows(s.visible(table, uid), query)
	if err != nil {
		writeJSON(writer, http.StatusBadRequest, map[string]any{"code": "PGRST100", "message": err.Error()})
		return
	}

	if order := first(query, "order"); order != "" {
		sortRows(rows, order)
	}

	total := len(rows)
	rows = window(rows, first(query, "offset"), first(query, "limit"))
	rows = project(table, s.computed(table, rows), first(query, "select"))

	if count {
		writer.Header().Set("Content-Range", contentRange(first(query, "offset"), len(rows), total))
	}

	respondRows(writer, http.StatusOK, rows, single)
}

func (s *Server) insertRows(writer http.ResponseWriter, request *http.Request, table, uid string, single bool) {
	if strings.HasSuffix(table, "_with_author") {
		writeJSON(writer, http.StatusMethodNotAllowed, map[string]any{"code": "55000", "message": "cannot insert into view"})
		return
	}

	incoming, err := decodeRows(request)
	if err != nil {
		writeJSON(writer, http.StatusBadRequest, map[string]any{"code": "PGRST102", "message": err.Error()})
		return
	}

	stamp := s.now().UTC()
	created := make([]Row, 0, len(incoming))
	for _, row := range incoming {
		if !ownsNewRow(table, uid, row) {
			writeJSON(writer, http.StatusForbidden, map[string]any{
				"code":    "42501",
				"message": fmt.Sprintf("new row violates row-level security policy for table %q", table),
			})
			return
		}

		if msg, code := s.checkConstraints(table, row); msg != "" {
			writeJSON(writer, http.StatusConflict, map[string]any{"code": code, "message": msg})
			return
		}

		stored := copyRow(row)
		if _, ok := stored["id"]; !ok {
			stored["id"] = uuid.NewString()
		}
		stored["created_at"] = stamp.Format(timestampLayout)
		stored["updated_at"] = stamp.Format(timestampLayout)
		applyDefaults(table, stored, stamp)

		s.tables[table] = append(s.tables[table], stored)
		created = append(created, copyRow(stored))
	}

	respondRows(writer, http.StatusCreated, project(table, s.computed(table, created), request.URL.Query().Get("select")), single)
}

func (s *Server) updateRows(writer http.ResponseWriter, request *http.Request, table, uid string, query map[string][]string, single bool) {
	incoming, err := decodeRows(request)
	if err != nil || len(incoming) != 1 {
		writeJSON(writer, http.StatusBadRequest, map[string]any{"code": "PGRST102", "message": "patch body must be one object"})
		return
	}
	patch := incoming[0]

	matched, err := filterRows(s.tables[table], query)
	if err != nil {
		writeJSON(writer, http.StatusBadRequest, map[string]any{"code": "PGRST100", "message": err.Error()})
		return
	}

	stamp := s.now().UTC().Format(timestampLayout)
	updated := []Row{}
	for _, row := range matched {
		if !ownsRow(table, uid, row) {
			continue
		}
		for key, value := range patch {
			switch key {
			case "id", "author_id", "created_at":
				continue
			}
			row[key] = value
		}
		row["updated_at"] = stamp
		updated = append(updated, copyRow(row))
	}

	respondRows(writer, http.StatusOK, project(table, s.computed(table, updated), request.URL.Query().Get("select")), single)
}

func (s *Server) deleteRows(writer http.ResponseWriter, table, uid string, query map[string][]string, single bool) {
	matched, err := filterRows(s.tables[table], query)
	if err != nil {
		writeJSON(writer, http.StatusBadRequest, map[string]any{"code": "PGRST100", "message": err.Error()})
		return
	}

	doomed := map[any]bool{}
	deleted := []Row{}
	for _, row := range matched {
		if ownsRow(table, uid, row) {
			doomed[row["id"]] = true
			deleted = append(deleted, copyRow(row))
		}
	}

	kept := s.tables[table][:0]
	for _, row := range s.tables[table] {
		if !doomed[row["id"]] {
			kept = append(kept, row)
		}
	}
	s.tables[table] = kept

	// comments.post_id references posts(id) on delete cascade.
	if table == "posts" && len(doomed) > 0 {
		remaining := s.tables["comments"][:0]
		for _, comment := range s.tables["comments"] {
			if !doomed[comment["post_id"]] {
				remaining = append(remaining, comment)
			}
		}
		s.tables["comments"] = remaining
	}

	respondRows(writer, http.StatusOK, deleted, single)
}

// visible applies the select policies and materializes views.
func (s *Server) visible(table, uid string) []Row {
	switch table {
	case "posts":
		return s.visiblePosts(uid)
	case "posts_with_author":
		rows := s.visiblePosts(uid)
		for _, row := range rows {
			s.attachAuthor(row)
			row["comments_count"] = s.countComments(row["id"])
		}
		return rows
	case "comments_with_author":
		rows := copyRows(s.tables["comments"])
		for _, row := range rows {
			s.attachAuthor(row)
		}
		return rows
	default:
		return copyRows(s.tables[table])
	}
}

func (s *Server) visiblePosts(uid string) []Row {
	var rows []Row
	for _, row := range s.tables["posts"] {
		if row["is_private"] == true && row["author_id"] != uid {
			continue
		}
		rows = append(rows, copyRow(row))
	}
	return rows
}

func (s *Server) attachAuthor(row Row) {
	row["author_name"] = nil
	row["author_email"] = nil
	for _, profile := range s.tables["profiles"] {
		if profile["id"] == row["author_id"] {
			row["author_name"] = profile["full_name"]
		}
	}
	for _, acct := range s.accounts {
		if acct.id == row["author_id"] {
			row["author_email"] = acct.email
		}
	}
}

// computed fills the computed columns of a base table. [project] drops them
// again unless the select list names them, as PostgREST does.
func (s *Server) computed(table string, rows []Row) []Row {
	if table == "posts" {
		for _, row := range rows {
			row["comments_count"] = s.countComments(row["id"])
		}
	}
	return rows
}

func (s *Server) countComments(postID any) int {
	n := 0
	for _, comment := range s.tables["comments"] {
		if comment["post_id"] == postID {
			n++
		}
	}
	return n
}

func (s *Server) checkConstraints(table string, row Row) (string, string) {
	if id, ok := row["id"]; ok {
		for _, existing := range s.tables[table] {
			if existing["id"] == id {
				return fmt.Sprintf("duplicate key value violates unique constraint %q", table+"_pkey"), "23505"
			}
		}
	}

	if table == "comments" {
		for _, post := range s.tables["posts"] {
			if post["id"] == row["post_id"] {
				return "", ""
			}
		}
		return `insert or update on table "comments" violates foreign key constraint "comments_post_id_fkey"`, "23503"
	}

	return "", ""
}

func ownsNewRow(table, uid string, row Row) bool {
	if uid == "" {
		return false
	}
	switch table {
	case "profiles":
		return row["id"] == uid
	default:
		return row["author_id"] == uid
	}
}

func ownsRow(table, uid string, row Row) bool {
	return ownsNewRow(table, uid, row)
}

func applyDefaults(table string, row Row, stamp time.Time) {
	if table != "posts" {
		return
	}
	if _, ok := row["is_private"]; !ok {
		row["is_private"] = false
	}
	if date, ok := row["diary_date"]; !ok || date == nil {
		row["diary_date"] = stamp.Format(dateLayout)
	}
}

// caller resolves the bearer token to a user id; the anon key is the empty id.
func (s *Server) caller(request *http.Request) (string, bool) {
	bearer := strings.TrimPrefix(request.Header.Get("Authorization"), "Bearer ")
	if bearer == "" || bearer == AnonKey {
		return "", true
	}

	claims, err := parseToken(bearer)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}

// # Query Evaluation

func filterRows(rows []Row, query map[string][]string) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		keep := true
		for key, values := range query {
			switch key {
			case "select", "order", "limit", "offset":
				continue
			case "or":
				for _, value := range values {
					clauses, err := parseOr(value)
					if err != nil {
						return nil, err
					}
					if !matchAny(row, clauses) {
						keep = false
					}
				}
			default:
				for _, value := range values {
					op, operand, _ := strings.Cut(value, ".")
					if !matches(row[key], op, operand) {
						keep = false
					}
				}
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out, nil
}

type clause struct {
	column  string
	op      string
	operand string
}

// parseOr reads "(col.op.value,col.op.\"quoted, value\")".
func parseOr(expr string) ([]clause, error) {
	if !strings.HasPrefix(expr, "(") || !strings.HasSuffix(expr, ")") {
		return nil, fmt.Errorf("failed to parse logic tree (%s)", expr)
	}
	body := expr[1 : len(expr)-1]

	var parts []string
	var current strings.Builder
	quoted, escaped := false, false
	for _, r := range body {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quoted:
			escaped = true
		case r == '"':
			quoted = !quoted
		case r == ',' && !quoted:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	parts = append(parts, current.String())

	clauses := make([]clause, 0, len(parts))
	for _, part := range parts {
		pieces := strings.SplitN(strings.TrimSpace(part), ".", 3)
		if len(pieces) != 3 {
			return nil, fmt.Errorf("failed to parse filter (%s)", part)
		}
		clauses = append(clauses, clause{column: pieces[0], op: pieces[1], operand: pieces[2]})
	}
	return clauses, nil
}

func matchAny(row Row, clauses []clause) bool {
	for _, c := range clauses {
		if matches(row[c.column], c.op, c.operand) {
			return true
		}
	}
	return false
}

func matches(value any, op, operand string) bool {
	switch op {
	case "eq":
		return value != nil && fmt.Sprint(value) == operand
	case "neq":
		return value != nil && fmt.Sprint(value) != operand
	case "ilike":
		text, ok := value.(string)
		return ok && likeMatch(strings.ToLower(text), strings.ToLower(operand))
	}
	return false
}

// likeMatch supports '*' and '%' as multi-character wildcards.
func likeMatch(text, pattern string) bool {
	pattern = strings.ReplaceAll(pattern, "%", "*")
	segments := strings.Split(pattern, "*")
	if len(segments) == 1 {
		return text == pattern
	}
	if !strings.HasPrefix(text, segments[0]) {
		return false
	}
	text = text[len(segments[0]):]
	for _, segment := range segments[1 : len(segments)-1] {
		idx := strings.Index(text, segment)
		if idx < 0 {
			return false
		}
		text = text[idx+len(segment):]
	}
	return strings.HasSuffix(text, segments[len(segments)-1])
}

func sortRows(rows []Row, order string) {
	keys := strings.Split(order, ",")
	sort.SliceStable(rows, func(i, j int) bool {
		for _, key := range keys {
			column, direction, _ := strings.Cut(key, ".")
			a, b := fmt.Sprint(rows[i][column]), fmt.Sprint(rows[j][column])
			if a == b {
				continue
			}
			if strings.HasPrefix(direction, "desc") {
				return a > b
			}
			return a < b
		}
		return false
	})
}

func window(rows []Row, offset, limit string) []Row {
	start, _ := strconv.Atoi(offset)
	if start > len(rows) {
		start = len(rows)
	}
	rows = rows[start:]
	if n, err := strconv.Atoi(limit); err == nil && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

func project(table string, rows []Row, columns string) []Row {
	hidden := computedColumns[table]
	names := strings.Split(columns, ",")
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		picked := Row{}
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" || name == "*" {
				for key, value := range row {
					if !hidden[key] {
						picked[key] = value
					}
				}
				continue
			}
			picked[name] = row[name]
		}
		out = append(out, picked)
	}
	return out
}

// computedColumns are left out of "*" and only returned when named.
var computedColumns = map[string]map[string]bool{
	"posts": {"comments_count": true},
}

func contentRange(offset string, n, total int) string {
	start, _ := strconv.Atoi(offset)
	if n == 0 {
		return fmt.Sprintf("*/%d", total)
	}
	return fmt.Sprintf("%d-%d/%d", start, start+n-1, total)
}

// # Auth

type credentialsBody struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	Data         map[string]any `json:"data"`
	RefreshToken string         `json:"refresh_token"`
}

func (s *Server) signUp(writer http.ResponseWriter, request *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		authError(writer, http.StatusBadRequest, "bad_json", "Could not parse request body as JSON")
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))
	switch {
	case !strings.Contains(email, "@"):
		authError(writer, http.StatusBadRequest, "validation_failed", "Unable to validate email address: invalid format")
		return
	case len(body.Password) < 6:
		authError(writer, http.StatusUnprocessableEntity, "weak_password", "Password should be at least 6 characters.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.accounts[email]; taken {
		authError(writer, http.StatusUnprocessableEntity, "user_already_exists", "User already registered")
		return
	}

	stamp := s.now().UTC()
	acct := &account{
		id:        uuid.NewString(),
		email:     email,
		password:  body.Password,
		metadata:  body.Data,
		confirmed: !s.requireConfirmation,
		createdAt: stamp,
	}
	s.accounts[email] = acct

	if s.profileTrigger {
		s.tables["profiles"] = append(s.tables["profiles"], Row{
			"id":         acct.id,
			"full_name":  body.Data["full_name"],
			"created_at": stamp.Format(timestampLayout),
			"updated_at": stamp.Format(timestampLayout),
		})
	}

	if !acct.confirmed {
		writeJSON(writer, http.StatusOK, userJSON(acct))
		return
	}

	writeJSON(writer, http.StatusOK, s.issue(acct, uuid.NewString()))
}

func (s *Server) token(writer http.ResponseWriter, request *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		authError(writer, http.StatusBadRequest, "bad_json", "Could not parse request body as JSON")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch request.URL.Query().Get("grant_type") {
	case "password":
		acct, ok := s.accounts[strings.ToLower(strings.TrimSpace(body.Email))]
		if !ok || acct.password != body.Password {
			authError(writer, http.StatusBadRequest, "invalid_credentials", "Invalid login credentials")
			return
		}
		if !acct.confirmed {
			authError(writer, http.StatusBadRequest, "email_not_confirmed", "Email not confirmed")
			return
		}
		acct.lastLogin = s.now().UTC()
		writeJSON(writer, http.StatusOK, s.issue(acct, uuid.NewString()))

	case "refresh_token":
		previous, ok := s.refreshTokens[body.RefreshToken]
		if !ok {
			authError(writer, http.StatusBadRequest, "refresh_token_not_found", "Invalid Refresh Token: Refresh Token Not Found")
			return
		}
		delete(s.refreshTokens, body.RefreshToken)
		for _, acct := range s.accounts {
			if acct.id == previous.userID {
				writeJSON(writer, http.StatusOK, s.issue(acct, previous.sessionID))
				return
			}
		}
		authError(writer, http.StatusBadRequest, "user_not_found", "User not found")

	default:
		authError(writer, http.StatusBadRequest, "unsupported_grant_type", "unsupported_grant_type")
	}
}

func (s *Server) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := parseToken(strings.TrimPrefix(request.Header.Get("Authorization"), "Bearer "))
	if err != nil {
		authError(writer, http.StatusUnauthorized, "bad_jwt", "invalid JWT")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for token, issued := range s.refreshTokens {
		if issued.sessionID == claims.SessionID {
			delete(s.refreshTokens, token)
		}
	}
	writer.WriteHeader(http.StatusNoContent)
}

func (s *Server) user(writer http.ResponseWriter, request *http.Request) {
	claims, err := parseToken(strings.TrimPrefix(request.Header.Get("Authorization"), "Bearer "))
	if err != nil {
		authError(writer, http.StatusUnauthorized, "bad_jwt", "invalid JWT: unable to parse or verify signature")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range s.accounts {
		if acct.id == claims.Subject {
			writeJSON(writer, http.StatusOK, userJSON(acct))
			return
		}
	}
	authError(writer, http.StatusForbidden, "user_not_found", "User from sub claim in JWT does not exist")
}

// Claims is the access token payload.
type Claims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// IssueToken signs an access token for userID valid for ttl (negative for an expired token).
func IssueToken(userID, email string, ttl time.Duration) string {
	now := time.Now()
	claims := Claims{
		Email:     email,
		Role:      "authenticated",
		SessionID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{"authenticated"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	return signed
}

func (s *Server) issue(acct *account, sessionID string) map[string]any {
	now := time.Now()
	expires := now.Add(s.tokenTTL)
	claims := Claims{
		Email:     acct.email,
		Role:      "authenticated",
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   acct.id,
			Audience:  jwt.ClaimStrings{"authenticated"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))

	refresh := uuid.NewString()
	s.refreshTokens[refresh] = grant{userID: acct.id, sessionID: sessionID}

	return map[string]any{
		"access_token":  signed,
		"refresh_token": refresh,
		"token_type":    "bearer",
		"expires_in":    int(s.tokenTTL.Seconds()),
		"expires_at":    expires.Unix(),
		"user":          userJSON(acct),
	}
}

func parseToken(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func userJSON(acct *account) map[string]any {
	out := map[string]any{
		"id":            acct.id,
		"email":         acct.email,
		"role":          "authenticated",
		"user_metadata": acct.metadata,
		"created_at":    acct.createdAt.Format(time.RFC3339Nano),
	}
	if acct.confirmed {
		out["email_confirmed_at"] = acct.createdAt.Format(time.RFC3339Nano)
	}
	if !acct.lastLogin.IsZero() {
		out["last_sign_in_at"] = acct.lastLogin.Format(time.RFC3339Nano)
	}
	return out
}

func authError(writer http.ResponseWriter, status int, code, msg string) {
	writeJSON(writer, status, map[string]any{"code": status, "error_code": code, "msg": msg})
}

// # Helpers

func decodeRows(request *http.Request) ([]Row, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(request.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
		var rows []Row
		err := json.Unmarshal(raw, &rows)
		return rows, err
	}
	var row Row
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	return []Row{row}, nil
}

func respondRows(writer http.ResponseWriter, status int, rows []Row, single bool) {
	if !single {
		writeJSON(writer, status, rows)
		return
	}
	if len(rows) != 1 {
		writeJSON(writer, http.StatusNotAcceptable, map[string]any{
			"code":    "PGRST116",
			"message": "JSON object requested, multiple (or no) rows returned",
			"details": fmt.Sprintf("The result contains %d rows", len(rows)),
		})
		return
	}
	writeJSON(writer, status, rows[0])
}

func writeJSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}

func first(query map[string][]string, key string) string {
	if values := query[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func copyRow(row Row) Row {
	out := make(Row, len(row))
	for key, value := range row {
		out[key] = value
	}
	return out
}

func copyRows(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, copyRow(row))
	}
	return out
}

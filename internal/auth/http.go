// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/diary/internal/platform/constants"
	"github.com/taibuivan/diary/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/diary/internal/platform/request"
	"github.com/taibuivan/diary/internal/platform/respond"
	"github.com/taibuivan/diary/internal/platform/validate"
	"github.com/taibuivan/diary/internal/session"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService  *Service
	secureCookie bool
}

// NewHandler constructs a new [Handler]. secureCookie marks the session cookie
// Secure (HTTPS only); it is off in development.
func NewHandler(service *Service, secureCookie bool) *Handler {
	return &Handler{authService: service, secureCookie: secureCookie}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /signup  : Creates an account (active session or pending confirmation).
//   - POST /signin  : Authenticates and sets the session cookie.
//   - POST /signout : Ends the current session.
//   - GET  /session : Returns the current {identity, is_loading} state.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signUp)
	router.Post("/signin", handler.signIn)
	router.Post("/signout", handler.signOut)
	router.Get("/session", handler.currentSession)

	return router
}

// # Request Payloads

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is what the client learns about a new session.
type sessionResponse struct {
	Identity    session.Identity `json:"identity"`
	AccessToken string           `json:"access_token"`
	ExpiresAt   time.Time        `json:"expires_at"`
}

func newSessionResponse(sess *session.Session) sessionResponse {
	return sessionResponse{
		Identity:    sess.Identity,
		AccessToken: sess.Credentials.AccessToken,
		ExpiresAt:   sess.Credentials.ExpiresAt,
	}
}

/*
SignUp handles account creation.

POST /api/v1/auth/signup

Response:
  - 201: sessionResponse: Account is active, session cookie set
  - 200: SignUpResult: Confirmation email sent, no session
  - 400: Validation failure
  - 401: Platform rejection (message verbatim)
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input signUpRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 6).
		MaxLen(FieldFullName, input.FullName, 100)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.SignUp(request.Context(), SignUpInput{
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if result.PendingConfirmation {
		respond.OK(writer, result)
		return
	}

	handler.setSessionCookie(writer, result.Session.ID)
	respond.Created(writer, newSessionResponse(result.Session))
}

/*
SignIn authenticates a user and establishes a session.

POST /api/v1/auth/signin

Response:
  - 200: sessionResponse: Session cookie set
  - 401: Invalid credentials
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input signInRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	sess, err := handler.authService.SignIn(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, sess.ID)
	respond.OK(writer, newSessionResponse(sess))
}

/*
SignOut terminates the current session. Always succeeds.

POST /api/v1/auth/signout

Response:
  - 204: No Content
*/
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	handler.authService.SignOut(request.Context(), requestutil.Viewer(request))

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   handler.secureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.NoContent(writer)
}

/*
CurrentSession reports the request's session state.

GET /api/v1/auth/session

Response:
  - 200: session.State: {identity, is_loading}
*/
func (handler *Handler) currentSession(writer http.ResponseWriter, request *http.Request) {
	store := ctxutil.GetSessionStore(request.Context())
	if store == nil {
		respond.OK(writer, session.State{})
		return
	}
	respond.OK(writer, store.State())
}

func (handler *Handler) setSessionCookie(writer http.ResponseWriter, id string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    id,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(constants.SessionTTL / time.Second),
		Secure:   handler.secureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

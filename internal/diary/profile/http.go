// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/diary/internal/platform/middleware"
	requestutil "github.com/taibuivan/diary/internal/platform/request"
	"github.com/taibuivan/diary/internal/platform/respond"
	"github.com/taibuivan/diary/pkg/pagination"
)

// Handler implements the HTTP layer for profiles.
type Handler struct {
	service *Service
}

// NewHandler constructs a new profile [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with profile routes.
//
// # Endpoints
//   - GET   /          : Paginated list, newest first
//   - GET   /search?q= : Search by name and bio
//   - GET   /me        : Own profile (login required)
//   - POST  /me        : Create own profile (login required)
//   - PATCH /me        : Edit own profile (login required)
//   - GET   /{id}      : Any profile
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/search", handler.search)
	router.Get("/{id}", handler.get)

	router.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Get("/me", handler.me)
		user.Post("/me", handler.create)
		user.Patch("/me", handler.update)
	})

	return router
}

/*
GET /api/v1/profiles.

Request:
  - page: int
  - limit: int

Response:
  - 200: []Profile with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	profiles, meta, err := handler.service.GetAllProfiles(request.Context(), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, profiles, meta)
}

func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	profiles, err := handler.service.SearchProfiles(request.Context(), requestutil.SearchTerm(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profiles)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.GetProfile(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.service.GetCurrentProfile(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

/*
POST /api/v1/profiles/me.

Response:
  - 201: Profile
  - 409: Profile already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	viewer, err := requestutil.RequiredViewer(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Fields
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreateProfile(request.Context(), viewer.UserID(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

/*
PATCH /api/v1/profiles/me.

Response:
  - 200: Profile
  - 404: No profile yet
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	viewer, err := requestutil.RequiredViewer(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Fields
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.UpdateProfile(request.Context(), viewer.UserID(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/diary/internal/platform/middleware"
	requestutil "github.com/taibuivan/diary/internal/platform/request"
	"github.com/taibuivan/diary/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for diary entries.
type Handler struct {
	service  *Service
	comments CommentLister
}

// NewHandler constructs a new post [Handler]. comments supplies the comment
// list of the detail view.
func NewHandler(service *Service, comments CommentLister) *Handler {
	return &Handler{service: service, comments: comments}
}

// RegisterRoutes attaches post endpoints to the root API router.
//
// # Endpoints
//   - GET    /posts?q=           : Feed, optionally filtered locally by q
//   - GET    /posts/search?q=    : Remote search over title and content
//   - GET    /posts/{id}         : Post with its comments
//   - GET    /users/{id}/posts   : One author's posts
//   - GET    /moods, /weathers   : Glyph tables
//   - POST   /posts              : Write (login required)
//   - PATCH  /posts/{id}         : Edit own post (login required)
//   - DELETE /posts/{id}         : Remove own post (login required)
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/posts", handler.list)
	api.Get("/posts/search", handler.search)
	api.Get("/posts/{id}", handler.detail)
	api.Get("/users/{id}/posts", handler.listByUser)
	api.Get("/moods", handler.moods)
	api.Get("/weathers", handler.weathers)

	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Post("/posts", handler.create)
		user.Patch("/posts/{id}", handler.update)
		user.Delete("/posts/{id}", handler.delete)
	})
}

// # Reads

/*
GET /api/v1/posts.

Description: Returns the feed. When the feed cannot be loaded the body still
carries an empty list next to the error.

Request:
  - q: string (Optional local filter over title and content)

Response:
  - 200: []Post
  - 503: []Post (empty) with the setup hint
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	posts, err := handler.service.GetAllPosts(request.Context())
	if err != nil {
		respond.ErrorWithData(writer, request, err, posts)
		return
	}
	respond.OK(writer, FilterPosts(posts, requestutil.SearchTerm(request)))
}

// GET /api/v1/posts/search?q=.
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	posts, err := handler.service.SearchPosts(request.Context(), requestutil.SearchTerm(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, posts)
}

/*
GET /api/v1/posts/{id}.

Response:
  - 200: Detail
  - 404: Missing, private or unreadable post
*/
func (handler *Handler) detail(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.LoadDetail(request.Context(), handler.comments, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

// GET /api/v1/users/{id}/posts.
func (handler *Handler) listByUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	posts, err := handler.service.GetUserPosts(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, posts)
}

func (handler *Handler) moods(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, Moods())
}

func (handler *Handler) weathers(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, Weathers())
}

// # Writes

/*
POST /api/v1/posts.

Request:
  - body: CreateInput

Response:
  - 201: Post
  - 400: Missing content or malformed fields
  - 401: Login required
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreatePost(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

/*
PATCH /api/v1/posts/{id}.

Request:
  - body: UpdateInput (absent fields are left alone)

Response:
  - 200: Post
  - 403: Not the author
  - 404: Unknown post
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.UpdatePost(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

// DELETE /api/v1/posts/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeletePost(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

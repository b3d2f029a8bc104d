// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/diary/internal/platform/middleware"
	requestutil "github.com/taibuivan/diary/internal/platform/request"
	"github.com/taibuivan/diary/internal/platform/respond"
)

// Handler implements the HTTP layer for comments.
type Handler struct {
	service *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches comment endpoints to the root API router.
// They span the /posts/{id}/..., /comments/... and /users/{id}/... prefixes.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/posts/{id}/comments", handler.listByPost)
	api.Get("/users/{id}/comments", handler.listByUser)

	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Post("/posts/{id}/comments", handler.create)
		user.Patch("/comments/{id}", handler.update)
		user.Delete("/comments/{id}", handler.delete)
	})
}

type contentRequest struct {
	Content string `json:"content"`
}

/*
GET /api/v1/posts/{id}/comments.

Response:
  - 200: []Comment: Oldest first; empty when the list cannot be loaded
*/
func (handler *Handler) listByPost(writer http.ResponseWriter, request *http.Request) {
	postID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, handler.service.GetCommentsByPost(request.Context(), postID))
}

// GET /api/v1/users/{id}/comments.
func (handler *Handler) listByUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, err := handler.service.GetUserComments(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comments)
}

/*
POST /api/v1/posts/{id}/comments.

Request:
  - body: contentRequest

Response:
  - 201: Comment
  - 400: Empty content or unknown post
  - 401: Login required
  - 503: Comments table missing or platform unreachable
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	postID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input contentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreateComment(request.Context(), postID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

/*
PATCH /api/v1/comments/{id}.

Response:
  - 200: Comment
  - 403: Not the author
  - 404: Unknown comment
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input contentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.UpdateComment(request.Context(), id, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

// DELETE /api/v1/comments/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

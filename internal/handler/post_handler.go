package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-blog-api/internal/middleware"
	"go-blog-api/internal/model"
)

type postService interface {
	ListPublished(ctx context.Context) ([]model.Post, error)
	GetByID(ctx context.Context, id int64) (model.Post, error)
	Create(ctx context.Context, authorID string, req model.CreatePostRequest) (model.Post, error)
	Update(ctx context.Context, id int64, req model.UpdatePostRequest) (model.Post, error)
	Delete(ctx context.Context, id int64) (model.Post, error)
}

type PostHandler struct {
	service postService
}

func NewPostHandler(service postService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPublished(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, posts, nil)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	post, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, post, nil)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := validateCreatePost(payload); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.service.Create(r.Context(), claims.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, post, nil)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, ok := postID(w, r)
	if !ok {
		return
	}

	var payload model.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	post, err := h.service.Update(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, post, nil)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	post, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, post, nil)
}

func postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "post id must be an integer")
		return 0, false
	}
	return id, true
}

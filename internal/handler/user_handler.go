package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-blog-api/internal/model"
)

type userService interface {
	GetUserByID(ctx context.Context, id string) (model.User, error)
}

type UserHandler struct {
	service userService
}

func NewUserHandler(service userService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

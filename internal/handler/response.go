package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-blog-api/internal/model"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// writeError maps known failures to their status and hides everything
// else behind a generic 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		body.Code = "VALIDATION_ERROR"
		body.Message = "Validation failed"
		body.Fields = validationErr.Fields
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid credentials"
	case errors.Is(err, model.ErrEmailTaken):
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Email already exists"
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	case errors.Is(err, model.ErrPostNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Post not found"
	case errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenMalformed),
		errors.Is(err, model.ErrTokenRevoked):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid or expired token"
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication required"
	default:
		// Keep internals out of the response but visible in logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "BAD_REQUEST",
			Message: message,
		},
	})
}

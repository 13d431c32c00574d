package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-blog-api/internal/middleware"
	"go-blog-api/internal/model"
)

const (
	refreshTokenCookie = "refreshToken"
	accessTokenCookie  = "accessToken"
)

type authService interface {
	Login(ctx context.Context, email string, password string) (model.LoginResult, error)
	Register(ctx context.Context, email string, name *string, password string) (model.User, error)
	Logout(ctx context.Context, refreshToken string)
	Refresh(ctx context.Context, refreshToken string) (model.LoginResult, error)
	GetUserByID(ctx context.Context, id string) (model.User, error)
}

type AuthHandler struct {
	service      authService
	refreshTTL   time.Duration
	secureCookie bool
}

func NewAuthHandler(service authService, refreshTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: service, refreshTTL: refreshTTL, secureCookie: secureCookie}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := validateLogin(payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	writeSuccess(w, http.StatusOK, result, nil)
}

// Logout is unconditionally successful from the client's point of view:
// cookies are cleared on every exit path and storage failures are only
// logged.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		h.service.Logout(r.Context(), cookie.Value)
	}

	// Cookie headers must go out before the body is written.
	h.clearAuthCookies(w)
	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true}, nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := validateRegister(payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload.Email, payload.Name, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	// model.User carries no password material, so the full record is safe
	// to return; the client wants created_at back.
	writeSuccess(w, http.StatusCreated, user, nil)
}

// Refresh rotates the session carried by the refresh-token cookie.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		writeError(w, model.ErrUnauthorized)
		return
	}

	result, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.clearAuthCookies(w)
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookies expires both auth cookies with the same attributes
// they were set with; mismatched attributes would leave them standing.
func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{refreshTokenCookie, accessTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

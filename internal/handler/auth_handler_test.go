package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-blog-api/internal/model"
)

type stubAuthService struct {
	loginResult   model.LoginResult
	loginErr      error
	registerUser  model.User
	registerErr   error
	refreshResult model.LoginResult
	refreshErr    error
	loggedOutWith []string
	getUserResult model.User
	getUserErr    error
}

func (s *stubAuthService) Login(_ context.Context, _ string, _ string) (model.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Register(_ context.Context, _ string, _ *string, _ string) (model.User, error) {
	return s.registerUser, s.registerErr
}

func (s *stubAuthService) Logout(_ context.Context, refreshToken string) {
	s.loggedOutWith = append(s.loggedOutWith, refreshToken)
}

func (s *stubAuthService) Refresh(_ context.Context, _ string) (model.LoginResult, error) {
	return s.refreshResult, s.refreshErr
}

func (s *stubAuthService) GetUserByID(_ context.Context, _ string) (model.User, error) {
	return s.getUserResult, s.getUserErr
}

func newTestAuthHandler(stub *stubAuthService) *AuthHandler {
	return NewAuthHandler(stub, 168*time.Hour, false)
}

func postJSON(t *testing.T, h http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeResponse(t *testing.T, body io.Reader) model.APIResponse {
	t.Helper()

	var resp model.APIResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_LoginValidation(t *testing.T) {
	h := newTestAuthHandler(&stubAuthService{})

	rec := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{
		"email":    "not-an-email",
		"password": "",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec.Body)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	fields := make([]string, 0, len(resp.Error.Fields))
	for _, f := range resp.Error.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"email", "password"}, fields)
}

func TestAuthHandler_LoginInvalidCredentialBodiesAreIdentical(t *testing.T) {
	// The service collapses unknown-email and wrong-password into the
	// same error, so the handler must answer byte-for-byte identically.
	h := newTestAuthHandler(&stubAuthService{loginErr: model.ErrInvalidCredentials})

	recA := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "longenough1",
	})
	recB := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{
		"email": "a@x.com", "password": "wrongpassword",
	})

	assert.Equal(t, http.StatusUnauthorized, recA.Code)
	assert.Equal(t, http.StatusUnauthorized, recB.Code)
	assert.Equal(t, recA.Body.Bytes(), recB.Body.Bytes())
}

func TestAuthHandler_LoginSetsRefreshCookie(t *testing.T) {
	stub := &stubAuthService{
		loginResult: model.LoginResult{
			AccessToken:  "signed-access-token",
			TokenType:    "Bearer",
			ExpiresIn:    900,
			User:         model.UserSummary{ID: "user-1", Email: "a@x.com"},
			RefreshToken: "signed-refresh-token",
		},
	}
	h := newTestAuthHandler(stub)

	rec := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{
		"email": "a@x.com", "password": "longenough1",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := cookieByName(rec.Result().Cookies(), "refreshToken")
	require.NotNil(t, cookie)
	assert.Equal(t, "signed-refresh-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int((168 * time.Hour).Seconds()), cookie.MaxAge)

	// The raw refresh token must not leak into the JSON body.
	assert.NotContains(t, rec.Body.String(), "signed-refresh-token")
	assert.Contains(t, rec.Body.String(), "signed-access-token")
}

func TestAuthHandler_LogoutAlwaysClearsCookiesAndSucceeds(t *testing.T) {
	t.Run("with refresh cookie", func(t *testing.T) {
		stub := &stubAuthService{}
		h := newTestAuthHandler(stub)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "the-token"})
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"the-token"}, stub.loggedOutWith)

		for _, name := range []string{"refreshToken", "accessToken"} {
			cookie := cookieByName(rec.Result().Cookies(), name)
			require.NotNil(t, cookie, name)
			assert.Empty(t, cookie.Value)
			assert.Negative(t, cookie.MaxAge)
		}
	})

	t.Run("without refresh cookie", func(t *testing.T) {
		stub := &stubAuthService{}
		h := newTestAuthHandler(stub)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, stub.loggedOutWith)
		assert.NotNil(t, cookieByName(rec.Result().Cookies(), "refreshToken"))
		assert.NotNil(t, cookieByName(rec.Result().Cookies(), "accessToken"))
	})
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		created := model.User{ID: "user-1", Email: "a@x.com", CreatedAt: time.Now().UTC()}
		h := newTestAuthHandler(&stubAuthService{registerUser: created})

		rec := postJSON(t, h.Register, "/api/v1/auth/register", map[string]string{
			"email": "a@x.com", "password": "longenough1",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"user-1"`)
		assert.NotContains(t, strings.ToLower(rec.Body.String()), "password")
	})

	t.Run("short password", func(t *testing.T) {
		h := newTestAuthHandler(&stubAuthService{})

		rec := postJSON(t, h.Register, "/api/v1/auth/register", map[string]string{
			"email": "a@x.com", "password": "short",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec.Body)
		require.NotNil(t, resp.Error)
		require.Len(t, resp.Error.Fields, 1)
		assert.Equal(t, "password", resp.Error.Fields[0].Field)
	})

	t.Run("duplicate email", func(t *testing.T) {
		h := newTestAuthHandler(&stubAuthService{registerErr: model.ErrEmailTaken})

		rec := postJSON(t, h.Register, "/api/v1/auth/register", map[string]string{
			"email": "a@x.com", "password": "longenough1",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeResponse(t, rec.Body)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ALREADY_EXISTS", resp.Error.Code)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		h := newTestAuthHandler(&stubAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("rotates cookie", func(t *testing.T) {
		stub := &stubAuthService{
			refreshResult: model.LoginResult{
				AccessToken:  "new-access",
				RefreshToken: "new-refresh",
				TokenType:    "Bearer",
			},
		}
		h := newTestAuthHandler(stub)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "old-refresh"})
		rec := httptest.NewRecorder()
		h.Refresh(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		cookie := cookieByName(rec.Result().Cookies(), "refreshToken")
		require.NotNil(t, cookie)
		assert.Equal(t, "new-refresh", cookie.Value)
	})

	t.Run("missing cookie", func(t *testing.T) {
		h := newTestAuthHandler(&stubAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		rec := httptest.NewRecorder()
		h.Refresh(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token clears cookies", func(t *testing.T) {
		h := newTestAuthHandler(&stubAuthService{refreshErr: model.ErrTokenRevoked})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "revoked"})
		rec := httptest.NewRecorder()
		h.Refresh(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		cookie := cookieByName(rec.Result().Cookies(), "refreshToken")
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
	})
}

func TestWriteError_UnknownErrorStaysGeneric(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: connection refused to 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

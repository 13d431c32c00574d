package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-blog-api/internal/model"
)

type stubVerifier struct {
	claims *model.AuthClaims
	err    error
}

func (s *stubVerifier) VerifyAccessToken(string) (*model.AuthClaims, error) {
	return s.claims, s.err
}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(claims.UserID))
	})
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	mw := NewAuthMiddleware(&stubVerifier{claims: &model.AuthClaims{UserID: "user-1"}})
	handler := mw.RequireAuth(protectedEcho(t))

	for name, header := range map[string]string{
		"no header":    "",
		"wrong scheme": "Basic dXNlcjpwYXNz",
		"bare token":   "sometoken",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthMiddleware_ExpiredAndMalformedLookIdentical(t *testing.T) {
	// Spec: the split between expired and malformed exists for logs only;
	// clients must not be able to tell them apart.
	run := func(err error) *httptest.ResponseRecorder {
		mw := NewAuthMiddleware(&stubVerifier{err: err})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
		req.Header.Set("Authorization", "Bearer some.jwt.token")
		rec := httptest.NewRecorder()
		mw.RequireAuth(protectedEcho(t)).ServeHTTP(rec, req)
		return rec
	}

	expired := run(model.ErrTokenExpired)
	malformed := run(model.ErrTokenMalformed)

	assert.Equal(t, http.StatusUnauthorized, expired.Code)
	assert.Equal(t, http.StatusUnauthorized, malformed.Code)
	assert.Equal(t, expired.Body.Bytes(), malformed.Body.Bytes())
}

func TestAuthMiddleware_ValidTokenAttachesClaims(t *testing.T) {
	mw := NewAuthMiddleware(&stubVerifier{claims: &model.AuthClaims{UserID: "user-42", Type: "access"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer some.jwt.token")
	rec := httptest.NewRecorder()
	mw.RequireAuth(protectedEcho(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", rec.Body.String())
}

func TestAuthMiddleware_CaseInsensitiveBearerScheme(t *testing.T) {
	mw := NewAuthMiddleware(&stubVerifier{claims: &model.AuthClaims{UserID: "user-1"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "bearer some.jwt.token")
	rec := httptest.NewRecorder()
	mw.RequireAuth(protectedEcho(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

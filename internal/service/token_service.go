package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-blog-api/internal/model"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenService signs and verifies the two token classes with two
// independent secrets. A token signed with one secret can never verify
// under the other, and the typ claim closes the door on replaying a
// refresh token as an access token even if the secrets were ever shared.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret string, refreshSecret string, accessTTL time.Duration, refreshTTL time.Duration) (*TokenService, error) {
	if strings.TrimSpace(accessSecret) == "" {
		return nil, errors.New("access token secret is required")
	}
	if strings.TrimSpace(refreshSecret) == "" {
		return nil, errors.New("refresh token secret is required")
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

func (s *TokenService) IssueAccessToken(userID string) (string, error) {
	return s.sign(userID, tokenTypeAccess, s.accessSecret, s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(userID string) (string, error) {
	return s.sign(userID, tokenTypeRefresh, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *TokenService) VerifyAccessToken(tokenString string) (*model.AuthClaims, error) {
	return s.verify(tokenString, tokenTypeAccess, s.accessSecret)
}

func (s *TokenService) VerifyRefreshToken(tokenString string) (*model.AuthClaims, error) {
	return s.verify(tokenString, tokenTypeRefresh, s.refreshSecret)
}

// HashForStorage is the deterministic digest under which refresh tokens
// are persisted and looked up. Tokens are high-entropy, so a fast hash
// suffices; bcrypt stays reserved for the low-entropy password.
func (s *TokenService) HashForStorage(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}

func (s *TokenService) sign(userID string, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"typ": tokenType,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *TokenService) verify(tokenString string, expectedType string, secret []byte) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrTokenMalformed
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenMalformed
	}
	if !parsed.Valid {
		return nil, model.ErrTokenMalformed
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrTokenMalformed
	}

	claims := &model.AuthClaims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Type, _ = claimsMap["typ"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" || claims.Type != expectedType {
		return nil, model.ErrTokenMalformed
	}

	return claims, nil
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go-blog-api/internal/model"
)

// Matches the work factor the platform has always used for passwords.
const bcryptCost = 10

type userStore interface {
	FindByEmail(ctx context.Context, email string) (model.UserWithPassword, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CreateWithPassword(ctx context.Context, email string, name *string, passwordHash string) (model.User, error)
}

type refreshTokenStore interface {
	Store(ctx context.Context, hashedToken string, userID string, expiresAt time.Time) error
	DeleteByHash(ctx context.Context, hashedToken string) (int64, error)
	Exists(ctx context.Context, hashedToken string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type AuthService struct {
	users  userStore
	tokens refreshTokenStore
	issuer *TokenService
}

func NewAuthService(issuer *TokenService, users userStore, tokens refreshTokenStore) *AuthService {
	return &AuthService{users: users, tokens: tokens, issuer: issuer}
}

// Login authenticates by email and password. An unknown email and a wrong
// password are indistinguishable in the returned error so responses can't
// be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email string, password string) (model.LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.LoginResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.LoginResult{}, model.ErrInvalidCredentials
	}

	return s.issueSession(ctx, user.User)
}

func (s *AuthService) Register(ctx context.Context, email string, name *string, password string) (model.User, error) {
	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if taken {
		return model.User{}, model.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.User{}, err
	}

	return s.users.CreateWithPassword(ctx, email, name, string(hash))
}

// Logout invalidates the stored digest of the given refresh token. It
// never fails the caller: a missing record is a no-op and storage errors
// are logged and swallowed, so the handler can always clear cookies and
// answer with success.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}

	deleted, err := s.tokens.DeleteByHash(ctx, s.issuer.HashForStorage(refreshToken))
	if err != nil {
		slog.Error("logout: failed to delete refresh token", "error", err)
		return
	}
	if deleted == 0 {
		slog.Debug("logout: no stored refresh token matched")
	}
}

// Refresh rotates a session: the presented token must verify and its
// digest must still be stored. The old digest is deleted before the new
// pair is issued, so a refresh token is single-use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.LoginResult, error) {
	claims, err := s.issuer.VerifyRefreshToken(refreshToken)
	if err != nil {
		return model.LoginResult{}, err
	}

	hashed := s.issuer.HashForStorage(refreshToken)
	stored, err := s.tokens.Exists(ctx, hashed)
	if err != nil {
		return model.LoginResult{}, err
	}
	if !stored {
		return model.LoginResult{}, model.ErrTokenRevoked
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.LoginResult{}, model.ErrTokenRevoked
	}
	if err != nil {
		return model.LoginResult{}, err
	}

	if _, err := s.tokens.DeleteByHash(ctx, hashed); err != nil {
		return model.LoginResult{}, err
	}

	return s.issueSession(ctx, user)
}

func (s *AuthService) GetUserByID(ctx context.Context, id string) (model.User, error) {
	return s.users.FindByID(ctx, id)
}

// StartTokenSweeper deletes expired refresh-token rows on a fixed
// interval until ctx is cancelled. Without it expired rows accumulate
// forever.
func (s *AuthService) StartTokenSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.tokens.DeleteExpired(ctx)
			if err != nil {
				slog.Error("refresh token sweep failed", "error", err)
				continue
			}
			if deleted > 0 {
				slog.Info("swept expired refresh tokens", "deleted", deleted)
			}
		}
	}
}

func (s *AuthService) issueSession(ctx context.Context, user model.User) (model.LoginResult, error) {
	accessToken, err := s.issuer.IssueAccessToken(user.ID)
	if err != nil {
		return model.LoginResult{}, err
	}

	refreshToken, err := s.issuer.IssueRefreshToken(user.ID)
	if err != nil {
		return model.LoginResult{}, err
	}

	expiresAt := time.Now().UTC().Add(s.issuer.RefreshTTL())
	if err := s.tokens.Store(ctx, s.issuer.HashForStorage(refreshToken), user.ID, expiresAt); err != nil {
		return model.LoginResult{}, err
	}

	return model.LoginResult{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.issuer.AccessTTL().Seconds()),
		User:         user.Summary(),
		RefreshToken: refreshToken,
	}, nil
}

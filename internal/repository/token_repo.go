package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRepository persists refresh-token digests. Raw tokens never reach
// this layer.
type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Store(ctx context.Context, hashedToken string, userID string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO refresh_tokens (hashed_token, user_id, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		hashedToken, userID, time.Now().UTC(), expiresAt)
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// DeleteByHash removes a stored digest and reports how many rows matched.
// Deleting an unknown digest is not an error.
func (r *TokenRepository) DeleteByHash(ctx context.Context, hashedToken string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE hashed_token = $1`, hashedToken)
	if err != nil {
		return 0, fmt.Errorf("delete refresh token: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Exists reports whether a digest is stored and still unexpired.
func (r *TokenRepository) Exists(ctx context.Context, hashedToken string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM refresh_tokens
			WHERE hashed_token = $1 AND expires_at > now()
		 )`, hashedToken).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check refresh token: %w", err)
	}
	return exists, nil
}

func (r *TokenRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user refresh tokens: %w", err)
	}
	return nil
}

func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-blog-api/internal/model"
)

const uniqueViolationCode = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindByEmail returns the user together with its password hash. Users
// without a password row cannot log in, so the join is inner.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.UserWithPassword, error) {
	var u model.UserWithPassword
	err := r.pool.QueryRow(ctx,
		`SELECT u.id, u.email, u.name, u.created_at, u.updated_at, p.hash
		 FROM users u
		 JOIN passwords p ON p.user_id = u.id
		 WHERE lower(u.email) = lower($1)`, strings.TrimSpace(email)).
		Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt, &u.PasswordHash)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.UserWithPassword{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.UserWithPassword{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, created_at, updated_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`,
		strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

// CreateWithPassword inserts the user and its password row in one
// transaction: both persist or neither does. A concurrent duplicate
// registration loses the race at the unique email index and surfaces as
// ErrEmailTaken, the same outcome as the pre-insert existence check.
func (r *UserRepository) CreateWithPassword(ctx context.Context, email string, name *string, passwordHash string) (model.User, error) {
	now := time.Now().UTC()
	u := model.User{
		ID:        uuid.NewString(),
		Email:     strings.TrimSpace(email),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("begin create user: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, email, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.Name, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO passwords (user_id, hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)`,
		u.ID, passwordHash, now, now)
	if err != nil {
		return model.User{}, fmt.Errorf("insert password: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.User{}, fmt.Errorf("commit create user: %w", err)
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

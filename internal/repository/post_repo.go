package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-blog-api/internal/model"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

const postColumns = `p.id, p.title, p.content, p.published, p.created_at, p.updated_at,
	u.id, u.email, u.name`

func scanPost(row pgx.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Published, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Email, &p.Author.Name)
	return p, err
}

// ListPublished returns published posts, newest first, with their author.
func (r *PostRepository) ListPublished(ctx context.Context) ([]model.Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+`
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 WHERE p.published
		 ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (model.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx,
		`SELECT `+postColumns+`
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 WHERE p.id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, title string, content *string, authorID string) (model.Post, error) {
	now := time.Now().UTC()
	p, err := scanPost(r.pool.QueryRow(ctx,
		`WITH inserted AS (
			INSERT INTO posts (title, content, published, author_id, created_at, updated_at)
			VALUES ($1, $2, false, $3, $4, $4)
			RETURNING id, title, content, published, author_id, created_at, updated_at
		 )
		 SELECT p.id, p.title, p.content, p.published, p.created_at, p.updated_at,
		        u.id, u.email, u.name
		 FROM inserted p
		 JOIN users u ON u.id = p.author_id`,
		title, content, authorID, now))
	if err != nil {
		return model.Post{}, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

// Update applies only the provided fields; nil pointers leave the column
// untouched.
func (r *PostRepository) Update(ctx context.Context, id int64, req model.UpdatePostRequest) (model.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx,
		`WITH updated AS (
			UPDATE posts SET
				title = COALESCE($2, title),
				content = COALESCE($3, content),
				published = COALESCE($4, published),
				updated_at = $5
			WHERE id = $1
			RETURNING id, title, content, published, author_id, created_at, updated_at
		 )
		 SELECT p.id, p.title, p.content, p.published, p.created_at, p.updated_at,
		        u.id, u.email, u.name
		 FROM updated p
		 JOIN users u ON u.id = p.author_id`,
		id, req.Title, req.Content, req.Published, time.Now().UTC()))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) (model.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx,
		`WITH deleted AS (
			DELETE FROM posts WHERE id = $1
			RETURNING id, title, content, published, author_id, created_at, updated_at
		 )
		 SELECT p.id, p.title, p.content, p.published, p.created_at, p.updated_at,
		        u.id, u.email, u.name
		 FROM deleted p
		 JOIN users u ON u.id = p.author_id`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("delete post: %w", err)
	}
	return p, nil
}

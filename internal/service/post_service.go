package service

import (
	"context"

	"go-blog-api/internal/model"
)

type postStore interface {
	ListPublished(ctx context.Context) ([]model.Post, error)
	FindByID(ctx context.Context, id int64) (model.Post, error)
	Create(ctx context.Context, title string, content *string, authorID string) (model.Post, error)
	Update(ctx context.Context, id int64, req model.UpdatePostRequest) (model.Post, error)
	Delete(ctx context.Context, id int64) (model.Post, error)
}

type PostService struct {
	posts postStore
}

func NewPostService(posts postStore) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) ListPublished(ctx context.Context) ([]model.Post, error) {
	return s.posts.ListPublished(ctx)
}

func (s *PostService) GetByID(ctx context.Context, id int64) (model.Post, error) {
	return s.posts.FindByID(ctx, id)
}

// Create stores a new unpublished post owned by the authenticated user.
func (s *PostService) Create(ctx context.Context, authorID string, req model.CreatePostRequest) (model.Post, error) {
	return s.posts.Create(ctx, req.Title, req.Content, authorID)
}

func (s *PostService) Update(ctx context.Context, id int64, req model.UpdatePostRequest) (model.Post, error) {
	return s.posts.Update(ctx, id, req)
}

func (s *PostService) Delete(ctx context.Context, id int64) (model.Post, error) {
	return s.posts.Delete(ctx, id)
}

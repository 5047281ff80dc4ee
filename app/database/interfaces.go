package database

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("post not found")

type PostRepository interface {
	Insert(ctx context.Context, post NewPost) (*Post, error)
	Get(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, query ListQuery) ([]Post, int, error)
	Update(ctx context.Context, id string, update PostUpdate) (*Post, error)
	Delete(ctx context.Context, id string) error
	Tags(ctx context.Context, limit int) ([]string, error)
	Count(ctx context.Context) (int, error)
}

var _ PostRepository = (*PostRepo)(nil)

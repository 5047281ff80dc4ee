package api

import (
	"context"

	"github.com/lysyi3m/link-digest/app/database"
	"github.com/lysyi3m/link-digest/app/feed"
	"github.com/lysyi3m/link-digest/app/posts"
)

// PostService is the part of posts.Service the handlers depend on.
type PostService interface {
	Create(ctx context.Context, rawURL string) (*database.Post, error)
	List(ctx context.Context, page int, tag, search string) (*posts.ListResult, error)
	Get(ctx context.Context, id string) (*database.Post, error)
	Update(ctx context.Context, id string, update database.PostUpdate) (*database.Post, error)
	Delete(ctx context.Context, id string) error
	Tags(ctx context.Context) ([]string, error)
	Latest(ctx context.Context, limit int) ([]database.Post, error)
	Count(ctx context.Context) (int, error)
}

var _ PostService = (*posts.Service)(nil)

type GeneratorInterface interface {
	Run(posts []database.Post) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	service   PostService
	generator GeneratorInterface
	version   string
}

type scrapeRequest struct {
	URL string `json:"url"`
}

type updateRequest struct {
	Title    *string   `json:"title"`
	Summary  *string   `json:"summary"`
	Keywords *[]string `json:"keywords"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

package posts

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lysyi3m/link-digest/app/database"
	"github.com/lysyi3m/link-digest/app/scrape"
	"github.com/lysyi3m/link-digest/app/summary"
)

const (
	MinContentLength = 100
	PageSize         = 20
	MaxTags          = 20
)

type Scraper interface {
	Scrape(ctx context.Context, target *url.URL) (*scrape.Page, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, title, content, url string) summary.Result
}

var (
	_ Scraper    = (*scrape.Scraper)(nil)
	_ Summarizer = (*summary.Summarizer)(nil)
)

type Service struct {
	scraper    Scraper
	summarizer Summarizer
	repo       database.PostRepository
}

func NewService(scraper Scraper, summarizer Summarizer, repo database.PostRepository) *Service {
	return &Service{scraper: scraper, summarizer: summarizer, repo: repo}
}

// Create runs the submission pipeline: validate, extract, length gate, summarize, persist.
func (s *Service) Create(ctx context.Context, rawURL string) (*database.Post, error) {
	target, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	link := strings.TrimSpace(rawURL)
	started := time.Now()

	page, err := s.scraper.Scrape(ctx, target)
	if err != nil {
		return nil, NewError(ErrCodeExtraction, "Could not fetch content from this URL.", err)
	}

	if utf8.RuneCountInString(page.Content) < MinContentLength {
		slog.Info("Extracted content too short", "url", link, "source", page.Source, "content_length", len(page.Content))
		return nil, NewError(ErrCodeContentTooShort, "Could not extract meaningful content from this URL.", nil)
	}

	result := s.summarizer.Summarize(ctx, page.Title, page.Content, link)

	post, err := s.repo.Insert(ctx, database.NewPost{
		URL:        link,
		Title:      page.Title,
		Summary:    result.Summary,
		Keywords:   result.Keywords,
		Domain:     page.Domain,
		FaviconURL: page.FaviconURL,
	})
	if err != nil {
		return nil, storageError(err)
	}

	slog.Info("Post created",
		"id", post.ID,
		"url", post.URL,
		"source", page.Source,
		"keywords", len(post.Keywords),
		"duration", time.Since(started))

	return post, nil
}

// ParseURL accepts absolute http and https URLs with a host.
func ParseURL(rawURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, NewError(ErrCodeInvalidURL, "Invalid URL", nil)
	}

	target, err := url.Parse(trimmed)
	if err != nil {
		return nil, NewError(ErrCodeInvalidURL, "Invalid URL", err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, NewError(ErrCodeInvalidURL, "Invalid URL", nil)
	}
	if target.Hostname() == "" || scrape.Domain(target) == "" {
		return nil, NewError(ErrCodeInvalidURL, "Invalid URL", nil)
	}

	return target, nil
}

type ListResult struct {
	Posts   []database.Post `json:"posts"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	HasMore bool            `json:"hasMore"`
}

// List returns one zero-based page of posts, newest first.
func (s *Service) List(ctx context.Context, page int, tag, search string) (*ListResult, error) {
	page = max(page, 0)

	posts, total, err := s.repo.List(ctx, database.ListQuery{
		Offset: page * PageSize,
		Limit:  PageSize,
		Tag:    strings.TrimSpace(tag),
		Search: strings.TrimSpace(search),
	})
	if err != nil {
		return nil, storageError(err)
	}

	return &ListResult{
		Posts:   posts,
		Total:   total,
		Page:    page,
		HasMore: (page+1)*PageSize < total,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*database.Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	return post, nil
}

// Update edits title, summary and keywords. A provided title must not be blank.
func (s *Service) Update(ctx context.Context, id string, update database.PostUpdate) (*database.Post, error) {
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, NewError(ErrCodeInvalidInput, "Title cannot be empty", nil)
		}
		update.Title = &title
	}

	post, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, storageError(err)
	}

	slog.Info("Post updated", "id", id)
	return post, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storageError(err)
	}

	slog.Info("Post deleted", "id", id)
	return nil
}

func (s *Service) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.repo.Tags(ctx, MaxTags)
	if err != nil {
		return nil, storageError(err)
	}
	return tags, nil
}

// Latest returns up to limit of the newest posts.
func (s *Service) Latest(ctx context.Context, limit int) ([]database.Post, error) {
	posts, _, err := s.repo.List(ctx, database.ListQuery{Limit: limit})
	if err != nil {
		return nil, storageError(err)
	}
	return posts, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, storageError(err)
	}
	return count, nil
}

func storageError(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return NewError(ErrCodeNotFound, "Post not found", err)
	}
	return NewError(ErrCodeStorage, err.Error(), err)
}

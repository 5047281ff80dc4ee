package database

import (
	"time"
)

type Post struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Keywords   []string  `json:"keywords"`
	Domain     string    `json:"domain"`
	FaviconURL string    `json:"favicon_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewPost carries the fields supplied by the pipeline; id and created_at are assigned on insert.
type NewPost struct {
	URL        string
	Title      string
	Summary    string
	Keywords   []string
	Domain     string
	FaviconURL string
}

// PostUpdate holds the editable fields. Nil fields are left unchanged.
type PostUpdate struct {
	Title    *string
	Summary  *string
	Keywords *[]string
}

func (u PostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Summary == nil && u.Keywords == nil
}

type ListQuery struct {
	Offset int
	Limit  int
	Tag    string // exact keyword match
	Search string // case-insensitive substring of title or summary
}

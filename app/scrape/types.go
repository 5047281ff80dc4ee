package scrape

import (
	"context"
	"net/url"
)

// Extractor turns a page into plain text. Title may be empty when the page has none.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, target *url.URL) (*Document, error)
}

type Document struct {
	Title   string
	Content string
}

// Page is the extraction result handed to the pipeline.
type Page struct {
	Title      string
	Content    string
	Domain     string
	FaviconURL string
	Source     string // name of the extractor that produced the content
}

package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
)

var ErrExtraction = errors.New("content extraction failed")

// Chain tries each extractor in order and returns the first success.
type Chain struct {
	extractors []Extractor
}

func NewChain(extractors ...Extractor) *Chain {
	return &Chain{extractors: extractors}
}

func (c *Chain) Name() string {
	return "chain"
}

func (c *Chain) Extract(ctx context.Context, target *url.URL) (*Document, error) {
	_, doc, err := c.extract(ctx, target)
	return doc, err
}

func (c *Chain) extract(ctx context.Context, target *url.URL) (string, *Document, error) {
	lastErr := errors.New("no extractors configured")

	for _, extractor := range c.extractors {
		doc, err := extractor.Extract(ctx, target)
		if err == nil {
			return extractor.Name(), doc, nil
		}

		slog.Warn("Extractor failed, trying next", "extractor", extractor.Name(), "url", target.String(), "error", err)
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	return "", nil, fmt.Errorf("%w: %w", ErrExtraction, lastErr)
}

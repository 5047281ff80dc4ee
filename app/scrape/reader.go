package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	ReaderTimeout    = 15 * time.Second
	ReaderMaxContent = 8000

	maxBodySize = 10 * 1024 * 1024
)

// ReaderExtractor asks a reader proxy to render the page and return cleaned text as JSON.
type ReaderExtractor struct {
	httpClient *http.Client
	prefix     string
	timeout    time.Duration
}

func NewReaderExtractor(httpClient *http.Client, prefix string) *ReaderExtractor {
	return &ReaderExtractor{
		httpClient: httpClient,
		prefix:     prefix,
		timeout:    ReaderTimeout,
	}
}

type readerResponse struct {
	Data *struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"data"`
}

func (e *ReaderExtractor) Name() string {
	return "reader"
}

func (e *ReaderExtractor) Extract(ctx context.Context, target *url.URL) (*Document, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, e.prefix+target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reader request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("reader returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read reader response: %w", err)
	}

	var parsed readerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode reader response: %w", err)
	}
	if parsed.Data == nil {
		return nil, fmt.Errorf("reader response has no data object")
	}

	return &Document{
		Title:   strings.TrimSpace(parsed.Data.Title),
		Content: truncate(parsed.Data.Content, ReaderMaxContent),
	}, nil
}

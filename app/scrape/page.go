package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const (
	PageTimeout    = 10 * time.Second
	PageMaxContent = 6000
)

// PageExtractor fetches the raw page and strips its markup. The response status is not
// checked: whatever body comes back is used, so only transport and read errors fail.
type PageExtractor struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewPageExtractor(httpClient *http.Client, userAgent string) *PageExtractor {
	return &PageExtractor{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    PageTimeout,
	}
}

func (e *PageExtractor) Name() string {
	return "page"
}

func (e *PageExtractor) Extract(ctx context.Context, target *url.URL) (*Document, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create page request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode page body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style").Remove()

	return &Document{
		Title:   title,
		Content: truncate(plainText(doc.Selection), PageMaxContent),
	}, nil
}

// plainText joins every text node with a space and collapses runs of whitespace.
func plainText(sel *goquery.Selection) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

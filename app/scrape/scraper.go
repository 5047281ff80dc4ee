package scrape

import (
	"cmp"
	"context"
	"log/slog"
	"net/http"
	"net/url"
)

// Scraper resolves page metadata and runs the extraction chain.
type Scraper struct {
	chain           *Chain
	faviconTemplate string
}

func NewScraper(chain *Chain, faviconTemplate string) *Scraper {
	return &Scraper{chain: chain, faviconTemplate: faviconTemplate}
}

// New builds the default chain: reader proxy first, raw page fetch as fallback.
func New(httpClient *http.Client, readerURL, userAgent, faviconTemplate string) *Scraper {
	return NewScraper(
		NewChain(
			NewReaderExtractor(httpClient, readerURL),
			NewPageExtractor(httpClient, userAgent),
		),
		faviconTemplate,
	)
}

func (s *Scraper) Scrape(ctx context.Context, target *url.URL) (*Page, error) {
	domain := Domain(target)
	favicon := FaviconURL(s.faviconTemplate, domain)

	source, doc, err := s.chain.extract(ctx, target)
	if err != nil {
		return nil, err
	}

	slog.Debug("Page extracted", "url", target.String(), "source", source, "content_length", len(doc.Content))

	return &Page{
		Title:      cmp.Or(doc.Title, domain),
		Content:    doc.Content,
		Domain:     domain,
		FaviconURL: favicon,
		Source:     source,
	}, nil
}

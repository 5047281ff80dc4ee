package scrape

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const DefaultFaviconTemplate = "https://www.google.com/s2/favicons?domain=%s&sz=64"

// Domain returns the lowercased URL host with a single leading "www." label removed.
func Domain(target *url.URL) string {
	return strings.TrimPrefix(strings.ToLower(target.Hostname()), "www.")
}

// FaviconURL fills template with the query-escaped domain. It never touches the network.
func FaviconURL(template, domain string) string {
	if template == "" {
		template = DefaultFaviconTemplate
	}
	return fmt.Sprintf(template, url.QueryEscape(domain))
}

// truncate cuts s to at most limit characters without splitting a rune.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

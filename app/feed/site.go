package feed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Site holds the channel metadata of the RSS feed.
type Site struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Link        string `yaml:"link"`
	Language    string `yaml:"language"`
}

func DefaultSite() Site {
	return Site{
		Title:       "Link Digest",
		Description: "Links worth reading, summarized.",
		Language:    "en",
	}
}

// LoadSite reads site metadata from a YAML file. Missing fields keep their defaults.
// An empty path returns the defaults.
func LoadSite(path string) (Site, error) {
	site := DefaultSite()
	if path == "" {
		return site, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Site{}, fmt.Errorf("failed to read site file: %w", err)
	}

	if err := yaml.Unmarshal(data, &site); err != nil {
		return Site{}, fmt.Errorf("failed to parse site file: %w", err)
	}

	if site.Title == "" {
		return Site{}, fmt.Errorf("site title is required")
	}

	return site, nil
}

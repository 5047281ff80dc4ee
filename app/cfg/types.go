package cfg

import "time"

type Cfg struct {
	// Server configuration
	Port    string
	BaseUrl string
	DBPath  string

	// Admin authentication
	AdminPassword string

	// Language model configuration
	AnthropicAPIKey  string
	AnthropicBaseURL string
	Model            string
	MaxTokens        int64
	SummarizeTimeout time.Duration

	// Content extraction
	ReaderURL       string
	FaviconTemplate string
	UserAgent       string

	// Application metadata
	SiteFile string
	Timezone string
	Debug    bool
	Version  string
}

package cfg

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Server configuration
	Port    string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://links.example.com)"`
	DBPath  string `long:"db-path" env:"DB_PATH" default:"./link-digest.db" description:"Path to the SQLite database file"`

	// Admin authentication
	AdminPassword string `long:"admin-password" env:"ADMIN_PASSWORD" description:"Shared secret required in the X-Admin-Password header for create, edit and delete"`

	// Language model configuration
	AnthropicAPIKey  string `long:"anthropic-api-key" env:"ANTHROPIC_API_KEY" description:"Anthropic API key used for summarization"`
	AnthropicBaseURL string `long:"anthropic-base-url" env:"ANTHROPIC_BASE_URL" description:"Override the Anthropic API base URL (optional)"`
	Model            string `long:"model" env:"SUMMARY_MODEL" default:"claude-sonnet-4-6" description:"Model used for summaries and keywords"`
	MaxTokens        int64  `long:"max-tokens" env:"SUMMARY_MAX_TOKENS" default:"512" description:"Maximum output tokens for a summary reply"`
	SummarizeTimeout int    `long:"summarize-timeout" env:"SUMMARIZE_TIMEOUT" default:"30" description:"Summarization request timeout in seconds"`

	// Content extraction
	ReaderURL       string `long:"reader-url" env:"READER_URL" default:"https://r.jina.ai/" description:"Reader proxy prefix; the target URL is appended to it"`
	FaviconTemplate string `long:"favicon-template" env:"FAVICON_TEMPLATE" default:"https://www.google.com/s2/favicons?domain=%s&sz=64" description:"Favicon service URL template, %s is replaced by the domain"`
	UserAgent       string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0" description:"User agent string for direct page fetches"`

	// Application metadata
	SiteFile string `long:"site-file" env:"SITE_FILE" description:"YAML file with site metadata for the RSS feed (optional)"`
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses flags and environment. It returns nil, nil when help was requested.
func Load() (*Cfg, error) {
	return parse(nil)
}

func parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.MaxTokens <= 0 {
		return nil, fmt.Errorf("max tokens must be positive, got %d", raw.MaxTokens)
	}
	if raw.SummarizeTimeout <= 0 {
		return nil, fmt.Errorf("summarize timeout must be positive, got %d", raw.SummarizeTimeout)
	}
	// The template is filled with fmt.Sprintf, so "%s" must be its only verb.
	if strings.Count(raw.FaviconTemplate, "%s") != 1 || strings.Count(raw.FaviconTemplate, "%") != 1 {
		return nil, fmt.Errorf("favicon template must contain exactly one %%s and no other %%, got %q", raw.FaviconTemplate)
	}

	cfg := &Cfg{
		Port:             raw.Port,
		BaseUrl:          raw.BaseUrl,
		DBPath:           raw.DBPath,
		AdminPassword:    raw.AdminPassword,
		AnthropicAPIKey:  raw.AnthropicAPIKey,
		AnthropicBaseURL: raw.AnthropicBaseURL,
		Model:            raw.Model,
		MaxTokens:        raw.MaxTokens,
		SummarizeTimeout: time.Duration(raw.SummarizeTimeout) * time.Second,
		ReaderURL:        raw.ReaderURL,
		FaviconTemplate:  raw.FaviconTemplate,
		UserAgent:        raw.UserAgent,
		SiteFile:         raw.SiteFile,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

// SelfURL returns the public base URL, falling back to localhost.
func (c *Cfg) SelfURL() string {
	if c.BaseUrl != "" {
		return c.BaseUrl
	}
	return fmt.Sprintf("http://localhost:%s", c.Port)
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}

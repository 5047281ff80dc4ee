package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/link-digest/app/api"
	"github.com/lysyi3m/link-digest/app/cfg"
	"github.com/lysyi3m/link-digest/app/database"
	"github.com/lysyi3m/link-digest/app/feed"
	"github.com/lysyi3m/link-digest/app/posts"
	"github.com/lysyi3m/link-digest/app/scrape"
	"github.com/lysyi3m/link-digest/app/summary"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting Link Digest", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Connected to database", "path", db.Path())

	site, err := feed.LoadSite(appCfg.SiteFile)
	if err != nil {
		slog.Error("Failed to load site metadata", "file", appCfg.SiteFile, "error", err)
		os.Exit(1)
	}

	if appCfg.AnthropicAPIKey == "" {
		slog.Warn("ANTHROPIC_API_KEY not set, summaries will degrade to the placeholder")
	}
	if appCfg.AdminPassword == "" {
		slog.Warn("ADMIN_PASSWORD not set, create, edit and delete are disabled")
	}

	scraper := scrape.New(&http.Client{}, appCfg.ReaderURL, appCfg.UserAgent, appCfg.FaviconTemplate)
	completer := summary.NewAnthropicCompleter(
		appCfg.AnthropicAPIKey, appCfg.AnthropicBaseURL, appCfg.Model, appCfg.MaxTokens, appCfg.SummarizeTimeout)
	summarizer := summary.NewSummarizer(completer, appCfg.SummarizeTimeout)

	service := posts.NewService(scraper, summarizer, database.NewPostRepository(db))
	generator := feed.NewGenerator(site, appCfg.SelfURL(), appCfg.Version)

	handler := api.NewHandler(service, generator, appCfg.Version)
	router := api.NewServer(handler, appCfg.AdminPassword)

	// Create runs extraction and summarization inline, so the write timeout
	// has to cover both fetch timeouts plus the summarizer.
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30*time.Second + appCfg.SummarizeTimeout + 25*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "feed", appCfg.SelfURL()+"/feed.xml")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}

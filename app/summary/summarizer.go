package summary

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// NoSummary replaces a missing or blank summary field in an otherwise valid reply.
	NoSummary = "No summary available."
	// FailedSummary is used when the reply cannot be decoded or the model call fails.
	FailedSummary = "Summary could not be generated."

	DefaultTimeout = 30 * time.Second
)

type Result struct {
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
}

func Failed() Result {
	return Result{Summary: FailedSummary, Keywords: []string{}}
}

// Completer exchanges one prompt for the model's raw text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Summarizer struct {
	completer Completer
	timeout   time.Duration
}

func NewSummarizer(completer Completer, timeout time.Duration) *Summarizer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Summarizer{completer: completer, timeout: timeout}
}

// Summarize never fails: model errors and malformed replies degrade to Failed().
func (s *Summarizer) Summarize(ctx context.Context, title, content, url string) Result {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	raw, err := s.completer.Complete(callCtx, BuildPrompt(url, title, content))
	if err != nil {
		slog.Error("Summarization request failed", "url", url, "duration", time.Since(started), "error", err)
		return Failed()
	}

	result, ok := Decode(raw)
	if !ok {
		slog.Error("Failed to parse summary reply", "url", url, "raw", raw)
		return Failed()
	}

	slog.Debug("Summary generated", "url", url, "keywords", len(result.Keywords), "duration", time.Since(started))
	return result
}

func BuildPrompt(url, title, content string) string {
	return fmt.Sprintf(`You write link summaries for a tech blog. Read the page below and reply with a JSON object containing exactly two fields:
- "summary": 2-3 sentences describing what the link is about, aimed at a tech-savvy reader. Keep it concise and informative.
- "keywords": an array of 5-7 relevant tags, lowercase, each a single word or short phrase.

URL: %s
Title: %s

Content:
%s

Reply with the JSON object only. Do not use markdown or add any commentary.`, url, title, content)
}

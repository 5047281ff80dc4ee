package summary

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Decode parses a model reply. It reports false when the reply is not a JSON object;
// any other shape mismatch falls back field by field.
func Decode(raw string) (Result, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return Result{}, false
	}

	return Result{
		Summary:  decodeSummary(fields["summary"]),
		Keywords: decodeKeywords(fields["keywords"]),
	}, true
}

func decodeSummary(raw json.RawMessage) string {
	var summary string
	if len(raw) == 0 || json.Unmarshal(raw, &summary) != nil {
		return NoSummary
	}
	if summary = strings.TrimSpace(summary); summary == "" {
		return NoSummary
	}
	return summary
}

func decodeKeywords(raw json.RawMessage) []string {
	keywords := []string{}

	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return keywords
	}

	lower := cases.Lower(language.Und)
	for _, item := range items {
		var keyword string
		if json.Unmarshal(item, &keyword) != nil {
			continue
		}
		if keyword = lower.String(strings.TrimSpace(keyword)); keyword != "" {
			keywords = append(keywords, keyword)
		}
	}

	return keywords
}

package faq

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Entry is a curated question/answer pair. Question is lower-cased and
// trimmed at load time so lookups are case/whitespace insensitive.
type Entry struct {
	Question string
	Answer   string
	Keywords []string
}

type faqFile struct {
	Faqs []faqRecord `json:"faqs"`
}

type faqRecord struct {
	Q        string   `json:"q"`
	A        string   `json:"a"`
	Keywords []string `json:"keywords"`
}

// Load reads the curated FAQ table from a JSON file shaped as
// {"faqs": [{"q": ..., "a": ..., "keywords": [...]}]}.
// Records with a blank question or answer are skipped, not fatal.
// Callers are expected to degrade to an empty table on error.
func Load(path string) ([]Entry, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faq file: %w", err)
	}

	var file faqFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse faq file %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(file.Faqs))
	for _, rec := range file.Faqs {
		question := strings.ToLower(strings.TrimSpace(rec.Q))
		answer := strings.TrimSpace(rec.A)
		if question == "" || answer == "" {
			continue
		}

		keywords := make([]string, 0, len(rec.Keywords))
		for _, kw := range rec.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}

		entries = append(entries, Entry{
			Question: question,
			Answer:   answer,
			Keywords: keywords,
		})
	}

	return entries, nil
}

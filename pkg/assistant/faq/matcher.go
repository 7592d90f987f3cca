package faq

import "strings"

const DefaultThreshold = 0.85

// Matcher answers queries from the loaded FAQ table. The table is
// read-only after construction, so a single Matcher is safe for
// concurrent use across requests.
type Matcher struct {
	entries   []Entry
	threshold float64
}

// NewMatcher builds a matcher over the loaded entries. A threshold
// outside [0, 1] falls back to DefaultThreshold.
func NewMatcher(entries []Entry, threshold float64) *Matcher {
	if threshold < 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Matcher{
		entries:   entries,
		threshold: threshold,
	}
}

// Len reports how many entries the matcher serves.
func (m *Matcher) Len() int {
	return len(m.entries)
}

// FindAnswer looks the query up in the FAQ table. Exact matches on the
// normalized question win outright; otherwise the best fuzzy ratio is
// accepted when it reaches the threshold (inclusive). Ties keep the
// first entry in table order.
func (m *Matcher) FindAnswer(query string) (string, bool) {
	if len(m.entries) == 0 {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return "", false
	}

	for _, entry := range m.entries {
		if normalized == entry.Question {
			return entry.Answer, true
		}
	}

	bestScore := 0.0
	bestAnswer := ""
	for _, entry := range m.entries {
		score := Ratio(normalized, entry.Question)
		if score > bestScore {
			bestScore = score
			bestAnswer = entry.Answer
		}
	}

	if bestScore >= m.threshold {
		return bestAnswer, true
	}
	return "", false
}

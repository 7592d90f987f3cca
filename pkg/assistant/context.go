package assistant

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FormatDocuments turns retrieval hits into a delimited context block
// plus the citation list for every accepted hit, in acceptance order.
// Hits are consumed in the order supplied (pre-sorted by the
// retriever); accepted hits are always a prefix of the filtered input,
// never reordered to pack more in. Duplicated source ids keep the
// first occurrence only. Lengths are counted in runes to match how
// the token budget approximates characters.
func FormatDocuments(hits []Hit, maxChars int) (string, []SourceInfo) {
	if len(hits) == 0 {
		return "", nil
	}

	var parts []string
	var sources []SourceInfo
	seen := make(map[string]bool)
	currentLength := 0

	for _, hit := range hits {
		sourceID := payloadString(hit.Payload, "source_id")
		if sourceID == "" {
			sourceID = payloadString(hit.Payload, "original_faq_id")
		}
		if sourceID == "" || seen[sourceID] {
			continue
		}

		body := documentBody(hit.Payload)
		if body == "" {
			continue
		}

		part := fmt.Sprintf("Fuente ID: %s\nContenido: %s\n---\n", sourceID, body)
		partLength := utf8.RuneCountInString(part)
		if currentLength+partLength > maxChars {
			break
		}

		parts = append(parts, part)
		currentLength += partLength
		seen[sourceID] = true

		score := hit.Score
		sources = append(sources, SourceInfo{SourceID: sourceID, Score: &score})
	}

	if len(parts) == 0 {
		return "", nil
	}
	return strings.TrimSpace(strings.Join(parts, "")), sources
}

// documentBody picks the first usable text field from a hit payload.
func documentBody(payload map[string]any) string {
	if body := payloadString(payload, "text"); body != "" {
		return body
	}
	if body := payloadString(payload, "answer_full"); body != "" {
		return body
	}
	if chunks := payloadStrings(payload, "answer_chunks"); len(chunks) > 0 {
		return strings.TrimSpace(strings.Join(chunks, "\n"))
	}
	return payloadString(payload, "question")
}

func payloadString(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	if value, ok := payload[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func payloadStrings(payload map[string]any, key string) []string {
	if payload == nil {
		return nil
	}
	var out []string
	switch values := payload[key].(type) {
	case []string:
		out = values
	case []any:
		for _, v := range values {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// FormatHistory renders history turns as labeled lines under a fixed
// header. Turns with empty content are skipped; no remaining turns
// means an empty string (not an error).
func FormatHistory(turns []Turn) string {
	if len(turns) == 0 {
		return ""
	}

	var lines []string
	for _, turn := range turns {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}

		var label string
		switch turn.Role {
		case RoleUser:
			label = historyUserLabel
		case RoleAssistant:
			label = historyAssistantLabel
		default:
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, content))
	}

	if len(lines) == 0 {
		return ""
	}
	return historyHeader + strings.Join(lines, "\n") + "\n---"
}

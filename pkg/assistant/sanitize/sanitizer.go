package sanitize

import (
	"regexp"
	"strings"
)

// Policy selects how markdown emphasis in model output is handled.
type Policy string

const (
	// PolicyStrip deletes emphasis and heading markers outright,
	// leaving plain text. This is the default.
	PolicyStrip Policy = "strip"

	// PolicyHTML converts **bold** and *italic* to <b>/<i> tags for
	// chat surfaces that render a limited HTML subset (e.g. Telegram
	// with parse_mode=HTML), and only strips heading markers.
	PolicyHTML Policy = "html"
)

// Phrases that disqualify a whole output line, matched as lower-cased
// substrings.
var bannedPhrases = []string{
	"recurso que muestra",
	"indica el total",
	"icono en el escritorio",
	"lo siento",
	"lamentablemente",
	"disculpa",
}

var (
	boldRe    = regexp.MustCompile(`(?s)\*\*(.*?)\*\*`)
	italicRe  = regexp.MustCompile(`(?s)\*(.*?)\*`)
	headingRe = regexp.MustCompile(`(?m)^\s*#+\s*`)
	// Common emoticon, pictograph, transport, supplemental-symbol and
	// dingbat blocks, plus variation selector 16.
	emojiRe    = regexp.MustCompile(`[\x{1F300}-\x{1F5FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{1F900}-\x{1F9FF}\x{1FA70}-\x{1FAFF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE0F}]`)
	newlinesRe = regexp.MustCompile(`\n{3,}`)
	spacesRe   = regexp.MustCompile(`[^\S\n]{2,}`)
)

// Sanitizer cleans generated text for display. It is pure and safe for
// concurrent use.
type Sanitizer struct {
	policy Policy
}

// New returns a sanitizer for the given policy. Unknown policies fall
// back to PolicyStrip.
func New(policy Policy) *Sanitizer {
	if policy != PolicyHTML {
		policy = PolicyStrip
	}
	return &Sanitizer{policy: policy}
}

// Clean runs the full transform pipeline. The stage order matters:
// later stages assume earlier ones already ran. Clean is idempotent,
// so re-sanitizing stored answers is harmless.
func (s *Sanitizer) Clean(raw string) string {
	if raw == "" {
		return ""
	}

	text := raw

	// 1. Emphasis markers.
	switch s.policy {
	case PolicyHTML:
		text = boldRe.ReplaceAllString(text, "<b>$1</b>")
		text = italicRe.ReplaceAllString(text, "<i>$1</i>")
	default:
		text = strings.NewReplacer("*", "", "_", "", "`", "", "#", "").Replace(text)
	}

	// 2. Emoji and pictographs.
	text = emojiRe.ReplaceAllString(text, "")

	// 3. Banned-phrase lines and blank lines.
	text = dropBannedLines(text)

	// 4. Heading markers at line starts (no-op under PolicyStrip,
	// which already removed every '#').
	text = headingRe.ReplaceAllString(text, "")

	// 5. Whitespace normalization.
	text = newlinesRe.ReplaceAllString(text, "\n\n")
	text = spacesRe.ReplaceAllString(text, " ")

	// 6. Final trim.
	return strings.TrimSpace(text)
}

func dropBannedLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		// Match on a space-collapsed copy: removing an emoji between
		// words leaves a double space that must not hide a phrase from
		// the filter.
		lower := spacesRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(line)), " ")
		banned := false
		for _, phrase := range bannedPhrases {
			if strings.Contains(lower, phrase) {
				banned = true
				break
			}
		}
		if !banned {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

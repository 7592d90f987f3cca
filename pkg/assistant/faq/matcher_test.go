package faq

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		{Question: "hola", Answer: "¡Hola! ¿En qué puedo ayudarte?", Keywords: []string{"saludo"}},
		{Question: "¿cuál es el horario?", Answer: "Nuestro horario es de 9 AM a 5 PM.", Keywords: []string{"horario"}},
		{Question: "quiero cancelar mi cuenta", Answer: "Para cancelar, por favor contacta a soporte.", Keywords: []string{"cancelar"}},
	}
}

func TestFindAnswerExactMatch(t *testing.T) {
	m := NewMatcher(testEntries(), DefaultThreshold)

	answer, ok := m.FindAnswer("  HOLA  ")
	assert.True(t, ok)
	assert.Equal(t, "¡Hola! ¿En qué puedo ayudarte?", answer)
}

func TestFindAnswerExactBeatsFuzzy(t *testing.T) {
	entries := []Entry{
		{Question: "activar licencia", Answer: "fuzzy-candidate"},
		{Question: "activar licencias", Answer: "exact-answer"},
	}
	m := NewMatcher(entries, 0.1)

	// Even with a permissive threshold, the exact entry wins over the
	// nearly-identical first one.
	answer, ok := m.FindAnswer("Activar Licencias")
	assert.True(t, ok)
	assert.Equal(t, "exact-answer", answer)
}

func TestFindAnswerThresholdBoundary(t *testing.T) {
	entries := []Entry{{Question: "abcd", Answer: "respuesta"}}

	// Ratio("abce", "abcd") == 2*3/8 == 0.75 exactly.
	m := NewMatcher(entries, 0.75)
	answer, ok := m.FindAnswer("abce")
	assert.True(t, ok, "ratio equal to threshold must match")
	assert.Equal(t, "respuesta", answer)

	m = NewMatcher(entries, 0.7501)
	_, ok = m.FindAnswer("abce")
	assert.False(t, ok, "ratio below threshold must not match")
}

func TestFindAnswerEmptyInputs(t *testing.T) {
	m := NewMatcher(testEntries(), DefaultThreshold)

	_, ok := m.FindAnswer("")
	assert.False(t, ok)

	_, ok = m.FindAnswer("   ")
	assert.False(t, ok)

	empty := NewMatcher(nil, DefaultThreshold)
	_, ok = empty.FindAnswer("hola")
	assert.False(t, ok)
}

func TestNewMatcherClampsThreshold(t *testing.T) {
	entries := []Entry{{Question: "abcd", Answer: "respuesta"}}

	// A misconfigured threshold falls back to the default, so a 0.75
	// ratio no longer matches.
	m := NewMatcher(entries, 3.5)
	_, ok := m.FindAnswer("abce")
	assert.False(t, ok)

	m = NewMatcher(entries, -1)
	_, ok = m.FindAnswer("abce")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faqs.json")

	payload := map[string]any{
		"faqs": []map[string]any{
			{"q": "  Hola  ", "a": " ¡Hola! ", "keywords": []string{"Saludo"}},
			{"q": "", "a": "sin pregunta"},
			{"q": "sin respuesta", "a": "   "},
		},
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hola", entries[0].Question)
	assert.Equal(t, "¡Hola!", entries[0].Answer)
	assert.Equal(t, []string{"saludo"}, entries[0].Keywords)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/faqs.json")
	assert.Error(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	entries, err := Load("")
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

package assistant

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hit(id string, score float64, payload map[string]any) Hit {
	return Hit{ID: id, Score: score, Payload: payload}
}

func TestFormatDocuments(t *testing.T) {
	hits := []Hit{
		hit("x", 0.9, map[string]any{"source_id": "doc-1", "text": "Cómo activar la licencia."}),
		hit("y", 0.8, map[string]any{"source_id": "doc-2", "answer_full": "Pasos para descargar XML."}),
	}

	block, sources := FormatDocuments(hits, 10_000)

	assert.Contains(t, block, "Fuente ID: doc-1")
	assert.Contains(t, block, "Contenido: Cómo activar la licencia.")
	assert.Contains(t, block, "Fuente ID: doc-2")

	require.Len(t, sources, 2)
	assert.Equal(t, "doc-1", sources[0].SourceID)
	require.NotNil(t, sources[0].Score)
	assert.Equal(t, 0.9, *sources[0].Score)
	assert.Equal(t, "doc-2", sources[1].SourceID)
}

func TestFormatDocumentsBudgetCutsToPrefix(t *testing.T) {
	hits := []Hit{
		hit("x", 0.9, map[string]any{"source_id": "x", "text": "A"}),
		hit("y", 0.8, map[string]any{"source_id": "y", "text": "B"}),
	}

	// One formatted block is "Fuente ID: x\nContenido: A\n---\n",
	// 30 runes; a budget of 30 fits exactly one.
	block, sources := FormatDocuments(hits, 30)

	assert.Contains(t, block, "Contenido: A")
	assert.NotContains(t, block, "Contenido: B")
	require.Len(t, sources, 1)
	assert.Equal(t, "x", sources[0].SourceID)
}

func TestFormatDocumentsTinyBudgetAcceptsNothing(t *testing.T) {
	hits := []Hit{
		hit("x", 0.9, map[string]any{"source_id": "x", "text": "A"}),
		hit("y", 0.8, map[string]any{"source_id": "y", "text": "B"}),
	}

	block, sources := FormatDocuments(hits, 5)
	assert.Empty(t, block)
	assert.Empty(t, sources)
}

func TestFormatDocumentsBudgetNeverExceeded(t *testing.T) {
	hits := []Hit{
		hit("a", 0.9, map[string]any{"source_id": "a", "text": strings.Repeat("x", 40)}),
		hit("b", 0.8, map[string]any{"source_id": "b", "text": strings.Repeat("y", 40)}),
		hit("c", 0.7, map[string]any{"source_id": "c", "text": strings.Repeat("z", 40)}),
	}

	for _, budget := range []int{0, 10, 70, 150, 1000} {
		block, _ := FormatDocuments(hits, budget)
		assert.LessOrEqual(t, utf8.RuneCountInString(block), budget,
			"budget=%d", budget)
	}
}

func TestFormatDocumentsDedupBySourceID(t *testing.T) {
	hits := []Hit{
		hit("1", 0.9, map[string]any{"source_id": "dup", "text": "primero"}),
		hit("2", 0.8, map[string]any{"source_id": "dup", "text": "segundo"}),
		hit("3", 0.7, map[string]any{"source_id": "otro", "text": "tercero"}),
	}

	block, sources := FormatDocuments(hits, 10_000)

	assert.Contains(t, block, "primero")
	assert.NotContains(t, block, "segundo")
	require.Len(t, sources, 2)
	assert.Equal(t, "dup", sources[0].SourceID)
	assert.Equal(t, "otro", sources[1].SourceID)
}

func TestFormatDocumentsBodyFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			name:    "answer_full when text missing",
			payload: map[string]any{"source_id": "s", "answer_full": "respuesta completa"},
			want:    "respuesta completa",
		},
		{
			name:    "answer_chunks joined",
			payload: map[string]any{"source_id": "s", "answer_chunks": []any{"parte 1", "parte 2"}},
			want:    "parte 1\nparte 2",
		},
		{
			name:    "question as last resort",
			payload: map[string]any{"source_id": "s", "question": "¿cómo activo?"},
			want:    "¿cómo activo?",
		},
		{
			name:    "original_faq_id as id fallback",
			payload: map[string]any{"original_faq_id": "s", "text": "cuerpo"},
			want:    "cuerpo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, sources := FormatDocuments([]Hit{hit("h", 0.5, tt.payload)}, 10_000)
			assert.Contains(t, block, tt.want)
			require.Len(t, sources, 1)
			assert.Equal(t, "s", sources[0].SourceID)
		})
	}
}

func TestFormatDocumentsSkipsUnusableHits(t *testing.T) {
	hits := []Hit{
		hit("1", 0.9, map[string]any{"text": "sin id"}),
		hit("2", 0.8, map[string]any{"source_id": "vacio", "text": "   "}),
		hit("3", 0.7, nil),
		hit("4", 0.6, map[string]any{"source_id": "ok", "text": "usable"}),
	}

	block, sources := FormatDocuments(hits, 10_000)

	assert.Contains(t, block, "usable")
	require.Len(t, sources, 1)
	assert.Equal(t, "ok", sources[0].SourceID)
}

func TestFormatDocumentsEmptyInput(t *testing.T) {
	block, sources := FormatDocuments(nil, 1000)
	assert.Empty(t, block)
	assert.Empty(t, sources)
}

func TestFormatHistory(t *testing.T) {
	turns := []Turn{
		{Role: RoleUser, Content: "¿Cómo subo un XML?"},
		{Role: RoleAssistant, Content: "Primero abre MiAdminXML."},
	}

	got := FormatHistory(turns)

	assert.True(t, strings.HasPrefix(got, "Historial Reciente de la Conversación:\n---\n"))
	assert.Contains(t, got, "Usuario: ¿Cómo subo un XML?")
	assert.Contains(t, got, "Asistente: Primero abre MiAdminXML.")
	assert.True(t, strings.HasSuffix(got, "\n---"))
}

func TestFormatHistorySkipsEmptyAndUnknown(t *testing.T) {
	turns := []Turn{
		{Role: RoleUser, Content: "   "},
		{Role: "system", Content: "interno"},
		{Role: RoleAssistant, Content: "visible"},
	}

	got := FormatHistory(turns)
	assert.Contains(t, got, "Asistente: visible")
	assert.NotContains(t, got, "interno")
}

func TestFormatHistoryEmpty(t *testing.T) {
	assert.Empty(t, FormatHistory(nil))
	assert.Empty(t, FormatHistory([]Turn{{Role: RoleUser, Content: ""}}))
}

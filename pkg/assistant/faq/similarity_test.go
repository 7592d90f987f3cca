package faq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "hola", b: "hola", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "hola", b: "", want: 0.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0.0},
		{name: "single substitution", a: "abcd", b: "abce", want: 0.75},
		{name: "accented runes count once", a: "qué", b: "qué", want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRatioNearMatch(t *testing.T) {
	// Accent-only differences should stay well above a typical
	// matching threshold.
	got := Ratio("¿cuál es el horario?", "¿cual es el horario?")
	assert.Greater(t, got, 0.9)

	// Unrelated questions should stay well below it.
	got = Ratio("quiero cancelar mi cuenta", "horario de atencion a clientes")
	assert.Less(t, got, 0.6)
}

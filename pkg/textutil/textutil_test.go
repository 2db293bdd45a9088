package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims ends", "  teclado  ", "teclado"},
		{"collapses runs", "teclado   mecanico", "teclado mecanico"},
		{"tabs and newlines", "teclado\t\nmecanico", "teclado mecanico"},
		{"empty", "", ""},
		{"only whitespace", "   \t ", ""},
		{"case preserved", "  Teclado  HP ", "Teclado HP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"", "  a  b ", "teclado mecanico", " x\ty \n z ", "ñandú  azul"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "teclado", Fold(" Teclado "))
	assert.Equal(t, "ñandú", Fold("ÑANDÚ"))
	assert.Equal(t, "", Fold("   "))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"teclado", "mecanico"}, Tokenize("  Teclado   MECANICO "))
	assert.Empty(t, Tokenize("   "))
	assert.Empty(t, Tokenize(""))
}

func TestSimilarityPercent(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"teclado", "teclado", 100},
		{"teklado", "teclado", 600.0 * 2 / 14},
		{"monitro", "monitor", 600.0 * 2 / 14},
		{"abc", "xyz", 0},
		{"", "teclado", 0},
		{"", "", 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, SimilarityPercent(tt.a, tt.b), 0.001, "%q vs %q", tt.a, tt.b)
	}
}

func TestSimilarityPercent_Symmetry(t *testing.T) {
	assert.InDelta(t, SimilarityPercent("teklado", "teclado"), SimilarityPercent("teclado", "teklado"), 0.001)
}

func TestSimilarityPercent_TypoAboveDefaultFloor(t *testing.T) {
	// the canonical learning scenario: a one-letter typo of a known term
	// must clear the default 70% acceptance floor
	assert.Greater(t, SimilarityPercent("teklado", "teclado"), 70.0)
}

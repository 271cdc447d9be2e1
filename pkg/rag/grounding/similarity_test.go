package grounding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{"identical vectors", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal vectors", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite vectors", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"dimension mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0.0},
		{"zero magnitude", []float32{0, 0}, []float32{1, 2}, 0.0},
		{"both empty", nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSalientTerms(t *testing.T) {
	t.Run("short tokens dropped", func(t *testing.T) {
		terms := salientTerms("uso de dose alta em sepse", 10)
		assert.Equal(t, []string{"dose", "alta", "sepse"}, terms)
	})

	t.Run("case folded and deduplicated", func(t *testing.T) {
		terms := salientTerms("Sepse grave. SEPSE neonatal.", 10)
		assert.Equal(t, []string{"sepse", "grave", "neonatal"}, terms)
	})

	t.Run("cap respected", func(t *testing.T) {
		terms := salientTerms("alfa beta gama delta epsilon", 2)
		assert.Len(t, terms, 2)
	})

	t.Run("punctuation is a separator", func(t *testing.T) {
		terms := salientTerms("dose:500mg/dia (adulto)", 10)
		assert.Contains(t, terms, "500mg")
		assert.Contains(t, terms, "adulto")
	})
}

func TestKeywordOverlapRatio(t *testing.T) {
	terms := []string{"sepse", "antibiotico", "lactato"}

	assert.InDelta(t, 1.0, keywordOverlapRatio("Sepse: colher lactato e iniciar antibiotico", terms), 1e-9)
	assert.InDelta(t, 1.0/3.0, keywordOverlapRatio("dosar o lactato", terms), 1e-9)
	assert.InDelta(t, 0.0, keywordOverlapRatio("sem termos relevantes", terms), 1e-9)
	assert.InDelta(t, 0.0, keywordOverlapRatio("qualquer texto", nil), 1e-9)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	// Rune-aware: multi-byte characters are never split.
	assert.Equal(t, "aça", truncate("açaí", 3))
}

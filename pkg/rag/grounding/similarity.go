package grounding

import (
	"math"
	"strings"
	"unicode"
)

// cosineSimilarity computes dot(a,b) / (|a| * |b|), defined as 0 when either
// vector has zero magnitude or the dimensions disagree.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// salientTerms extracts candidate evidence terms from document content:
// alphanumeric tokens of length >= 4, case-folded, capped at maxTerms.
func salientTerms(content string, maxTerms int) []string {
	fields := strings.FieldsFunc(content, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	seen := make(map[string]bool)
	var terms []string
	for _, f := range fields {
		if len([]rune(f)) < 4 {
			continue
		}
		term := strings.ToLower(f)
		if seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
		if len(terms) >= maxTerms {
			break
		}
	}
	return terms
}

// keywordOverlapRatio is the fraction of sampled document terms present in
// the generation text.
func keywordOverlapRatio(generation string, terms []string) float64 {
	if len(terms) == 0 {
		return 0.0
	}
	genLower := strings.ToLower(generation)
	hits := 0
	for _, term := range terms {
		if strings.Contains(genLower, term) {
			hits++
		}
	}
	return float64(hits) / float64(len(terms))
}

// truncate cuts content to a fixed rune prefix before embedding, keeping
// provider payloads bounded.
func truncate(content string, maxRunes int) string {
	runes := []rune(content)
	if len(runes) <= maxRunes {
		return content
	}
	return string(runes[:maxRunes])
}

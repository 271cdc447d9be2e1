package grader

import (
	"context"
	"strings"

	"clinical-assistant-be/pkg/store"
)

// LexicalScorer judges relevance by term overlap: the fraction of question
// terms (case-folded, whitespace-split) also present in the document content.
// Cheap, deterministic, no provider calls.
type LexicalScorer struct {
	Threshold float64
}

var _ Scorer = &LexicalScorer{}

func NewLexicalScorer(threshold float64) *LexicalScorer {
	if threshold <= 0 {
		threshold = 0.05
	}
	return &LexicalScorer{Threshold: threshold}
}

func (s *LexicalScorer) Relevant(ctx context.Context, question string, doc store.Document) (bool, error) {
	return s.Score(question, doc.Content) >= s.Threshold, nil
}

// Score returns the overlap fraction in [0, 1].
func (s *LexicalScorer) Score(question, content string) float64 {
	terms := strings.Fields(strings.ToLower(question))
	if len(terms) == 0 {
		return 0
	}

	contentLower := strings.ToLower(content)
	hits := 0
	for _, term := range terms {
		term = strings.Trim(term, ".,?!;:")
		if term == "" {
			continue
		}
		if strings.Contains(contentLower, term) {
			hits++
		}
	}

	return float64(hits) / float64(len(terms))
}

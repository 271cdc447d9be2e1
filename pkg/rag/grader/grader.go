package grader

import (
	"context"
	"sync"

	"clinical-assistant-be/pkg/store"
)

// EliminationPolicy decides what happens when grading eliminates 100% of a
// non-empty candidate set.
type EliminationPolicy string

const (
	// PolicyFallbackUnfiltered returns the unfiltered set so generation is
	// never starved; the grounding check downstream filters implicitly.
	PolicyFallbackUnfiltered EliminationPolicy = "fallback_unfiltered"
	// PolicyReformulate propagates the empty set, triggering query rewriting.
	PolicyReformulate EliminationPolicy = "reformulate"
)

// Scorer judges a single document's relevance to a question.
type Scorer interface {
	// Relevant returns the binary relevance verdict for one document.
	Relevant(ctx context.Context, question string, doc store.Document) (bool, error)
}

// DocumentGrader filters retrieved documents down to the relevant subset.
type DocumentGrader struct {
	scorer Scorer
	policy EliminationPolicy
}

func NewDocumentGrader(scorer Scorer, policy EliminationPolicy) *DocumentGrader {
	if policy == "" {
		policy = PolicyFallbackUnfiltered
	}
	return &DocumentGrader{scorer: scorer, policy: policy}
}

// Grade scores each document independently and keeps those judged relevant.
// Scoring calls fan out concurrently (they are read-only over disjoint
// documents); the merge preserves the original retrieval order so citation
// ordering stays deterministic. A document whose scoring fails is kept;
// the grounding check filters again downstream.
func (g *DocumentGrader) Grade(ctx context.Context, question string, documents []store.Document) []store.Document {
	if len(documents) == 0 {
		return documents
	}

	keep := make([]bool, len(documents))
	var wg sync.WaitGroup

	for i := range documents {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			relevant, err := g.scorer.Relevant(ctx, question, documents[i])
			if err != nil {
				relevant = true // fail open
			}
			keep[i] = relevant
		}(i)
	}
	wg.Wait()

	filtered := make([]store.Document, 0, len(documents))
	for i, d := range documents {
		if keep[i] {
			filtered = append(filtered, d)
		}
	}

	if len(filtered) == 0 && g.policy == PolicyFallbackUnfiltered {
		return documents
	}
	return filtered
}

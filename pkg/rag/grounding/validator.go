package grounding

import (
	"context"
	"time"

	"clinical-assistant-be/internal/pkg/logger"
	"clinical-assistant-be/pkg/embedding"
	"clinical-assistant-be/pkg/store"
)

// Config tunes the grounding tiers. The thresholds are heuristics inherited
// from the hospital deployment and deliberately configurable.
type Config struct {
	SemanticThreshold float64       // minimum cosine similarity for "grounded"
	KeywordThreshold  float64       // minimum term-overlap ratio for "valid_keywords"
	MaxDocsCompared   int           // embed at most this many top documents
	DocPrefixRunes    int           // truncate documents before embedding
	TermsPerDoc       int           // salient-term sample cap per document
	EmbedTimeout      time.Duration // per embedding call
}

// DefaultConfig returns the grounding defaults.
func DefaultConfig() Config {
	return Config{
		SemanticThreshold: 0.4,
		KeywordThreshold:  0.1,
		MaxDocsCompared:   3,
		DocPrefixRunes:    1500,
		TermsPerDoc:       25,
		EmbedTimeout:      10 * time.Second,
	}
}

// Validator checks whether a generated answer is substantiated by the
// retrieved documents. Tiers run in order, first conclusive result wins:
//
//  1. no documents            → no_evidence
//  2. refusal phrase detected → rejection_appropriate
//  3. embedding cosine sim    → grounded (or fall through)
//  4. keyword overlap         → valid_keywords | ungrounded
//
// Capability failure at any tier fails open to the next tier: validator
// infrastructure must never block a response on its own.
type Validator struct {
	embeddings embedding.EmbeddingProvider // optional; nil skips the semantic tier
	config     Config
	logger     logger.ILogger
}

func NewValidator(embeddings embedding.EmbeddingProvider, config Config, log logger.ILogger) *Validator {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &Validator{
		embeddings: embeddings,
		config:     config,
		logger:     log,
	}
}

// Check classifies the (generation, documents) pair. Pure classification:
// no side effects beyond provider calls, so identical inputs always yield
// identical statuses.
func (v *Validator) Check(ctx context.Context, generation string, documents []store.Document) Status {
	// Tier 1: nothing to check against. The generation stage is expected to
	// have produced a "cannot answer" message in this case; accepted as-is.
	if len(documents) == 0 {
		return StatusNoEvidence
	}

	// Tier 2: a deliberate refusal is never a hallucination.
	if isAppropriateRejection(generation) {
		return StatusRejectionAppropriate
	}

	// Tier 3: semantic similarity against the top documents.
	semanticFailed := false
	if v.embeddings != nil {
		grounded, err := v.semanticCheck(ctx, generation, documents)
		if err != nil {
			semanticFailed = true
			v.logger.Warn("grounding", "Semantic tier failed, falling back to keywords", map[string]interface{}{"error": err.Error()})
		} else if grounded {
			return StatusGrounded
		}
	}

	// Tier 4: keyword-overlap fallback.
	ratio := v.keywordCheck(generation, documents)
	if ratio >= v.config.KeywordThreshold {
		return StatusValidKeywords
	}

	if semanticFailed {
		v.logger.Warn("grounding", "Semantic tier unavailable, verdict from keywords only", map[string]interface{}{"ratio": ratio})
	}

	return StatusUngrounded
}

// semanticCheck embeds the generation and up to MaxDocsCompared truncated
// documents and compares cosine similarity against the threshold.
func (v *Validator) semanticCheck(ctx context.Context, generation string, documents []store.Document) (bool, error) {
	genVec, err := v.embed(ctx, truncate(generation, v.config.DocPrefixRunes))
	if err != nil {
		return false, err
	}

	limit := v.config.MaxDocsCompared
	if limit <= 0 || limit > len(documents) {
		limit = len(documents)
	}

	var lastErr error
	best := 0.0
	compared := 0
	for _, doc := range documents[:limit] {
		docVec, err := v.embed(ctx, truncate(doc.Content, v.config.DocPrefixRunes))
		if err != nil {
			lastErr = err
			continue
		}
		compared++
		if sim := cosineSimilarity(genVec, docVec); sim > best {
			best = sim
		}
	}

	if compared == 0 {
		return false, lastErr
	}

	v.logger.Debug("grounding", "Semantic similarity computed", map[string]interface{}{
		"best_similarity": best,
		"docs_compared":   compared,
	})

	return best >= v.config.SemanticThreshold, nil
}

func (v *Validator) embed(ctx context.Context, text string) ([]float32, error) {
	embedCtx, cancel := context.WithTimeout(ctx, v.config.EmbedTimeout)
	defer cancel()

	res, err := v.embeddings.Generate(embedCtx, text, embedding.TaskSemanticSimilarity)
	if err != nil {
		return nil, err
	}
	return res.Values, nil
}

// keywordCheck computes the fraction of salient document terms present in
// the generation, sampling at most TermsPerDoc terms from each document.
func (v *Validator) keywordCheck(generation string, documents []store.Document) float64 {
	var terms []string
	for _, doc := range documents {
		terms = append(terms, salientTerms(doc.Content, v.config.TermsPerDoc)...)
	}
	return keywordOverlapRatio(generation, terms)
}

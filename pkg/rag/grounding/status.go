package grounding

// Status classifies how well a generated answer is substantiated by the
// retrieved documents.
type Status string

const (
	// StatusUnchecked is the zero value before the validator runs.
	StatusUnchecked Status = "unchecked"
	// StatusGrounded means semantic similarity confirmed the answer.
	StatusGrounded Status = "grounded"
	// StatusValidKeywords means the keyword-overlap fallback confirmed the
	// answer after the semantic tier was inconclusive.
	StatusValidKeywords Status = "valid_keywords"
	// StatusRejectionAppropriate means the answer is a deliberate refusal
	// ("não encontrei informações..."), which is never a hallucination.
	StatusRejectionAppropriate Status = "rejection_appropriate"
	// StatusUngrounded means no tier could substantiate the answer.
	StatusUngrounded Status = "ungrounded"
	// StatusNoEvidence means there were no documents to check against.
	StatusNoEvidence Status = "no_evidence"
	// StatusValidationError means the validator infrastructure itself failed.
	StatusValidationError Status = "validation_error"
)

// Accepting reports whether the status lets the pipeline accept the answer
// without another reformulation attempt.
func (s Status) Accepting() bool {
	switch s {
	case StatusGrounded, StatusValidKeywords, StatusRejectionAppropriate, StatusNoEvidence:
		return true
	}
	return false
}

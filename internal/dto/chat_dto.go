package dto

// AskRequest is a clinical question addressed to the assistant. The tag only
// rejects grossly oversized payloads; the pipeline guardrails enforce the
// real question length bounds.
type AskRequest struct {
	SessionId string `json:"session_id"`
	Question  string `json:"question" validate:"required,min=1,max=2000"`
}

type AskResponse struct {
	SessionId       string   `json:"session_id"`
	Status          string   `json:"status"`
	Answer          string   `json:"answer"`
	CitedSources    []string `json:"cited_sources"`
	GroundingStatus string   `json:"grounding_status"`
	RiskLevel       string   `json:"risk_level"`
	LoopCount       int      `json:"loop_count"`
	CorrelationId   string   `json:"correlation_id"`
	FromCache       bool     `json:"from_cache"`
}

type ClearSessionRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

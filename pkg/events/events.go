package events

// Topic names for the in-process event bus.
const (
	TopicIngestProtocol = "INGEST_PROTOCOL"
)

// NATS subjects for cross-service audit events.
const (
	SubjectPipelineCompleted = "events.pipeline.completed"
	SubjectPipelineRejected  = "events.pipeline.rejected"
	SubjectPipelineDegraded  = "events.pipeline.degraded"
)

// IngestProtocolMessage asks the consumer to chunk, embed and store one
// protocol file.
type IngestProtocolMessage struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// PipelineAuditEvent is published on every terminal pipeline state so the
// monitoring side can track rejections and degraded accepts. Question text
// is deliberately absent: it may contain PII.
type PipelineAuditEvent struct {
	CorrelationID   string `json:"correlation_id"`
	SessionID       string `json:"session_id"`
	Status          string `json:"status"`
	GroundingStatus string `json:"grounding_status"`
	RiskLevel       string `json:"risk_level"`
	LoopCount       int    `json:"loop_count"`
	CitedSources    int    `json:"cited_sources"`
}

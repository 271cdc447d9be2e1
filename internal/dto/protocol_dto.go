package dto

// IngestProtocolRequest submits one protocol document for asynchronous
// chunking and indexing.
type IngestProtocolRequest struct {
	Source  string `json:"source" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type IngestProtocolResponse struct {
	Source string `json:"source"`
	Queued bool   `json:"queued"`
}

type DeleteProtocolRequest struct {
	Source string `json:"source" validate:"required"`
}

type ProtocolStatsResponse struct {
	ChunkCount int64 `json:"chunk_count"`
}

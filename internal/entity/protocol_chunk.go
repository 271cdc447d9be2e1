package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProtocolChunk is one embedded fragment of an internal medical protocol.
type ProtocolChunk struct {
	Id         uuid.UUID
	Document   string
	Embedding  []float32
	Source     string // originating protocol file, used for citation
	ChunkIndex int
	Metadata   map[string]string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

package contract

import (
	"context"

	"clinical-assistant-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredProtocolChunk pairs a chunk with its cosine similarity to a query.
type ScoredProtocolChunk struct {
	Chunk      *entity.ProtocolChunk
	Similarity float64
}

type ProtocolChunkRepository interface {
	Create(ctx context.Context, chunk *entity.ProtocolChunk) error
	CreateBatch(ctx context.Context, chunks []*entity.ProtocolChunk) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySource(ctx context.Context, source string) error
	Count(ctx context.Context) (int64, error)

	// SearchSimilarWithScore returns the top-k chunks by cosine similarity,
	// best match first, filtered by a minimum similarity threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredProtocolChunk, error)
}

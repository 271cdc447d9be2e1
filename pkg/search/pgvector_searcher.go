package search

import (
	"context"
	"fmt"
	"strconv"

	"clinical-assistant-be/internal/pkg/logger"
	"clinical-assistant-be/internal/repository/contract"
	"clinical-assistant-be/pkg/embedding"
	"clinical-assistant-be/pkg/store"
)

// Config encapsulates search parameters
type Config struct {
	Threshold float64 // minimum cosine similarity kept
	TopK      int
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		Threshold: 0.35,
		TopK:      10,
	}
}

// PgVectorSearcher embeds the query and runs a cosine-distance search against
// the protocol chunk store.
type PgVectorSearcher struct {
	embeddingProvider embedding.EmbeddingProvider
	chunkRepo         contract.ProtocolChunkRepository
	config            Config
	logger            logger.ILogger
}

var _ DocumentSearcher = &PgVectorSearcher{}

func NewPgVectorSearcher(
	embeddingProvider embedding.EmbeddingProvider,
	chunkRepo contract.ProtocolChunkRepository,
	config Config,
	log logger.ILogger,
) *PgVectorSearcher {
	return &PgVectorSearcher{
		embeddingProvider: embeddingProvider,
		chunkRepo:         chunkRepo,
		config:            config,
		logger:            log,
	}
}

// Search embeds the query, retrieves the top-k chunks above the similarity
// threshold and converts them to pipeline documents, preserving rank order.
func (s *PgVectorSearcher) Search(ctx context.Context, query string, k int) ([]store.Document, error) {
	if k <= 0 {
		k = s.config.TopK
	}

	embeddingRes, err := s.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := s.chunkRepo.SearchSimilarWithScore(ctx, embeddingRes.Values, k, s.config.Threshold)
	if err != nil {
		s.logger.Error("search", "Vector search failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	s.logger.Debug("search", "Raw search results", map[string]interface{}{"count": len(scored)})

	docs := make([]store.Document, 0, len(scored))
	for _, res := range scored {
		meta := map[string]string{
			"source":      res.Chunk.Source,
			"chunk_index": strconv.Itoa(res.Chunk.ChunkIndex),
		}
		for k, v := range res.Chunk.Metadata {
			meta[k] = v
		}
		docs = append(docs, store.Document{
			Content:  res.Chunk.Document,
			Metadata: meta,
			Score:    float32(res.Similarity),
		})
	}

	return docs, nil
}

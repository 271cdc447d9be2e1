package service

import (
	"context"
	"encoding/json"
	"log"

	"clinical-assistant-be/internal/entity"
	"clinical-assistant-be/internal/repository/contract"
	"clinical-assistant-be/pkg/embedding"
	"clinical-assistant-be/pkg/events"
	"clinical-assistant-be/pkg/ingest"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService indexes protocol documents off the event bus: it chunks the
// text, embeds every chunk and replaces whatever was stored for that source.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	chunkRepo         contract.ProtocolChunkRepository
	embeddingProvider embedding.EmbeddingProvider
	chunkConfig       ingest.ChunkConfig
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	chunkRepo contract.ProtocolChunkRepository,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		chunkRepo:         chunkRepo,
		embeddingProvider: embeddingProvider,
		chunkConfig:       ingest.DefaultChunkConfig(),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload events.IngestProtocolMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Indexing protocol source: %s", payload.Source)

	chunks := ingest.Chunk(payload.Content, cs.chunkConfig)
	if len(chunks) == 0 {
		log.Printf("[WARN] Protocol %s produced no chunks, skipping", payload.Source)
		msg.Ack()
		return
	}

	chunkEntities := make([]*entity.ProtocolChunk, 0, len(chunks))
	for i, chunk := range chunks {
		embeddingRes, err := cs.embeddingProvider.Generate(ctx, chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of %s: %v", i, payload.Source, err)
			msg.Nack() // Nack for retriable errors
			return
		}

		chunkEntities = append(chunkEntities, &entity.ProtocolChunk{
			Id:         uuid.New(),
			Document:   chunk,
			Embedding:  embeddingRes.Values,
			Source:     payload.Source,
			ChunkIndex: i,
			Metadata:   map[string]string{"source": payload.Source},
		})
	}

	// Re-ingesting a source replaces its previous chunks.
	if err := cs.chunkRepo.DeleteBySource(ctx, payload.Source); err != nil {
		log.Printf("[ERROR] Failed to delete stale chunks for %s: %v", payload.Source, err)
		msg.Nack()
		return
	}

	if err := cs.chunkRepo.CreateBatch(ctx, chunkEntities); err != nil {
		log.Printf("[ERROR] Failed to store chunks for %s: %v", payload.Source, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Indexed %d chunks for %s", len(chunkEntities), payload.Source)
	msg.Ack()
}

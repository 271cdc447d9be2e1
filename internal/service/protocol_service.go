package service

import (
	"context"

	"clinical-assistant-be/internal/dto"
	"clinical-assistant-be/internal/pkg/logger"
	"clinical-assistant-be/internal/repository/contract"
	"clinical-assistant-be/pkg/cache"
)

// IProtocolService manages the protocol knowledge base.
type IProtocolService interface {
	Ingest(ctx context.Context, request *dto.IngestProtocolRequest) (*dto.IngestProtocolResponse, error)
	Delete(ctx context.Context, request *dto.DeleteProtocolRequest) error
	Stats(ctx context.Context) (*dto.ProtocolStatsResponse, error)
}

type protocolService struct {
	publisher     IPublisherService
	chunkRepo     contract.ProtocolChunkRepository
	responseCache *cache.ResponseCache
	logger        logger.ILogger
}

func NewProtocolService(
	publisher IPublisherService,
	chunkRepo contract.ProtocolChunkRepository,
	responseCache *cache.ResponseCache,
	log logger.ILogger,
) IProtocolService {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &protocolService{
		publisher:     publisher,
		chunkRepo:     chunkRepo,
		responseCache: responseCache,
		logger:        log,
	}
}

func (ps *protocolService) Ingest(ctx context.Context, request *dto.IngestProtocolRequest) (*dto.IngestProtocolResponse, error) {
	if err := ps.publisher.PublishIngestProtocol(request.Source, request.Content); err != nil {
		return nil, err
	}

	// Cached answers may cite the old version of this protocol.
	ps.invalidateAnswers(ctx)

	return &dto.IngestProtocolResponse{Source: request.Source, Queued: true}, nil
}

func (ps *protocolService) Delete(ctx context.Context, request *dto.DeleteProtocolRequest) error {
	if err := ps.chunkRepo.DeleteBySource(ctx, request.Source); err != nil {
		return err
	}
	ps.invalidateAnswers(ctx)
	return nil
}

func (ps *protocolService) Stats(ctx context.Context) (*dto.ProtocolStatsResponse, error) {
	count, err := ps.chunkRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ProtocolStatsResponse{ChunkCount: count}, nil
}

func (ps *protocolService) invalidateAnswers(ctx context.Context) {
	if ps.responseCache == nil {
		return
	}
	removed, err := ps.responseCache.Invalidate(ctx, "*")
	if err != nil {
		ps.logger.Warn("protocol_service", "Answer cache invalidation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	ps.logger.Info("protocol_service", "Answer cache invalidated", map[string]interface{}{
		"removed": removed,
	})
}

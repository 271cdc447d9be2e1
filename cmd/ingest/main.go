package main

import (
	"context"
	"log"

	"clinical-assistant-be/internal/config"
	"clinical-assistant-be/internal/entity"
	"clinical-assistant-be/internal/repository/implementation"
	"clinical-assistant-be/pkg/database"
	"clinical-assistant-be/pkg/embedding"
	"clinical-assistant-be/pkg/ingest"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Batch loader for the protocol knowledge base. Reads every supported file
// under DOCS_PATH, chunks and embeds it, and replaces the stored chunks per
// source.
func main() {
	cfg := config.Load()
	ctx := context.Background()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}
	chunkRepo := implementation.NewProtocolChunkRepository(gormDB)

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	color.Cyan("📚 Loading protocol documents from %s", cfg.App.DocsPath)

	files, fileErrs := ingest.LoadDirectory(cfg.App.DocsPath)
	for _, ferr := range fileErrs {
		color.Red("Skipped: %v", ferr)
	}
	if len(files) == 0 {
		log.Fatalf("No ingestable files found under %s", cfg.App.DocsPath)
	}

	chunkCfg := ingest.DefaultChunkConfig()
	totalChunks := 0

	for _, file := range files {
		chunks := ingest.Chunk(file.Content, chunkCfg)
		if len(chunks) == 0 {
			color.Yellow("Empty after chunking: %s", file.Source)
			continue
		}

		chunkEntities := make([]*entity.ProtocolChunk, 0, len(chunks))
		failed := false
		for i, chunk := range chunks {
			embeddingRes, err := embeddingProvider.Generate(ctx, chunk, embedding.TaskRetrievalDocument)
			if err != nil {
				color.Red("Failed to embed chunk %d of %s: %v", i, file.Source, err)
				failed = true
				break
			}
			chunkEntities = append(chunkEntities, &entity.ProtocolChunk{
				Id:         uuid.New(),
				Document:   chunk,
				Embedding:  embeddingRes.Values,
				Source:     file.Source,
				ChunkIndex: i,
				Metadata:   map[string]string{"source": file.Source},
			})
		}
		if failed {
			continue
		}

		if err := chunkRepo.DeleteBySource(ctx, file.Source); err != nil {
			color.Red("Failed to delete stale chunks for %s: %v", file.Source, err)
			continue
		}
		if err := chunkRepo.CreateBatch(ctx, chunkEntities); err != nil {
			color.Red("Failed to store chunks for %s: %v", file.Source, err)
			continue
		}

		color.Green("Indexed %s (%d chunks)", file.Source, len(chunkEntities))
		totalChunks += len(chunkEntities)
	}

	count, err := chunkRepo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count chunks: %v", err)
	}
	color.Cyan("✅ Done. %d chunks written this run, %d total in store.", totalChunks, count)
}

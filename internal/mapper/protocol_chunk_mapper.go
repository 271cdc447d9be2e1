package mapper

import (
	"encoding/json"

	"clinical-assistant-be/internal/entity"
	"clinical-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ProtocolChunkMapper struct{}

func NewProtocolChunkMapper() *ProtocolChunkMapper {
	return &ProtocolChunkMapper{}
}

func (m *ProtocolChunkMapper) ToModel(e *entity.ProtocolChunk) *model.ProtocolChunk {
	var meta datatypes.JSON
	if len(e.Metadata) > 0 {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			meta = raw
		}
	}

	return &model.ProtocolChunk{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		Source:         e.Source,
		ChunkIndex:     e.ChunkIndex,
		Metadata:       meta,
	}
}

func (m *ProtocolChunkMapper) ToEntity(mod *model.ProtocolChunk) *entity.ProtocolChunk {
	meta := map[string]string{}
	if len(mod.Metadata) > 0 {
		// Malformed metadata degrades to an empty map instead of failing a read
		_ = json.Unmarshal(mod.Metadata, &meta)
	}

	updatedAt := mod.UpdatedAt
	return &entity.ProtocolChunk{
		Id:         mod.Id,
		Document:   mod.Document,
		Embedding:  mod.EmbeddingValue.Slice(),
		Source:     mod.Source,
		ChunkIndex: mod.ChunkIndex,
		Metadata:   meta,
		CreatedAt:  mod.CreatedAt,
		UpdatedAt:  &updatedAt,
	}
}

package implementation

import (
	"context"

	"clinical-assistant-be/internal/entity"
	"clinical-assistant-be/internal/mapper"
	"clinical-assistant-be/internal/model"
	"clinical-assistant-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ProtocolChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProtocolChunkMapper
}

func NewProtocolChunkRepository(db *gorm.DB) contract.ProtocolChunkRepository {
	return &ProtocolChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewProtocolChunkMapper(),
	}
}

func (r *ProtocolChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.ProtocolChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProtocolChunkRepositoryImpl) CreateBatch(ctx context.Context, chunks []*entity.ProtocolChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.ProtocolChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}
	return r.db.WithContext(ctx).CreateInBatches(models, 100).Error
}

func (r *ProtocolChunkRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProtocolChunk{}, id).Error
}

// DeleteBySource removes every chunk of a protocol file, used before re-ingestion.
func (r *ProtocolChunkRepositoryImpl) DeleteBySource(ctx context.Context, source string) error {
	return r.db.WithContext(ctx).Where("source = ?", source).Delete(&model.ProtocolChunk{}).Error
}

func (r *ProtocolChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProtocolChunk{}).Count(&count).Error
	return count, err
}

func (r *ProtocolChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredProtocolChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// pgvector cosine distance: embedding_value <=> vector. Similarity is
	// 1 - distance; the threshold filter happens in SQL so we never ship
	// irrelevant rows over the wire.
	type row struct {
		model.ProtocolChunk
		Distance float64 `gorm:"column:distance"`
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.ProtocolChunk{}).
		Select("*, embedding_value <=> ? AS distance", pgvector.NewVector(embedding)).
		Where("protocol_chunks.deleted_at IS NULL").
		Where("(embedding_value <=> ?) <= ?", pgvector.NewVector(embedding), 1.0-threshold).
		Order("distance ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredProtocolChunk, len(rows))
	for i := range rows {
		scored[i] = &contract.ScoredProtocolChunk{
			Chunk:      r.mapper.ToEntity(&rows[i].ProtocolChunk),
			Similarity: 1.0 - rows[i].Distance,
		}
	}
	return scored, nil
}

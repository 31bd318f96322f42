package implementation

import (
	"context"

	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/mapper"
	"shop-assistant-be/internal/model"
	"shop-assistant-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ProductEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProductEmbeddingMapper
}

func NewProductEmbeddingRepository(db *gorm.DB) contract.ProductEmbeddingRepository {
	return &ProductEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewProductEmbeddingMapper(),
	}
}

func (r *ProductEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.ProductEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return wrapStoreErr(err)
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProductEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.ProductEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.ProductEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}
	return wrapStoreErr(r.db.WithContext(ctx).Create(&models).Error)
}

func (r *ProductEmbeddingRepositoryImpl) DeleteByProductId(ctx context.Context, productId uuid.UUID) error {
	return wrapStoreErr(r.db.WithContext(ctx).Where("product_id = ?", productId).Delete(&model.ProductEmbedding{}).Error)
}

func (r *ProductEmbeddingRepositoryImpl) DistinctProductIds(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.ProductEmbedding{}).
		Distinct("product_id").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return ids, nil
}

// SearchSimilarWithScore returns embeddings with similarity scores, filtered by threshold.
// Cosine distance in pgvector is 1 - cosine_similarity.
func (r *ProductEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, vector []float32, topK int, threshold float64) ([]*contract.ScoredProductEmbedding, error) {
	if topK <= 0 {
		topK = 5
	}

	type result struct {
		model.ProductEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	err := r.db.WithContext(ctx).
		Table("product_embeddings").
		Select("product_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN products ON products.id = product_embeddings.product_id").
		Where("products.is_active = ?", true).
		Where("product_embeddings.deleted_at IS NULL").
		Where("products.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(topK).
		Scan(&results).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	scored := make([]*contract.ScoredProductEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredProductEmbedding{
			Embedding:  r.mapper.ToEntity(&res.ProductEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *ProductEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductEmbedding{}).Count(&count).Error
	return count, wrapStoreErr(err)
}

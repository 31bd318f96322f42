package contract

import (
	"context"

	"shop-assistant-be/internal/entity"

	"github.com/google/uuid"
)

type ScoredProductEmbedding struct {
	Embedding  *entity.ProductEmbedding
	Similarity float64
}

type ProductEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.ProductEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.ProductEmbedding) error
	DeleteByProductId(ctx context.Context, productId uuid.UUID) error

	// DistinctProductIds lists products that already have embeddings, so
	// the startup sweep only enqueues the missing ones.
	DistinctProductIds(ctx context.Context) ([]uuid.UUID, error)

	// SearchSimilarWithScore runs cosine-similarity search and returns
	// hits at or above the threshold, best first.
	SearchSimilarWithScore(ctx context.Context, vector []float32, topK int, threshold float64) ([]*ScoredProductEmbedding, error)
	Count(ctx context.Context) (int64, error)
}

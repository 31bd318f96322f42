package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/repository/contract"

	"github.com/google/uuid"
)

type ProductEmbeddingRepository struct {
	mu    sync.RWMutex
	items []*entity.ProductEmbedding
}

func NewProductEmbeddingRepository() *ProductEmbeddingRepository {
	return &ProductEmbeddingRepository{}
}

func (r *ProductEmbeddingRepository) Create(ctx context.Context, e *entity.ProductEmbedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.items = append(r.items, &cp)
	return nil
}

func (r *ProductEmbeddingRepository) CreateBulk(ctx context.Context, embeddings []*entity.ProductEmbedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range embeddings {
		cp := *e
		r.items = append(r.items, &cp)
	}
	return nil
}

func (r *ProductEmbeddingRepository) DeleteByProductId(ctx context.Context, productId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, e := range r.items {
		if e.ProductId != productId {
			kept = append(kept, e)
		}
	}
	r.items = kept
	return nil
}

func (r *ProductEmbeddingRepository) DistinctProductIds(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, e := range r.items {
		if _, ok := seen[e.ProductId]; ok {
			continue
		}
		seen[e.ProductId] = struct{}{}
		ids = append(ids, e.ProductId)
	}
	return ids, nil
}

func (r *ProductEmbeddingRepository) SearchSimilarWithScore(ctx context.Context, vector []float32, topK int, threshold float64) ([]*contract.ScoredProductEmbedding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var scored []*contract.ScoredProductEmbedding
	for _, e := range r.items {
		sim := cosineSimilarity(vector, e.Embedding)
		if sim < threshold {
			continue
		}
		cp := *e
		scored = append(scored, &contract.ScoredProductEmbedding{Embedding: &cp, Similarity: sim})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Similarity > scored[j].Similarity })
	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

func (r *ProductEmbeddingRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

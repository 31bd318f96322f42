package mapper

import (
	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ProductEmbeddingMapper struct{}

func NewProductEmbeddingMapper() *ProductEmbeddingMapper {
	return &ProductEmbeddingMapper{}
}

func (m *ProductEmbeddingMapper) ToEntity(e *model.ProductEmbedding) *entity.ProductEmbedding {
	if e == nil {
		return nil
	}

	return &entity.ProductEmbedding{
		Id:        e.Id,
		ProductId: e.ProductId,
		Document:  e.Document,
		Embedding: e.EmbeddingValue.Slice(),
		CreatedAt: e.CreatedAt,
	}
}

func (m *ProductEmbeddingMapper) ToModel(e *entity.ProductEmbedding) *model.ProductEmbedding {
	if e == nil {
		return nil
	}

	return &model.ProductEmbedding{
		Id:             e.Id,
		ProductId:      e.ProductId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		CreatedAt:      e.CreatedAt,
	}
}

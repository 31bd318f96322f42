package contract

import (
	"context"

	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredProduct is a full-text search hit with its raw engine rank.
// Ranks are only comparable within one result batch.
type ScoredProduct struct {
	Product *entity.Product
	Rank    float64
}

// ProductFilter carries the structured predicates the storefront may combine
// with a text query. Only products are filterable this way.
type ProductFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchRanked performs ranked full-text matching over name,
	// description and tags of active products. Inactive products are
	// never returned.
	SearchRanked(ctx context.Context, query string, filter ProductFilter, limit int) ([]*ScoredProduct, error)
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProductSearchRequest struct {
	Query    string   `query:"q"`
	Category string   `query:"category"`
	MinPrice *float64 `query:"min_price" validate:"omitempty,gte=0"`
	MaxPrice *float64 `query:"max_price" validate:"omitempty,gte=0"`
	Limit    int      `query:"limit" validate:"omitempty,min=1,max=50"`
}

type ProductResponse struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Price       float64    `json:"price"`
	Tags        []string   `json:"tags,omitempty"`
	Language    string     `json:"language,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type ScoredProductResponse struct {
	ProductResponse
	Score         float64  `json:"score"`
	MatchedFields []string `json:"matched_fields,omitempty"`
}

type ProductSearchResponse struct {
	Query   string                  `json:"query"`
	Results []ScoredProductResponse `json:"results"`
}

type SimilarProductResponse struct {
	ProductResponse
	Similarity float64 `json:"similarity"`
}

type SimilarProductsResponse struct {
	ProductId uuid.UUID                `json:"product_id"`
	Results   []SimilarProductResponse `json:"results"`
}

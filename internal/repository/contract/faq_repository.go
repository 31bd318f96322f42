package contract

import (
	"context"

	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ScoredFAQ struct {
	Entry *entity.FAQEntry
	Rank  float64
}

type FAQRepository interface {
	Create(ctx context.Context, entry *entity.FAQEntry) error
	Update(ctx context.Context, entry *entity.FAQEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FAQEntry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FAQEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchRanked matches over question, answer and keywords of active
	// entries.
	SearchRanked(ctx context.Context, query string, limit int) ([]*ScoredFAQ, error)
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProductEmbedding is one embedded chunk of a product document, used by the
// similar-products recommendation path.
type ProductEmbedding struct {
	Id        uuid.UUID
	ProductId uuid.UUID
	Document  string
	Embedding []float32
	CreatedAt time.Time
}

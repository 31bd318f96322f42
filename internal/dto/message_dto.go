package dto

import "github.com/google/uuid"

// PublishEmbedProductMessage is the embed-pipeline payload carried over
// the in-process bus from the content service to the consumer.
type PublishEmbedProductMessage struct {
	ProductId uuid.UUID `json:"product_id"`
}

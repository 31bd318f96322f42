package unitofwork

import (
	"context"

	"shop-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProductRepository() contract.ProductRepository
	FAQRepository() contract.FAQRepository
	KnowledgeRepository() contract.KnowledgeRepository
	ProductEmbeddingRepository() contract.ProductEmbeddingRepository

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
}

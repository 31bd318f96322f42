package memory

import (
	"context"

	"shop-assistant-be/internal/repository/contract"
	"shop-assistant-be/internal/repository/unitofwork"
)

// UnitOfWork shares one set of map-backed repositories across every unit
// created by the factory. Begin/Commit/Rollback are no-ops; there is no
// transaction to scope.
type UnitOfWork struct {
	products   *ProductRepository
	faqs       *FAQRepository
	knowledge  *KnowledgeRepository
	embeddings *ProductEmbeddingRepository
	sessions   *ChatSessionRepository
	messages   *ChatMessageRepository
}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{
		products:   NewProductRepository(),
		faqs:       NewFAQRepository(),
		knowledge:  NewKnowledgeRepository(),
		embeddings: NewProductEmbeddingRepository(),
		sessions:   NewChatSessionRepository(),
		messages:   NewChatMessageRepository(),
	}
}

func (u *UnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *UnitOfWork) Commit() error                   { return nil }
func (u *UnitOfWork) Rollback() error                 { return nil }

func (u *UnitOfWork) ProductRepository() contract.ProductRepository { return u.products }
func (u *UnitOfWork) FAQRepository() contract.FAQRepository         { return u.faqs }
func (u *UnitOfWork) KnowledgeRepository() contract.KnowledgeRepository {
	return u.knowledge
}
func (u *UnitOfWork) ProductEmbeddingRepository() contract.ProductEmbeddingRepository {
	return u.embeddings
}
func (u *UnitOfWork) ChatSessionRepository() contract.ChatSessionRepository { return u.sessions }
func (u *UnitOfWork) ChatMessageRepository() contract.ChatMessageRepository { return u.messages }

// Factory hands out the same UnitOfWork for every request so that tests
// observe a single shared store.
type Factory struct {
	uow *UnitOfWork
}

func NewFactory() *Factory {
	return &Factory{uow: NewUnitOfWork()}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// Unit exposes the shared unit directly for test seeding.
func (f *Factory) Unit() *UnitOfWork {
	return f.uow
}

package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"shop-assistant-be/internal/dto"
	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/repository/specification"
	"shop-assistant-be/internal/repository/unitofwork"
	"shop-assistant-be/pkg/embedding"
	"shop-assistant-be/pkg/events"
	pktNats "shop-assistant-be/pkg/nats"
	"shop-assistant-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	embedChunkSize    = 1000
	embedChunkOverlap = 100
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher // nil disables events
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedProductMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Embedding product %s", payload.ProductId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: payload.ProductId})
	if err != nil {
		log.Printf("[ERROR] Failed to load product %s: %v", payload.ProductId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if product == nil {
		log.Printf("[WARN] Product %s vanished before embedding", payload.ProductId)
		msg.Ack()
		return
	}

	chunks := utils.SplitText(productDocument(product), embedChunkSize, embedChunkOverlap)

	embeddings := make([]*entity.ProductEmbedding, 0, len(chunks))
	for _, chunk := range chunks {
		resp, err := cs.embeddingProvider.Generate(chunk, "retrieval_document")
		if err != nil {
			log.Printf("[ERROR] Embedding generation failed for product %s: %v", product.Id, err)
			msg.Nack()
			return
		}
		embeddings = append(embeddings, &entity.ProductEmbedding{
			Id:        uuid.New(),
			ProductId: product.Id,
			Document:  chunk,
			Embedding: resp.Embedding.Values,
			CreatedAt: time.Now(),
		})
	}

	// Replace, don't accumulate: re-embedding the same product must not
	// leave stale chunks behind.
	if err := uow.ProductEmbeddingRepository().DeleteByProductId(ctx, product.Id); err != nil {
		log.Printf("[ERROR] Failed to clear old embeddings for %s: %v", product.Id, err)
		msg.Nack()
		return
	}
	if err := uow.ProductEmbeddingRepository().CreateBulk(ctx, embeddings); err != nil {
		log.Printf("[ERROR] Failed to store embeddings for %s: %v", product.Id, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Stored %d embedding chunks for product %s", len(embeddings), product.Id)

	if cs.eventPublisher != nil {
		event := events.NewProductEmbedded(product.Id.String(), len(embeddings))
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish %s for product %s: %v", event.EventType(), product.Id, err)
		}
	}

	msg.Ack()
}

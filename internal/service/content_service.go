package service

import (
	"context"
	"encoding/json"
	"fmt"

	"shop-assistant-be/internal/dto"
	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/pkg/logger"
	"shop-assistant-be/internal/repository/specification"
	"shop-assistant-be/internal/repository/unitofwork"
	"shop-assistant-be/pkg/assistant/retrieval"
	"shop-assistant-be/pkg/embedding"

	"github.com/google/uuid"
)

const similarProductsLimit = 5

// similarityThreshold filters out weak vector matches so the similar
// list stays empty rather than random when nothing truly relates.
const similarityThreshold = 0.35

type IContentService interface {
	SearchProducts(ctx context.Context, request *dto.ProductSearchRequest) (*dto.ProductSearchResponse, error)
	SimilarProducts(ctx context.Context, productId uuid.UUID) (*dto.SimilarProductsResponse, error)

	// EnsureEmbeddings enqueues embed jobs for products that have no
	// stored vectors yet. Run once at startup.
	EnsureEmbeddings(ctx context.Context) error
}

type contentService struct {
	uowFactory        unitofwork.RepositoryFactory
	engine            *retrieval.Engine
	embeddingProvider embedding.EmbeddingProvider
	publisherService  IPublisherService
	log               logger.ILogger
}

func NewContentService(
	uowFactory unitofwork.RepositoryFactory,
	engine *retrieval.Engine,
	embeddingProvider embedding.EmbeddingProvider,
	publisherService IPublisherService,
	log logger.ILogger,
) IContentService {
	return &contentService{
		uowFactory:        uowFactory,
		engine:            engine,
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
		log:               log,
	}
}

// SearchProducts is the storefront product search: delegates to the
// retrieval engine restricted to the product corpus.
func (s *contentService) SearchProducts(ctx context.Context, request *dto.ProductSearchRequest) (*dto.ProductSearchResponse, error) {
	results, err := s.engine.Retrieve(ctx, request.Query, "", retrieval.Filters{
		Category: request.Category,
		MinPrice: request.MinPrice,
		MaxPrice: request.MaxPrice,
	})
	if err != nil {
		return nil, err
	}

	limit := request.Limit
	if limit <= 0 {
		limit = 10
	}

	out := &dto.ProductSearchResponse{
		Query:   request.Query,
		Results: []dto.ScoredProductResponse{},
	}
	for _, r := range results {
		if r.Product == nil {
			continue
		}
		out.Results = append(out.Results, dto.ScoredProductResponse{
			ProductResponse: toProductResponse(r.Product),
			Score:           r.Score,
			MatchedFields:   r.MatchedFields,
		})
		if len(out.Results) >= limit {
			break
		}
	}
	return out, nil
}

// SimilarProducts recommends products near the given one in embedding
// space. The query vector is the stored first chunk of the product's
// own document.
func (s *contentService) SimilarProducts(ctx context.Context, productId uuid.UUID) (*dto.SimilarProductsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: productId}, specification.ActiveOnly{})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product %s not found", productId)
	}

	resp, err := s.embeddingProvider.Generate(productDocument(product), "retrieval_query")
	if err != nil {
		return nil, err
	}

	// Over-fetch: the product's own chunks rank first and multiple
	// chunks per product collapse to one result.
	hits, err := uow.ProductEmbeddingRepository().SearchSimilarWithScore(ctx, resp.Embedding.Values, similarProductsLimit*3, similarityThreshold)
	if err != nil {
		return nil, err
	}

	out := &dto.SimilarProductsResponse{
		ProductId: productId,
		Results:   []dto.SimilarProductResponse{},
	}
	seen := map[uuid.UUID]bool{productId: true}
	for _, h := range hits {
		if seen[h.Embedding.ProductId] {
			continue
		}
		seen[h.Embedding.ProductId] = true

		p, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: h.Embedding.ProductId}, specification.ActiveOnly{})
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		out.Results = append(out.Results, dto.SimilarProductResponse{
			ProductResponse: toProductResponse(p),
			Similarity:      h.Similarity,
		})
		if len(out.Results) >= similarProductsLimit {
			break
		}
	}
	return out, nil
}

func (s *contentService) EnsureEmbeddings(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	products, err := uow.ProductRepository().FindAll(ctx, specification.ActiveOnly{})
	if err != nil {
		return err
	}
	embedded, err := uow.ProductEmbeddingRepository().DistinctProductIds(ctx)
	if err != nil {
		return err
	}
	have := make(map[uuid.UUID]bool, len(embedded))
	for _, id := range embedded {
		have[id] = true
	}

	var queued int
	for _, p := range products {
		if have[p.Id] {
			continue
		}
		payload, err := json.Marshal(dto.PublishEmbedProductMessage{ProductId: p.Id})
		if err != nil {
			return err
		}
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			return err
		}
		queued++
	}

	if queued > 0 {
		s.log.Info("content", "queued products for embedding", map[string]interface{}{
			"count": queued,
		})
	}
	return nil
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Tags:        p.Tags,
		Language:    p.Language,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// productDocument is the canonical text embedded for a product. Keep in
// sync with the consumer's chunking input.
func productDocument(p *entity.Product) string {
	doc := fmt.Sprintf("Product: %s\nCategory: %s\nPrice: %.2f\n\n%s", p.Name, p.Category, p.Price, p.Description)
	if len(p.Tags) > 0 {
		doc += "\nTags: "
		for i, tag := range p.Tags {
			if i > 0 {
				doc += ", "
			}
			doc += tag
		}
	}
	return doc
}

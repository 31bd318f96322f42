package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/repository/contract"
	"shop-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// --- Products ---

type ProductRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*entity.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{items: make(map[uuid.UUID]*entity.Product)}
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.items[p.Id] = &cp
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	return r.Create(ctx, p)
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *ProductRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *ProductRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.Product
	for _, p := range r.items {
		if productMatches(p, specs) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortByCreated(out, func(p *entity.Product) int64 { return p.CreatedAt.UnixNano() })
	return truncate(out, limitFrom(specs)), nil
}

func (r *ProductRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func (r *ProductRepository) SearchRanked(ctx context.Context, query string, filter contract.ProductFilter, limit int) ([]*contract.ScoredProduct, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var scored []*contract.ScoredProduct
	for _, p := range r.items {
		if !p.IsActive {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			continue
		}
		rank := scoreText(query, p.Name, p.Description, strings.Join(p.Tags, " "))
		if rank <= 0 {
			continue
		}
		cp := *p
		scored = append(scored, &contract.ScoredProduct{Product: &cp, Rank: rank})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Rank > scored[j].Rank })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// --- FAQ ---

type FAQRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*entity.FAQEntry
}

func NewFAQRepository() *FAQRepository {
	return &FAQRepository{items: make(map[uuid.UUID]*entity.FAQEntry)}
}

func (r *FAQRepository) Create(ctx context.Context, e *entity.FAQEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.items[e.Id] = &cp
	return nil
}

func (r *FAQRepository) Update(ctx context.Context, e *entity.FAQEntry) error {
	return r.Create(ctx, e)
}

func (r *FAQRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *FAQRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FAQEntry, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *FAQRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FAQEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.FAQEntry
	for _, e := range r.items {
		if faqMatches(e, specs) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sortByCreated(out, func(e *entity.FAQEntry) int64 { return e.CreatedAt.UnixNano() })
	return truncate(out, limitFrom(specs)), nil
}

func (r *FAQRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func (r *FAQRepository) SearchRanked(ctx context.Context, query string, limit int) ([]*contract.ScoredFAQ, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var scored []*contract.ScoredFAQ
	for _, e := range r.items {
		if !e.IsActive {
			continue
		}
		rank := scoreText(query, e.Question, e.Answer, strings.Join(e.Keywords, " "))
		if rank <= 0 {
			continue
		}
		cp := *e
		scored = append(scored, &contract.ScoredFAQ{Entry: &cp, Rank: rank})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Rank > scored[j].Rank })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// --- Knowledge ---

type KnowledgeRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*entity.KnowledgeEntry
}

func NewKnowledgeRepository() *KnowledgeRepository {
	return &KnowledgeRepository{items: make(map[uuid.UUID]*entity.KnowledgeEntry)}
}

func (r *KnowledgeRepository) Create(ctx context.Context, e *entity.KnowledgeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.items[e.Id] = &cp
	return nil
}

func (r *KnowledgeRepository) Update(ctx context.Context, e *entity.KnowledgeEntry) error {
	return r.Create(ctx, e)
}

func (r *KnowledgeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *KnowledgeRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeEntry, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *KnowledgeRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.KnowledgeEntry
	for _, e := range r.items {
		if knowledgeMatches(e, specs) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sortByCreated(out, func(e *entity.KnowledgeEntry) int64 { return e.CreatedAt.UnixNano() })
	return truncate(out, limitFrom(specs)), nil
}

func (r *KnowledgeRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func (r *KnowledgeRepository) SearchRanked(ctx context.Context, query string, limit int) ([]*contract.ScoredKnowledge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var scored []*contract.ScoredKnowledge
	for _, e := range r.items {
		if !e.IsActive {
			continue
		}
		rank := scoreText(query, e.Title, e.Content, strings.Join(e.Keywords, " "))
		if rank <= 0 {
			continue
		}
		cp := *e
		scored = append(scored, &contract.ScoredKnowledge{Entry: &cp, Rank: rank})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Rank > scored[j].Rank })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// --- spec interpretation ---

// The memory impls honor the spec structs the engine actually uses; the
// gorm-oriented ones (OrderBy on arbitrary columns) are approximated by
// stable creation order.

func productMatches(p *entity.Product, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if p.Id != sp.ID {
				return false
			}
		case specification.ActiveOnly:
			if !p.IsActive {
				return false
			}
		case specification.ByCategory:
			if p.Category != sp.Category {
				return false
			}
		case specification.ByLanguage:
			if p.Language != sp.Language {
				return false
			}
		case specification.PriceBetween:
			if sp.Min != nil && p.Price < *sp.Min {
				return false
			}
			if sp.Max != nil && p.Price > *sp.Max {
				return false
			}
		case specification.ByIDs:
			found := false
			for _, id := range sp.IDs {
				if p.Id == id {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func faqMatches(e *entity.FAQEntry, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if e.Id != sp.ID {
				return false
			}
		case specification.ActiveOnly:
			if !e.IsActive {
				return false
			}
		case specification.ByCategory:
			if e.Category != sp.Category {
				return false
			}
		case specification.ByLanguage:
			if e.Language != sp.Language {
				return false
			}
		}
	}
	return true
}

func knowledgeMatches(e *entity.KnowledgeEntry, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if e.Id != sp.ID {
				return false
			}
		case specification.ActiveOnly:
			if !e.IsActive {
				return false
			}
		case specification.ByCategory:
			if e.Category != sp.Category {
				return false
			}
		case specification.ByLanguage:
			if e.Language != sp.Language {
				return false
			}
		}
	}
	return true
}

func limitFrom(specs []specification.Specification) int {
	for _, s := range specs {
		if l, ok := s.(specification.Limit); ok {
			return l.N
		}
	}
	return 0
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func sortByCreated[T any](items []T, key func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool { return key(items[i]) < key(items[j]) })
}

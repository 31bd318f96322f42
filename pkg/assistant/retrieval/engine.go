package retrieval

import (
	"context"
	"sort"
	"strings"
	"time"

	"shop-assistant-be/internal/constant"
	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/repository/contract"
	"shop-assistant-be/internal/repository/specification"
	"shop-assistant-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Config bounds a retrieve call. MinQueryLen is the policy threshold
// below which text search is skipped entirely.
type Config struct {
	MinQueryLen     int
	PerTypeLimit    int
	TotalLimit      int
	LanguagePenalty float64
}

// Filters are the structured predicates a caller may combine with the
// text query. Only products honor them; FAQ and knowledge entries are
// matched by text alone.
type Filters struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
}

func (f Filters) empty() bool {
	return f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// Result is one scored hit. Exactly one of Product, FAQ and Knowledge is
// set, matching ContentType.
type Result struct {
	ContentType   string
	ID            uuid.UUID
	Score         float64
	MatchedFields []string

	Product   *entity.Product
	FAQ       *entity.FAQEntry
	Knowledge *entity.KnowledgeEntry
}

// Title returns the display heading of the underlying item.
func (r *Result) Title() string {
	switch r.ContentType {
	case constant.ContentTypeProduct:
		return r.Product.Name
	case constant.ContentTypeFAQ:
		return r.FAQ.Question
	case constant.ContentTypeKnowledge:
		return r.Knowledge.Title
	}
	return ""
}

// Body returns the main searchable text of the underlying item.
func (r *Result) Body() string {
	switch r.ContentType {
	case constant.ContentTypeProduct:
		return r.Product.Description
	case constant.ContentTypeFAQ:
		return r.FAQ.Answer
	case constant.ContentTypeKnowledge:
		return r.Knowledge.Content
	}
	return ""
}

func (r *Result) language() string {
	switch r.ContentType {
	case constant.ContentTypeProduct:
		return r.Product.Language
	case constant.ContentTypeFAQ:
		return r.FAQ.Language
	case constant.ContentTypeKnowledge:
		return r.Knowledge.Language
	}
	return ""
}

func (r *Result) priority() int {
	switch r.ContentType {
	case constant.ContentTypeFAQ:
		return r.FAQ.Priority
	case constant.ContentTypeKnowledge:
		return r.Knowledge.Priority
	}
	return 0
}

func (r *Result) updatedAt() time.Time {
	var created time.Time
	var updated *time.Time
	switch r.ContentType {
	case constant.ContentTypeProduct:
		created, updated = r.Product.CreatedAt, r.Product.UpdatedAt
	case constant.ContentTypeFAQ:
		created, updated = r.FAQ.CreatedAt, r.FAQ.UpdatedAt
	case constant.ContentTypeKnowledge:
		created, updated = r.Knowledge.CreatedAt, r.Knowledge.UpdatedAt
	}
	if updated != nil {
		return *updated
	}
	return created
}

// Engine merges ranked text search over the three content corpora into
// one bounded, deterministically ordered result set.
type Engine struct {
	factory unitofwork.RepositoryFactory
	cfg     Config
}

func NewEngine(factory unitofwork.RepositoryFactory, cfg Config) *Engine {
	if cfg.MinQueryLen <= 0 {
		cfg.MinQueryLen = 2
	}
	if cfg.PerTypeLimit <= 0 {
		cfg.PerTypeLimit = 5
	}
	if cfg.TotalLimit <= 0 {
		cfg.TotalLimit = 8
	}
	return &Engine{factory: factory, cfg: cfg}
}

// Retrieve ranks content for a query. An empty outcome is not an error.
// Queries below MinQueryLen skip the store entirely unless filters are
// present, in which case products are filtered with a uniform score.
func (e *Engine) Retrieve(ctx context.Context, query, language string, filters Filters) ([]*Result, error) {
	query = strings.TrimSpace(query)

	if len([]rune(query)) < e.cfg.MinQueryLen {
		if filters.empty() {
			return nil, nil
		}
		return e.filterOnly(ctx, filters)
	}

	uow := e.factory.NewUnitOfWork(ctx)

	products, err := uow.ProductRepository().SearchRanked(ctx, query, contract.ProductFilter{
		Category: filters.Category,
		MinPrice: filters.MinPrice,
		MaxPrice: filters.MaxPrice,
	}, e.cfg.PerTypeLimit)
	if err != nil {
		return nil, err
	}
	faqs, err := uow.FAQRepository().SearchRanked(ctx, query, e.cfg.PerTypeLimit)
	if err != nil {
		return nil, err
	}
	knowledge, err := uow.KnowledgeRepository().SearchRanked(ctx, query, e.cfg.PerTypeLimit)
	if err != nil {
		return nil, err
	}

	var merged []*Result
	merged = append(merged, normalizeProducts(products, query)...)
	merged = append(merged, normalizeFAQs(faqs, query)...)
	merged = append(merged, normalizeKnowledge(knowledge, query)...)

	if language != "" && e.cfg.LanguagePenalty > 0 {
		for _, r := range merged {
			if r.language() != "" && r.language() != language {
				r.Score *= 1 - e.cfg.LanguagePenalty
			}
		}
	}

	sortResults(merged)
	if len(merged) > e.cfg.TotalLimit {
		merged = merged[:e.cfg.TotalLimit]
	}
	return merged, nil
}

func (e *Engine) filterOnly(ctx context.Context, filters Filters) ([]*Result, error) {
	specs := []specification.Specification{specification.ActiveOnly{}}
	if filters.Category != "" {
		specs = append(specs, specification.ByCategory{Category: filters.Category})
	}
	if filters.MinPrice != nil || filters.MaxPrice != nil {
		specs = append(specs, specification.PriceBetween{Min: filters.MinPrice, Max: filters.MaxPrice})
	}
	specs = append(specs, specification.Limit{N: e.cfg.TotalLimit})

	uow := e.factory.NewUnitOfWork(ctx)
	products, err := uow.ProductRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, len(products))
	for i, p := range products {
		results[i] = &Result{
			ContentType: constant.ContentTypeProduct,
			ID:          p.Id,
			Score:       1,
			Product:     p,
		}
	}
	sortResults(results)
	return results, nil
}

// --- scoring helpers ---

// normalize applies min-max scaling within one type batch so raw engine
// ranks from different indexes become comparable. A single-hit batch
// maps to 1.
func normalize(ranks []float64) []float64 {
	if len(ranks) == 0 {
		return nil
	}
	min, max := ranks[0], ranks[0]
	for _, r := range ranks[1:] {
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	out := make([]float64, len(ranks))
	for i, r := range ranks {
		if max == min {
			out[i] = 1
			continue
		}
		out[i] = (r - min) / (max - min)
	}
	return out
}

func normalizeProducts(hits []*contract.ScoredProduct, query string) []*Result {
	ranks := make([]float64, len(hits))
	for i, h := range hits {
		ranks[i] = h.Rank
	}
	scores := normalize(ranks)

	out := make([]*Result, len(hits))
	for i, h := range hits {
		out[i] = &Result{
			ContentType: constant.ContentTypeProduct,
			ID:          h.Product.Id,
			Score:       scores[i],
			Product:     h.Product,
			MatchedFields: matchedFields(query, map[string]string{
				"name":        h.Product.Name,
				"description": h.Product.Description,
				"tags":        strings.Join(h.Product.Tags, " "),
			}),
		}
	}
	return out
}

func normalizeFAQs(hits []*contract.ScoredFAQ, query string) []*Result {
	ranks := make([]float64, len(hits))
	for i, h := range hits {
		ranks[i] = h.Rank
	}
	scores := normalize(ranks)

	out := make([]*Result, len(hits))
	for i, h := range hits {
		out[i] = &Result{
			ContentType: constant.ContentTypeFAQ,
			ID:          h.Entry.Id,
			Score:       scores[i],
			FAQ:         h.Entry,
			MatchedFields: matchedFields(query, map[string]string{
				"question": h.Entry.Question,
				"answer":   h.Entry.Answer,
				"keywords": strings.Join(h.Entry.Keywords, " "),
			}),
		}
	}
	return out
}

func normalizeKnowledge(hits []*contract.ScoredKnowledge, query string) []*Result {
	ranks := make([]float64, len(hits))
	for i, h := range hits {
		ranks[i] = h.Rank
	}
	scores := normalize(ranks)

	out := make([]*Result, len(hits))
	for i, h := range hits {
		out[i] = &Result{
			ContentType: constant.ContentTypeKnowledge,
			ID:          h.Entry.Id,
			Score:       scores[i],
			Knowledge:   h.Entry,
			MatchedFields: matchedFields(query, map[string]string{
				"title":    h.Entry.Title,
				"content":  h.Entry.Content,
				"keywords": strings.Join(h.Entry.Keywords, " "),
			}),
		}
	}
	return out
}

// matchedFields reports which searchable fields contain any query term.
// The text index cannot report this, so it is recomputed here for the
// result summary.
func matchedFields(query string, fields map[string]string) []string {
	terms := strings.Fields(strings.ToLower(query))
	var out []string
	for _, name := range []string{"name", "description", "tags", "question", "answer", "title", "content", "keywords"} {
		value, ok := fields[name]
		if !ok {
			continue
		}
		lower := strings.ToLower(value)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// sortResults applies the deterministic total order: score desc, then
// priority desc, then most recent update desc, then id asc.
func sortResults(results []*Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.priority() != b.priority() {
			return a.priority() > b.priority()
		}
		au, bu := a.updatedAt(), b.updatedAt()
		if !au.Equal(bu) {
			return au.After(bu)
		}
		return a.ID.String() < b.ID.String()
	})
}

package retrieval

import (
	"context"
	"testing"
	"time"

	"shop-assistant-be/internal/constant"
	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/repository/memory"

	"github.com/google/uuid"
)

func seedProduct(t *testing.T, uow *memory.UnitOfWork, name, desc, category string, price float64, active bool) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Id:          uuid.New(),
		Name:        name,
		Description: desc,
		Category:    category,
		Price:       price,
		Language:    "en",
		IsActive:    active,
		CreatedAt:   time.Now(),
	}
	if err := uow.ProductRepository().Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	return p
}

func seedKnowledge(t *testing.T, uow *memory.UnitOfWork, title, content, category string, priority int, updated time.Time) *entity.KnowledgeEntry {
	t.Helper()
	e := &entity.KnowledgeEntry{
		Id:        uuid.New(),
		Title:     title,
		Content:   content,
		Type:      constant.KnowledgeTypePolicy,
		Category:  category,
		Language:  "en",
		Priority:  priority,
		IsActive:  true,
		CreatedAt: updated,
		UpdatedAt: &updated,
	}
	if err := uow.KnowledgeRepository().Create(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	return e
}

func seedFAQ(t *testing.T, uow *memory.UnitOfWork, question, answer string, priority int) *entity.FAQEntry {
	t.Helper()
	e := &entity.FAQEntry{
		Id:        uuid.New(),
		Question:  question,
		Answer:    answer,
		Language:  "en",
		Priority:  priority,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := uow.FAQRepository().Create(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestShortQueryReturnsEmptyWithoutStoreCall(t *testing.T) {
	factory := memory.NewFactory()
	seedProduct(t, factory.Unit(), "a", "a product that matches the letter a", "misc", 1, true)

	engine := NewEngine(factory, Config{MinQueryLen: 2})

	results, err := engine.Retrieve(context.Background(), "a", "en", Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for sub-minimum query, want 0", len(results))
	}
}

func TestInactiveItemsNeverReturned(t *testing.T) {
	factory := memory.NewFactory()
	seedProduct(t, factory.Unit(), "espresso machine", "makes espresso", "kitchen", 200, true)
	hidden := seedProduct(t, factory.Unit(), "espresso grinder", "grinds espresso beans", "kitchen", 80, false)

	engine := NewEngine(factory, Config{})

	results, err := engine.Retrieve(context.Background(), "espresso", "en", Filters{})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.ID == hidden.Id {
			t.Fatal("inactive product surfaced in retrieval")
		}
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestTieBreakIsDeterministic(t *testing.T) {
	factory := memory.NewFactory()
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	// Same text, so identical raw rank. Priority must decide, then
	// recency, then id.
	low := seedKnowledge(t, factory.Unit(), "shipping times", "shipping takes days", "shipping", 1, newer)
	high := seedKnowledge(t, factory.Unit(), "shipping times", "shipping takes days", "shipping", 5, older)
	mid1 := seedKnowledge(t, factory.Unit(), "shipping times", "shipping takes days", "shipping", 3, older)
	mid2 := seedKnowledge(t, factory.Unit(), "shipping times", "shipping takes days", "shipping", 3, newer)

	engine := NewEngine(factory, Config{TotalLimit: 10})

	for run := 0; run < 5; run++ {
		results, err := engine.Retrieve(context.Background(), "shipping", "en", Filters{})
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 4 {
			t.Fatalf("got %d results, want 4", len(results))
		}
		if results[0].ID != high.Id {
			t.Errorf("run %d: first = %s, want highest priority", run, results[0].Title())
		}
		if results[1].ID != mid2.Id {
			t.Errorf("run %d: second should be the newer priority-3 entry", run)
		}
		if results[2].ID != mid1.Id {
			t.Errorf("run %d: third should be the older priority-3 entry", run)
		}
		if results[3].ID != low.Id {
			t.Errorf("run %d: last should be lowest priority", run)
		}
	}
}

func TestKnowledgePriorityOutranksFAQOnTie(t *testing.T) {
	factory := memory.NewFactory()
	kb := seedKnowledge(t, factory.Unit(), "International shipping", "Yes, we ship internationally to most countries.", "shipping", 5, time.Now())
	seedFAQ(t, factory.Unit(), "Do you ship internationally?", "See our shipping policy.", 1)

	engine := NewEngine(factory, Config{})

	results, err := engine.Retrieve(context.Background(), "ship internationally", "en", Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) < 2 {
		t.Fatalf("got %d results, want at least 2", len(results))
	}
	if results[0].ID != kb.Id {
		t.Errorf("first result = %s (%s), want the priority-5 knowledge entry", results[0].Title(), results[0].ContentType)
	}
}

func TestLanguagePenaltyPrefersSameLanguage(t *testing.T) {
	factory := memory.NewFactory()
	en := seedKnowledge(t, factory.Unit(), "returns policy", "returns accepted within 30 days", "returns", 1, time.Now())

	idEntry := seedKnowledge(t, factory.Unit(), "returns policy", "returns accepted within 30 days", "returns", 1, time.Now())
	idEntry.Language = "id"
	if err := factory.Unit().KnowledgeRepository().Update(context.Background(), idEntry); err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(factory, Config{LanguagePenalty: 0.3})

	results, err := engine.Retrieve(context.Background(), "returns policy", "en", Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: cross-language items are penalized, not excluded", len(results))
	}
	if results[0].ID != en.Id {
		t.Error("same-language entry should rank first")
	}
	if results[1].Score >= results[0].Score {
		t.Errorf("penalized score %f should be below %f", results[1].Score, results[0].Score)
	}
}

func TestFilterOnlyModeUniformScore(t *testing.T) {
	factory := memory.NewFactory()
	seedProduct(t, factory.Unit(), "drip kettle", "gooseneck kettle", "kitchen", 45, true)
	seedProduct(t, factory.Unit(), "cast iron pan", "heavy pan", "kitchen", 60, true)
	seedProduct(t, factory.Unit(), "desk lamp", "led lamp", "office", 30, true)

	engine := NewEngine(factory, Config{})

	min := 40.0
	results, err := engine.Retrieve(context.Background(), "", "en", Filters{Category: "kitchen", MinPrice: &min})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Score != 1 {
			t.Errorf("filter-only score = %f, want uniform 1", r.Score)
		}
		if r.ContentType != constant.ContentTypeProduct {
			t.Errorf("filter-only mode returned %s", r.ContentType)
		}
	}
}

func TestStructuredFiltersApplyToProductsOnly(t *testing.T) {
	factory := memory.NewFactory()
	seedProduct(t, factory.Unit(), "espresso machine", "makes espresso", "kitchen", 200, true)
	seedProduct(t, factory.Unit(), "espresso cups", "small cups for espresso", "tableware", 15, true)
	faq := seedFAQ(t, factory.Unit(), "How do I descale my espresso machine?", "Use the descaling cycle monthly.", 2)

	engine := NewEngine(factory, Config{})

	results, err := engine.Retrieve(context.Background(), "espresso", "en", Filters{Category: "kitchen"})
	if err != nil {
		t.Fatal(err)
	}

	var sawFAQ, sawTableware bool
	for _, r := range results {
		if r.ID == faq.Id {
			sawFAQ = true
		}
		if r.ContentType == constant.ContentTypeProduct && r.Product.Category == "tableware" {
			sawTableware = true
		}
	}
	if !sawFAQ {
		t.Error("FAQ should ignore the product filter and still match by text")
	}
	if sawTableware {
		t.Error("category filter must exclude non-matching products")
	}
}

func TestMatchedFieldsSummary(t *testing.T) {
	factory := memory.NewFactory()
	seedProduct(t, factory.Unit(), "espresso machine", "stainless steel brewer", "kitchen", 200, true)

	engine := NewEngine(factory, Config{})

	results, err := engine.Retrieve(context.Background(), "espresso", "en", Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	fields := results[0].MatchedFields
	if len(fields) != 1 || fields[0] != "name" {
		t.Errorf("matched fields = %v, want [name]", fields)
	}
}

package response

import (
	"strings"
	"testing"

	"shop-assistant-be/internal/constant"
	"shop-assistant-be/internal/entity"
	"shop-assistant-be/pkg/assistant/retrieval"

	"github.com/google/uuid"
)

func TestFallbackWithoutContextUsesNotice(t *testing.T) {
	if got := Fallback(nil); got != constant.AssistantUnavailableNotice {
		t.Errorf("got %q, want the static notice", got)
	}
}

func TestFallbackUsesTopHit(t *testing.T) {
	results := []*retrieval.Result{
		{
			ContentType: constant.ContentTypeKnowledge,
			ID:          uuid.New(),
			Knowledge: &entity.KnowledgeEntry{
				Title:   "International shipping",
				Content: "Yes, we ship internationally to most countries.",
			},
		},
		{
			ContentType: constant.ContentTypeFAQ,
			ID:          uuid.New(),
			FAQ:         &entity.FAQEntry{Question: "q", Answer: "see policy"},
		},
	}

	got := Fallback(results)
	if !strings.Contains(got, "ship internationally") {
		t.Errorf("fallback %q should excerpt the top hit", got)
	}
	if strings.Contains(got, "see policy") {
		t.Error("fallback must use only the top hit")
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	results := []*retrieval.Result{
		{
			ContentType: constant.ContentTypeFAQ,
			ID:          uuid.New(),
			FAQ:         &entity.FAQEntry{Question: "q", Answer: "Free returns within 30 days."},
		},
	}
	first := Fallback(results)
	for i := 0; i < 3; i++ {
		if got := Fallback(results); got != first {
			t.Fatal("fallback reply must be deterministic")
		}
	}
}

func TestExcerptBounds(t *testing.T) {
	long := strings.Repeat("word ", 200)
	got := excerpt(long)
	if len([]rune(got)) > excerptLimit+1 {
		t.Errorf("excerpt length %d exceeds limit", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Error("truncated excerpt should end with an ellipsis")
	}
}

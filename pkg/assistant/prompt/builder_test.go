package prompt

import (
	"strings"
	"testing"
	"time"

	"shop-assistant-be/internal/constant"
	"shop-assistant-be/internal/entity"
	"shop-assistant-be/pkg/assistant/retrieval"

	"github.com/google/uuid"
)

func msg(role, text string, offset time.Duration) *entity.ChatMessage {
	return &entity.ChatMessage{
		Id:        uuid.New(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().Add(offset),
	}
}

func kbResult(title, content string) *retrieval.Result {
	return &retrieval.Result{
		ContentType: constant.ContentTypeKnowledge,
		ID:          uuid.New(),
		Score:       1,
		Knowledge: &entity.KnowledgeEntry{
			Id:      uuid.New(),
			Title:   title,
			Content: content,
			Type:    constant.KnowledgeTypePolicy,
		},
	}
}

func TestBuildShape(t *testing.T) {
	b := NewBuilder(0)
	history := []*entity.ChatMessage{
		msg(constant.ChatMessageRoleUser, "do you sell kettles?", -2*time.Minute),
		msg(constant.ChatMessageRoleAssistant, "yes, two models", -time.Minute),
	}

	messages := b.Build([]*retrieval.Result{kbResult("Shipping", "We ship worldwide.")}, history, "how much is shipping?")

	if len(messages) != 4 {
		t.Fatalf("got %d messages, want system + 2 history + user", len(messages))
	}
	if messages[0].Role != "system" {
		t.Errorf("first role = %s, want system", messages[0].Role)
	}
	if !strings.Contains(messages[0].Content, "We ship worldwide.") {
		t.Error("system message should carry the retrieved context")
	}
	last := messages[len(messages)-1]
	if last.Role != constant.ChatMessageRoleUser || last.Content != "how much is shipping?" {
		t.Errorf("last message = %+v, want the current user turn", last)
	}
}

func TestBudgetTrimsOldestHistoryFirst(t *testing.T) {
	b := NewBuilder(len(systemPreamble) + 100)

	history := []*entity.ChatMessage{
		msg(constant.ChatMessageRoleUser, strings.Repeat("old ", 20), -3*time.Minute),
		msg(constant.ChatMessageRoleAssistant, "short reply", -2*time.Minute),
		msg(constant.ChatMessageRoleUser, "recent question", -time.Minute),
	}

	messages := b.Build(nil, history, "final turn")

	for _, m := range messages {
		if strings.Contains(m.Content, "old old") {
			t.Error("oldest message should have been trimmed")
		}
	}
	var sawRecent bool
	for _, m := range messages {
		if m.Content == "recent question" {
			sawRecent = true
		}
	}
	if !sawRecent {
		t.Error("most recent history should survive trimming")
	}
	if messages[len(messages)-1].Content != "final turn" {
		t.Error("current turn must never be trimmed")
	}
}

func TestContextDropsLowestRankedFirst(t *testing.T) {
	long := strings.Repeat("detail ", 40)
	top := kbResult("Returns", long)
	low := kbResult("Warranty", long)

	b := NewBuilder(len(systemPreamble) + 350)

	messages := b.Build([]*retrieval.Result{top, low}, nil, "hi")

	system := messages[0].Content
	if !strings.Contains(system, "Returns") {
		t.Error("top ranked context must be kept")
	}
	if strings.Contains(system, "Warranty") {
		t.Error("lower ranked context should be dropped when budget is tight")
	}
}

func TestEmptyContextNote(t *testing.T) {
	b := NewBuilder(0)
	messages := b.Build(nil, nil, "hello")
	if !strings.Contains(messages[0].Content, "no store content matched") {
		t.Error("system message should note the empty context")
	}
}

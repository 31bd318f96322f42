package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"shop-assistant-be/internal/apperror"
	"shop-assistant-be/internal/config"
	"shop-assistant-be/internal/constant"
	"shop-assistant-be/internal/dto"
	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/pkg/logger"
	"shop-assistant-be/internal/repository/memory"
	"shop-assistant-be/pkg/assistant/prompt"
	"shop-assistant-be/pkg/assistant/retrieval"
	"shop-assistant-be/pkg/assistant/session"
	"shop-assistant-be/pkg/llm"
	"shop-assistant-be/pkg/llm/lifecycle"

	"github.com/google/uuid"
)

type fakeModelBackend struct {
	installed bool
}

func (f *fakeModelBackend) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	if f.installed {
		return []llm.ModelInfo{{Name: "llama3"}}, nil
	}
	return nil, nil
}

func (f *fakeModelBackend) Pull(ctx context.Context, model string) error {
	f.installed = true
	return nil
}

type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type fixture struct {
	factory *memory.Factory
	svc     IAssistantService
	llm     *fakeLLM
	backend *fakeModelBackend
}

func newFixture(t *testing.T, modelInstalled bool) *fixture {
	t.Helper()

	factory := memory.NewFactory()
	backend := &fakeModelBackend{installed: modelInstalled}
	manager := lifecycle.NewManager(backend, "llama3", logger.NewNoopLogger())
	provider := &fakeLLM{reply: "Yes, we ship worldwide!"}

	svc := NewAssistantService(
		session.NewStore(factory, time.Hour),
		retrieval.NewEngine(factory, retrieval.Config{}),
		prompt.NewBuilder(0),
		manager,
		provider,
		config.AssistantConfig{ReadinessWaitSeconds: 1, HistoryLimit: 10},
		logger.NewNoopLogger(),
		nil,
	)
	return &fixture{factory: factory, svc: svc, llm: provider, backend: backend}
}

func (f *fixture) seedShippingContent(t *testing.T) *entity.KnowledgeEntry {
	t.Helper()
	ctx := context.Background()
	kb := &entity.KnowledgeEntry{
		Id:        uuid.New(),
		Title:     "International shipping",
		Content:   "Yes, we ship internationally to most countries within 5-10 business days.",
		Type:      constant.KnowledgeTypePolicy,
		Category:  "shipping",
		Language:  "en",
		Priority:  5,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := f.factory.Unit().KnowledgeRepository().Create(ctx, kb); err != nil {
		t.Fatal(err)
	}
	faq := &entity.FAQEntry{
		Id:        uuid.New(),
		Question:  "Where do you ship from?",
		Answer:    "All orders ship from our warehouse.",
		Language:  "en",
		Priority:  1,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := f.factory.Unit().FAQRepository().Create(ctx, faq); err != nil {
		t.Fatal(err)
	}
	return kb
}

func (f *fixture) history(t *testing.T, sessionKey string) []dto.ChatMessageResponse {
	t.Helper()
	resp, err := f.svc.GetHistory(context.Background(), sessionKey, 50)
	if err != nil {
		t.Fatal(err)
	}
	return resp.Messages
}

func TestSendChatWithAvailableModel(t *testing.T) {
	f := newFixture(t, true)
	f.seedShippingContent(t)

	resp, err := f.svc.SendChat(context.Background(), &dto.SendChatRequest{
		SessionKey: "s1",
		Message:    "Do you ship internationally?",
		Language:   "en",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Fallback {
		t.Error("available model should not take the fallback path")
	}
	if resp.Reply.Text != "Yes, we ship worldwide!" {
		t.Errorf("reply = %q", resp.Reply.Text)
	}
	if f.llm.calls != 1 {
		t.Errorf("inference calls = %d, want exactly 1 per turn", f.llm.calls)
	}

	// Exactly the turn's two messages, in turn order.
	msgs := f.history(t, "s1")
	if len(msgs) != 2 {
		t.Fatalf("history has %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != constant.ChatMessageRoleUser || msgs[1].Role != constant.ChatMessageRoleAssistant {
		t.Error("turn messages out of order")
	}
	if msgs[1].CreatedAt.Before(msgs[0].CreatedAt) {
		t.Error("assistant reply stamped before the user message")
	}
}

func TestGreetingReturnedOnceAndNeverStored(t *testing.T) {
	f := newFixture(t, true)

	first, err := f.svc.SendChat(context.Background(), &dto.SendChatRequest{
		SessionKey: "s1",
		Message:    "hello",
		Language:   "en",
	})
	if err != nil {
		t.Fatal(err)
	}
	if first.Greeting != constant.SessionGreeting {
		t.Errorf("greeting = %q, want the session greeting on the opening turn", first.Greeting)
	}

	second, err := f.svc.SendChat(context.Background(), &dto.SendChatRequest{
		SessionKey: "s1",
		Message:    "still here",
		Language:   "en",
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.Greeting != "" {
		t.Errorf("greeting = %q, want empty after the opening turn", second.Greeting)
	}

	// Two turns, four stored messages; the greeting is not one of them.
	msgs := f.history(t, "s1")
	if len(msgs) != 4 {
		t.Fatalf("history has %d messages, want 4", len(msgs))
	}
	for i, m := range msgs {
		if m.Text == constant.SessionGreeting {
			t.Errorf("history[%d] is the greeting; it must not be stored", i)
		}
	}
}

func TestSendChatUnavailableModelUsesFallback(t *testing.T) {
	f := newFixture(t, false)
	kb := f.seedShippingContent(t)

	resp, err := f.svc.SendChat(context.Background(), &dto.SendChatRequest{
		SessionKey: "s1",
		Message:    "Do you ship internationally?",
		Language:   "en",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Fallback {
		t.Error("unavailable model must take the fallback path")
	}
	if f.llm.calls != 0 {
		t.Errorf("inference calls = %d, want 0", f.llm.calls)
	}

	// The priority-5 knowledge entry outranks the FAQ, so the fallback
	// excerpts it.
	if want := kb.Content; resp.Reply.Text != kb.Title+": "+want {
		t.Errorf("fallback reply = %q, want top-hit excerpt", resp.Reply.Text)
	}

	// Exactly one assistant reply for the turn: user + fallback.
	msgs := f.history(t, "s1")
	if len(msgs) != 2 {
		t.Fatalf("history has %d messages, want 2", len(msgs))
	}
}

func TestSendChatUnavailableModelNoContext(t *testing.T) {
	f := newFixture(t, false)

	resp, err := f.svc.SendChat(context.Background(), &dto.SendChatRequest{
		SessionKey: "s1",
		Message:    "anyone there?",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Reply.Text != constant.AssistantUnavailableNotice {
		t.Errorf("reply = %q, want static notice", resp.Reply.Text)
	}
}

func TestSendChatInferenceFailureFallsBack(t *testing.T) {
	f := newFixture(t, true)
	f.seedShippingContent(t)
	f.llm.err = errors.New("connection reset")

	resp, err := f.svc.SendChat(context.Background(), &dto.SendChatRequest{
		SessionKey: "s1",
		Message:    "Do you ship internationally?",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Fallback {
		t.Error("failed inference must fall back, not error")
	}
	if f.llm.calls != 1 {
		t.Errorf("inference calls = %d, want 1 (no retry)", f.llm.calls)
	}
	msgs := f.history(t, "s1")
	if len(msgs) != 2 {
		t.Fatalf("history has %d messages, want 2", len(msgs))
	}
}

func TestSendChatCancellationLeavesNoDanglingReply(t *testing.T) {
	f := newFixture(t, true)
	f.seedShippingContent(t)
	f.llm.err = context.Canceled

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.SendChat(ctx, &dto.SendChatRequest{
		SessionKey: "s1",
		Message:    "Do you ship internationally?",
	})
	if err == nil {
		t.Fatal("cancelled turn should return an error")
	}

	// User message recorded, no assistant append for the turn.
	msgs := f.history(t, "s1")
	if len(msgs) != 1 {
		t.Fatalf("history has %d messages, want the user message only", len(msgs))
	}
	if msgs[0].Role != constant.ChatMessageRoleUser {
		t.Error("user message must survive cancellation")
	}
}

func TestSendChatAfterEndSession(t *testing.T) {
	f := newFixture(t, true)

	if _, err := f.svc.SendChat(context.Background(), &dto.SendChatRequest{SessionKey: "s1", Message: "hi"}); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.EndSession(context.Background(), "s1"); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.SendChat(context.Background(), &dto.SendChatRequest{SessionKey: "s1", Message: "still there?"})
	if !errors.Is(err, apperror.ErrSessionClosed) {
		t.Fatalf("err = %v, want ErrSessionClosed", err)
	}
}

func TestGetHistoryUnknownSession(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.GetHistory(context.Background(), "missing", 10)
	if !errors.Is(err, apperror.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestStatusAndPullAction(t *testing.T) {
	f := newFixture(t, false)

	status := f.svc.GetStatus(context.Background())
	if status.ModelState != string(lifecycle.StateUnknown) {
		t.Errorf("initial state = %s, want unknown", status.ModelState)
	}
	if !status.Features["text_chat"] {
		t.Error("text_chat feature should be on")
	}
	if len(status.SupportedLanguages) == 0 {
		t.Error("supported languages missing")
	}

	resp, err := f.svc.ExecuteAction(context.Background(), &dto.AssistantActionRequest{Action: constant.ActionPullModel})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Action != constant.ActionPullModel {
		t.Errorf("action = %s", resp.Action)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.svc.GetStatus(context.Background()).ModelState == string(lifecycle.StateAvailable) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("pull did not reach available state")
}

func TestUnknownActionRejected(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.ExecuteAction(context.Background(), &dto.AssistantActionRequest{Action: "reboot"})
	if !errors.Is(err, apperror.ErrInvalidMessage) {
		t.Fatalf("err = %v, want ErrInvalidMessage", err)
	}
}

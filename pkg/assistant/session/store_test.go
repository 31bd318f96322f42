package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"shop-assistant-be/internal/apperror"
	"shop-assistant-be/internal/constant"
	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/repository/memory"
)

func userMsg(text string) *entity.ChatMessage {
	return &entity.ChatMessage{
		Role:     constant.ChatMessageRoleUser,
		Text:     text,
		Language: "en",
	}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	store := NewStore(memory.NewFactory(), time.Hour)
	ctx := context.Background()

	first, created, err := store.GetOrCreate(ctx, "s1", "en")
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Error("first reference should create the session")
	}
	if !first.IsActive {
		t.Error("new session must be active")
	}

	second, created, err := store.GetOrCreate(ctx, "s1", "en")
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("second reference must not create")
	}
	if second.Id != first.Id {
		t.Error("same key must resolve to the same session")
	}
}

func TestNewSessionHistoryIsEmpty(t *testing.T) {
	store := NewStore(memory.NewFactory(), time.Hour)
	ctx := context.Background()

	if _, _, err := store.GetOrCreate(ctx, "s1", "en"); err != nil {
		t.Fatal(err)
	}

	// History holds turn messages only; the greeting is the caller's to
	// surface, never a stored message.
	history, err := store.History(ctx, "s1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Fatalf("got %d messages, want an empty history", len(history))
	}
}

func TestAppendStampsAfterSessionResolution(t *testing.T) {
	store := NewStore(memory.NewFactory(), time.Hour)
	ctx := context.Background()

	// Both messages are built before the session exists; their order
	// must come from when they were appended, not when they were built.
	reply := &entity.ChatMessage{
		Role:     constant.ChatMessageRoleAssistant,
		Text:     "happy to help",
		Language: "en",
	}
	ask := userMsg("can you help?")

	if _, err := store.Append(ctx, "s1", ask); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Append(ctx, "s1", reply); err != nil {
		t.Fatal(err)
	}

	history, err := store.History(ctx, "s1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d messages, want 2", len(history))
	}
	if history[0].Role != constant.ChatMessageRoleUser || history[1].Role != constant.ChatMessageRoleAssistant {
		t.Errorf("history order = %s, %s; want user then assistant", history[0].Role, history[1].Role)
	}
	if history[1].CreatedAt.Before(history[0].CreatedAt) {
		t.Error("reply stamped before the message it answers")
	}
}

func TestAppendValidation(t *testing.T) {
	store := NewStore(memory.NewFactory(), time.Hour)
	ctx := context.Background()

	tests := []struct {
		name string
		msg  *entity.ChatMessage
	}{
		{"empty text", &entity.ChatMessage{Role: constant.ChatMessageRoleUser, Text: "   "}},
		{"bad role", &entity.ChatMessage{Role: "system", Text: "hi"}},
		{"no role", &entity.ChatMessage{Text: "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Append(ctx, "s1", tt.msg); !errors.Is(err, apperror.ErrInvalidMessage) {
				t.Errorf("err = %v, want ErrInvalidMessage", err)
			}
		})
	}
}

func TestAppendAfterDeactivateFailsClosed(t *testing.T) {
	store := NewStore(memory.NewFactory(), time.Hour)
	ctx := context.Background()

	if _, _, err := store.GetOrCreate(ctx, "s1", "en"); err != nil {
		t.Fatal(err)
	}
	if err := store.Deactivate(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	_, err := store.Append(ctx, "s1", userMsg("still there?"))
	if !errors.Is(err, apperror.ErrSessionClosed) {
		t.Fatalf("err = %v, want ErrSessionClosed", err)
	}
}

func TestDeactivateUnknownSession(t *testing.T) {
	store := NewStore(memory.NewFactory(), time.Hour)

	err := store.Deactivate(context.Background(), "nope")
	if !errors.Is(err, apperror.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestHistoryBoundsAndOrder(t *testing.T) {
	store := NewStore(memory.NewFactory(), time.Hour)
	ctx := context.Background()

	base := time.Now().Add(-time.Minute)
	for i := 0; i < 6; i++ {
		msg := userMsg(fmt.Sprintf("message %d", i))
		msg.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if _, err := store.Append(ctx, "s1", msg); err != nil {
			t.Fatal(err)
		}
	}

	history, err := store.History(ctx, "s1", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Fatalf("got %d messages, want 3", len(history))
	}
	want := []string{"message 3", "message 4", "message 5"}
	for i, m := range history {
		if m.Text != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, m.Text, want[i])
		}
	}
}

func TestConcurrentAppendsStayOrdered(t *testing.T) {
	store := NewStore(memory.NewFactory(), time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.Append(ctx, "s1", userMsg(fmt.Sprintf("turn %d", i))); err != nil {
				t.Errorf("append %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	history, err := store.History(ctx, "s1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 20 {
		t.Fatalf("got %d messages, want 20", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].CreatedAt.Before(history[i-1].CreatedAt) {
			t.Fatal("history out of chronological order")
		}
	}
}

func TestIdleSessionIsRetiredOnAppend(t *testing.T) {
	store := NewStore(memory.NewFactory(), 50*time.Millisecond)
	ctx := context.Background()

	if _, err := store.Append(ctx, "s1", userMsg("hello")); err != nil {
		t.Fatal(err)
	}

	time.Sleep(80 * time.Millisecond)

	_, err := store.Append(ctx, "s1", userMsg("anyone home?"))
	if !errors.Is(err, apperror.ErrSessionClosed) {
		t.Fatalf("err = %v, want ErrSessionClosed after idle window", err)
	}
}

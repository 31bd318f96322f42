package memory

import (
	"context"
	"sync"

	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatSessionRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*entity.ChatSession
}

func NewChatSessionRepository() *ChatSessionRepository {
	return &ChatSessionRepository{items: make(map[uuid.UUID]*entity.ChatSession)}
}

func (r *ChatSessionRepository) Create(ctx context.Context, s *entity.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.items[s.Id] = &cp
	return nil
}

func (r *ChatSessionRepository) Update(ctx context.Context, s *entity.ChatSession) error {
	return r.Create(ctx, s)
}

func (r *ChatSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *ChatSessionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *ChatSessionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.ChatSession
	for _, s := range r.items {
		if sessionMatches(s, specs) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sortByCreated(out, func(s *entity.ChatSession) int64 { return s.CreatedAt.UnixNano() })
	return truncate(out, limitFrom(specs)), nil
}

func (r *ChatSessionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func sessionMatches(s *entity.ChatSession, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if s.Id != sp.ID {
				return false
			}
		case specification.BySessionKey:
			if s.SessionKey != sp.SessionKey {
				return false
			}
		case specification.ActiveOnly:
			if !s.IsActive {
				return false
			}
		}
	}
	return true
}

type ChatMessageRepository struct {
	mu    sync.RWMutex
	items []*entity.ChatMessage
}

func NewChatMessageRepository() *ChatMessageRepository {
	return &ChatMessageRepository{}
}

func (r *ChatMessageRepository) Create(ctx context.Context, m *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.items = append(r.items, &cp)
	return nil
}

func (r *ChatMessageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.ChatMessage
	for _, m := range r.items {
		if messageMatches(m, specs) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return truncate(out, limitFrom(specs)), nil
}

func (r *ChatMessageRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func (r *ChatMessageRepository) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, m := range r.items {
		if m.ChatSessionId != sessionId {
			kept = append(kept, m)
		}
	}
	r.items = kept
	return nil
}

func messageMatches(m *entity.ChatMessage, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if m.Id != sp.ID {
				return false
			}
		case specification.ByChatSessionID:
			if m.ChatSessionId != sp.ChatSessionID {
				return false
			}
		}
	}
	return true
}

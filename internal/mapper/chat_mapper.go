package mapper

import (
	"encoding/json"
	"time"

	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	var metadata map[string]interface{}
	if len(s.Metadata) > 0 {
		// Best effort: malformed metadata is dropped, not fatal
		_ = json.Unmarshal(s.Metadata, &metadata)
	}

	return &entity.ChatSession{
		Id:         s.Id,
		SessionKey: s.SessionKey,
		UserId:     s.UserId,
		Language:   s.Language,
		IsActive:   s.IsActive,
		Metadata:   metadata,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	var metadata datatypes.JSON
	if len(s.Metadata) > 0 {
		if raw, err := json.Marshal(s.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.ChatSession{
		Id:         s.Id,
		SessionKey: s.SessionKey,
		UserId:     s.UserId,
		Language:   s.Language,
		IsActive:   s.IsActive,
		Metadata:   metadata,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	return &entity.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Text:          msg.Text,
		Language:      msg.Language,
		IsVoice:       msg.IsVoice,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	return &model.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Text:          msg.Text,
		Language:      msg.Language,
		IsVoice:       msg.IsVoice,
		CreatedAt:     msg.CreatedAt,
	}
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	SessionKey string `json:"session_key" validate:"required,max=128"`
	Message    string `json:"message" validate:"required"`
	Language   string `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
	IsVoice    bool   `json:"is_voice,omitempty"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Language  string    `json:"language,omitempty"`
	IsVoice   bool      `json:"is_voice,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SendChatResponse struct {
	SessionKey string              `json:"session_key"`
	Sent       ChatMessageResponse `json:"sent"`
	Reply      ChatMessageResponse `json:"reply"`
	Fallback   bool                `json:"fallback"`
	// Greeting is set on the turn that created the session. It is a
	// widget hint, not part of the stored history.
	Greeting string `json:"greeting,omitempty"`
}

type ChatHistoryResponse struct {
	SessionKey string                `json:"session_key"`
	IsActive   bool                  `json:"is_active"`
	Messages   []ChatMessageResponse `json:"messages"`
}

type EndSessionRequest struct {
	SessionKey string `json:"session_key" validate:"required,max=128"`
}

type AssistantStatusResponse struct {
	ModelState         string          `json:"model_state"`
	Model              string          `json:"model"`
	LastChecked        *time.Time      `json:"last_checked,omitempty"`
	LastError          string          `json:"last_error,omitempty"`
	Features           map[string]bool `json:"features"`
	SupportedLanguages []string        `json:"supported_languages"`
}

type AssistantActionRequest struct {
	Action string `json:"action" validate:"required,oneof=pullModel"`
}

type AssistantActionResponse struct {
	Action     string `json:"action"`
	ModelState string `json:"model_state"`
}

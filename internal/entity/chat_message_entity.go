package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Text          string
	Language      string
	IsVoice       bool
	CreatedAt     time.Time
}

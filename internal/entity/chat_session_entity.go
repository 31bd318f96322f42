package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id         uuid.UUID
	SessionKey string
	UserId     *uuid.UUID
	Language   string
	IsActive   bool
	Metadata   map[string]interface{}
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeEntry is a curated knowledge-base item (shipping policy, return
// instructions, usage guides). Type is one of the constant.KnowledgeType*.
type KnowledgeEntry struct {
	Id        uuid.UUID
	Title     string
	Content   string
	Type      string
	Category  string
	Keywords  []string
	Language  string
	Priority  int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

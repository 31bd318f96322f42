package entity

import (
	"time"

	"github.com/google/uuid"
)

type FAQEntry struct {
	Id        uuid.UUID
	Question  string
	Answer    string
	Category  string
	Keywords  []string
	Language  string
	Priority  int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

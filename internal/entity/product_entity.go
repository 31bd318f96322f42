package entity

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	Id          uuid.UUID
	Name        string
	Description string
	Category    string
	Price       float64
	Tags        []string
	Language    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type KnowledgeEntry struct {
	Id        uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string                      `gorm:"type:text;not null"`
	Content   string                      `gorm:"type:text;not null"`
	Type      string                      `gorm:"type:varchar(50);default:'general'"`
	Category  string                      `gorm:"type:varchar(100);index"`
	Keywords  datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Language  string                      `gorm:"type:varchar(10);default:'en'"`
	Priority  int                         `gorm:"default:0"`
	IsActive  bool                        `gorm:"default:true;index"`
	CreatedAt time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt              `gorm:"index"`
}

func (KnowledgeEntry) TableName() string {
	return "knowledge_entries"
}

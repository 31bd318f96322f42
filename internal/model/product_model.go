package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	Id          uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string                      `gorm:"type:text;not null"`
	Description string                      `gorm:"type:text"`
	Category    string                      `gorm:"type:varchar(100);index"`
	Price       float64                     `gorm:"type:numeric(12,2);not null"`
	Tags        datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Language    string                      `gorm:"type:varchar(10);default:'en'"`
	IsActive    bool                        `gorm:"default:true;index"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt              `gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}

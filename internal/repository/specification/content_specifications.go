package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActiveOnly excludes deactivated content. Retrieval must never see
// inactive items; the admin surface flips the flag, not this module.
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// ByCategory filters content by its category slug
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// PriceBetween applies an optional price range (products only)
type PriceBetween struct {
	Min *float64
	Max *float64
}

func (s PriceBetween) Apply(db *gorm.DB) *gorm.DB {
	if s.Min != nil {
		db = db.Where("price >= ?", *s.Min)
	}
	if s.Max != nil {
		db = db.Where("price <= ?", *s.Max)
	}
	return db
}

// ByLanguage filters content by language tag
type ByLanguage struct {
	Language string
}

func (s ByLanguage) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("language = ?", s.Language)
}

// BySessionKey filters chat sessions by their opaque session key
type BySessionKey struct {
	SessionKey string
}

func (s BySessionKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_key = ?", s.SessionKey)
}

// ByChatSessionID filters messages by their parent session
type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

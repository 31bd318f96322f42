package mapper

import (
	"time"

	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/model"
)

type ContentMapper struct{}

func NewContentMapper() *ContentMapper {
	return &ContentMapper{}
}

// Product Mappers

func (m *ContentMapper) ProductToEntity(p *model.Product) *entity.Product {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Product{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Tags:        p.Tags,
		Language:    p.Language,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ContentMapper) ProductToModel(p *entity.Product) *model.Product {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Product{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Tags:        p.Tags,
		Language:    p.Language,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

// FAQ Mappers

func (m *ContentMapper) FAQToEntity(f *model.FAQEntry) *entity.FAQEntry {
	if f == nil {
		return nil
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.FAQEntry{
		Id:        f.Id,
		Question:  f.Question,
		Answer:    f.Answer,
		Category:  f.Category,
		Keywords:  f.Keywords,
		Language:  f.Language,
		Priority:  f.Priority,
		IsActive:  f.IsActive,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ContentMapper) FAQToModel(f *entity.FAQEntry) *model.FAQEntry {
	if f == nil {
		return nil
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.FAQEntry{
		Id:        f.Id,
		Question:  f.Question,
		Answer:    f.Answer,
		Category:  f.Category,
		Keywords:  f.Keywords,
		Language:  f.Language,
		Priority:  f.Priority,
		IsActive:  f.IsActive,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

// Knowledge Mappers

func (m *ContentMapper) KnowledgeToEntity(k *model.KnowledgeEntry) *entity.KnowledgeEntry {
	if k == nil {
		return nil
	}

	var updatedAt *time.Time
	if !k.UpdatedAt.IsZero() {
		t := k.UpdatedAt
		updatedAt = &t
	}

	return &entity.KnowledgeEntry{
		Id:        k.Id,
		Title:     k.Title,
		Content:   k.Content,
		Type:      k.Type,
		Category:  k.Category,
		Keywords:  k.Keywords,
		Language:  k.Language,
		Priority:  k.Priority,
		IsActive:  k.IsActive,
		CreatedAt: k.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ContentMapper) KnowledgeToModel(k *entity.KnowledgeEntry) *model.KnowledgeEntry {
	if k == nil {
		return nil
	}

	var updatedAt time.Time
	if k.UpdatedAt != nil {
		updatedAt = *k.UpdatedAt
	}

	return &model.KnowledgeEntry{
		Id:        k.Id,
		Title:     k.Title,
		Content:   k.Content,
		Type:      k.Type,
		Category:  k.Category,
		Keywords:  k.Keywords,
		Language:  k.Language,
		Priority:  k.Priority,
		IsActive:  k.IsActive,
		CreatedAt: k.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

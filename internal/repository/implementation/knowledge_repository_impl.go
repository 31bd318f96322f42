package implementation

import (
	"context"
	"errors"
	"fmt"

	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/mapper"
	"shop-assistant-be/internal/model"
	"shop-assistant-be/internal/repository/contract"
	"shop-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const knowledgeSearchVector = "to_tsvector('simple', coalesce(title,'') || ' ' || coalesce(content,'') || ' ' || coalesce(keywords::text,''))"

type KnowledgeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentMapper
}

func NewKnowledgeRepository(db *gorm.DB) contract.KnowledgeRepository {
	return &KnowledgeRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentMapper(),
	}
}

func (r *KnowledgeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *KnowledgeRepositoryImpl) Create(ctx context.Context, entry *entity.KnowledgeEntry) error {
	m := r.mapper.KnowledgeToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return wrapStoreErr(err)
	}
	*entry = *r.mapper.KnowledgeToEntity(m)
	return nil
}

func (r *KnowledgeRepositoryImpl) Update(ctx context.Context, entry *entity.KnowledgeEntry) error {
	m := r.mapper.KnowledgeToModel(entry)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return wrapStoreErr(err)
	}
	*entry = *r.mapper.KnowledgeToEntity(m)
	return nil
}

func (r *KnowledgeRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return wrapStoreErr(r.db.WithContext(ctx).Delete(&model.KnowledgeEntry{}, id).Error)
}

func (r *KnowledgeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeEntry, error) {
	var m model.KnowledgeEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrapStoreErr(err)
	}
	return r.mapper.KnowledgeToEntity(&m), nil
}

func (r *KnowledgeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeEntry, error) {
	var models []*model.KnowledgeEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	entities := make([]*entity.KnowledgeEntry, len(models))
	for i, m := range models {
		entities[i] = r.mapper.KnowledgeToEntity(m)
	}
	return entities, nil
}

func (r *KnowledgeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.KnowledgeEntry{}), specs...)
	err := query.Count(&count).Error
	return count, wrapStoreErr(err)
}

func (r *KnowledgeRepositoryImpl) SearchRanked(ctx context.Context, query string, limit int) ([]*contract.ScoredKnowledge, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.KnowledgeEntry
		Rank float64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Table("knowledge_entries").
		Select(fmt.Sprintf("knowledge_entries.*, ts_rank(%s, plainto_tsquery('simple', ?)) as rank", knowledgeSearchVector), query).
		Where(knowledgeSearchVector+" @@ plainto_tsquery('simple', ?)", query).
		Where("is_active = ?", true).
		Where("deleted_at IS NULL").
		Order("rank DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	scored := make([]*contract.ScoredKnowledge, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredKnowledge{
			Entry: r.mapper.KnowledgeToEntity(&res.KnowledgeEntry),
			Rank:  res.Rank,
		}
	}
	return scored, nil
}

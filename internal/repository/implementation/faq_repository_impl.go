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

const faqSearchVector = "to_tsvector('simple', coalesce(question,'') || ' ' || coalesce(answer,'') || ' ' || coalesce(keywords::text,''))"

type FAQRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentMapper
}

func NewFAQRepository(db *gorm.DB) contract.FAQRepository {
	return &FAQRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentMapper(),
	}
}

func (r *FAQRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FAQRepositoryImpl) Create(ctx context.Context, entry *entity.FAQEntry) error {
	m := r.mapper.FAQToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return wrapStoreErr(err)
	}
	*entry = *r.mapper.FAQToEntity(m)
	return nil
}

func (r *FAQRepositoryImpl) Update(ctx context.Context, entry *entity.FAQEntry) error {
	m := r.mapper.FAQToModel(entry)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return wrapStoreErr(err)
	}
	*entry = *r.mapper.FAQToEntity(m)
	return nil
}

func (r *FAQRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return wrapStoreErr(r.db.WithContext(ctx).Delete(&model.FAQEntry{}, id).Error)
}

func (r *FAQRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FAQEntry, error) {
	var m model.FAQEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrapStoreErr(err)
	}
	return r.mapper.FAQToEntity(&m), nil
}

func (r *FAQRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FAQEntry, error) {
	var models []*model.FAQEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	entities := make([]*entity.FAQEntry, len(models))
	for i, m := range models {
		entities[i] = r.mapper.FAQToEntity(m)
	}
	return entities, nil
}

func (r *FAQRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.FAQEntry{}), specs...)
	err := query.Count(&count).Error
	return count, wrapStoreErr(err)
}

func (r *FAQRepositoryImpl) SearchRanked(ctx context.Context, query string, limit int) ([]*contract.ScoredFAQ, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.FAQEntry
		Rank float64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Table("faq_entries").
		Select(fmt.Sprintf("faq_entries.*, ts_rank(%s, plainto_tsquery('simple', ?)) as rank", faqSearchVector), query).
		Where(faqSearchVector+" @@ plainto_tsquery('simple', ?)", query).
		Where("is_active = ?", true).
		Where("deleted_at IS NULL").
		Order("rank DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	scored := make([]*contract.ScoredFAQ, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredFAQ{
			Entry: r.mapper.FAQToEntity(&res.FAQEntry),
			Rank:  res.Rank,
		}
	}
	return scored, nil
}

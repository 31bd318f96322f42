package implementation

import (
	"context"
	"errors"
	"fmt"

	"shop-assistant-be/internal/apperror"
	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/mapper"
	"shop-assistant-be/internal/model"
	"shop-assistant-be/internal/repository/contract"
	"shop-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// productSearchVector is the tsvector expression over a product's searchable
// fields (name + description + tags). The migration creates a matching
// expression index so this does not scan the collection.
const productSearchVector = "to_tsvector('simple', coalesce(name,'') || ' ' || coalesce(description,'') || ' ' || coalesce(tags::text,''))"

type ProductRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentMapper
}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	return &ProductRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentMapper(),
	}
}

func (r *ProductRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ProductToModel(product)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return wrapStoreErr(err)
	}
	*product = *r.mapper.ProductToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ProductToModel(product)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return wrapStoreErr(err)
	}
	*product = *r.mapper.ProductToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return wrapStoreErr(r.db.WithContext(ctx).Delete(&model.Product{}, id).Error)
}

func (r *ProductRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	var m model.Product
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrapStoreErr(err)
	}
	return r.mapper.ProductToEntity(&m), nil
}

func (r *ProductRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	var models []*model.Product
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	entities := make([]*entity.Product, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ProductToEntity(m)
	}
	return entities, nil
}

func (r *ProductRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Product{}), specs...)
	err := query.Count(&count).Error
	return count, wrapStoreErr(err)
}

func (r *ProductRepositoryImpl) SearchRanked(ctx context.Context, query string, filter contract.ProductFilter, limit int) ([]*contract.ScoredProduct, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.Product
		Rank float64
	}
	var results []result

	q := r.db.WithContext(ctx).
		Table("products").
		Select(fmt.Sprintf("products.*, ts_rank(%s, plainto_tsquery('simple', ?)) as rank", productSearchVector), query).
		Where(productSearchVector+" @@ plainto_tsquery('simple', ?)", query).
		Where("is_active = ?", true).
		Where("deleted_at IS NULL")

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}

	if err := q.Order("rank DESC").Limit(limit).Scan(&results).Error; err != nil {
		return nil, wrapStoreErr(err)
	}

	scored := make([]*contract.ScoredProduct, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredProduct{
			Product: r.mapper.ProductToEntity(&res.Product),
			Rank:    res.Rank,
		}
	}
	return scored, nil
}

// wrapStoreErr tags infrastructure failures so callers can degrade instead
// of surfacing raw driver errors. Record-level outcomes pass through.
func wrapStoreErr(err error) error {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", apperror.ErrStoreUnavailable, err)
}

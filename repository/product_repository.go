package repository

import (
	"context"

	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/utils"
	"gorm.io/gorm"
)

// ProductRepositoryImpl implements the ProductRepository interface
type ProductRepositoryImpl struct {
	*BaseRepository[models.Product, models.ProductFilter]
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Product, models.ProductFilter](db),
	}
}

// ByUUID retrieves a product by UUID
func (r *ProductRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Product, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.ProductFilter{UUID: &parsedUUID}
	products, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return nil, nil
	}

	return products[0], nil
}

// ListByNiche retrieves products in the given niche with pagination
func (r *ProductRepositoryImpl) ListByNiche(ctx context.Context, niche string, limit, offset int) ([]*models.Product, error) {
	filter := models.ProductFilter{Niche: &niche}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// ByFilter retrieves products based on filter criteria
func (r *ProductRepositoryImpl) ByFilter(ctx context.Context, filter models.ProductFilter, orderBy string, limit, offset int) ([]*models.Product, error) {
	db := r.getDB(ctx)

	var products []*models.Product
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	query = query.Preload("Storefront")

	err := query.Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

// Count returns the number of products matching the filter
func (r *ProductRepositoryImpl) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Product{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ProductRepositoryImpl) applyFilter(db *gorm.DB, filter models.ProductFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.StorefrontID != nil {
		db = db.Where("storefront_id = ?", *filter.StorefrontID)
	}
	if filter.Niche != nil {
		db = db.Where("niche = ?", *filter.Niche)
	}
	if filter.Locale != nil {
		db = db.Where("locale = ?", *filter.Locale)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}

package repository

import (
	"context"

	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/utils"
	"gorm.io/gorm"
)

// StorefrontRepositoryImpl implements the StorefrontRepository interface
type StorefrontRepositoryImpl struct {
	*BaseRepository[models.Storefront, models.StorefrontFilter]
}

// NewStorefrontRepository creates a new storefront repository
func NewStorefrontRepository(db *gorm.DB) StorefrontRepository {
	return &StorefrontRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Storefront, models.StorefrontFilter](db),
	}
}

// ByUUID retrieves a storefront by UUID
func (r *StorefrontRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Storefront, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.StorefrontFilter{UUID: &parsedUUID}
	storefronts, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(storefronts) == 0 {
		return nil, nil
	}

	return storefronts[0], nil
}

// ListByNiche retrieves storefronts in the given niche with pagination
func (r *StorefrontRepositoryImpl) ListByNiche(ctx context.Context, niche string, limit, offset int) ([]*models.Storefront, error) {
	filter := models.StorefrontFilter{Niche: &niche}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// ByFilter retrieves storefronts based on filter criteria
func (r *StorefrontRepositoryImpl) ByFilter(ctx context.Context, filter models.StorefrontFilter, orderBy string, limit, offset int) ([]*models.Storefront, error) {
	db := r.getDB(ctx)

	var storefronts []*models.Storefront
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

	err := query.Find(&storefronts).Error
	if err != nil {
		return nil, err
	}

	return storefronts, nil
}

// Count returns the number of storefronts matching the filter
func (r *StorefrontRepositoryImpl) Count(ctx context.Context, filter models.StorefrontFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Storefront{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *StorefrontRepositoryImpl) applyFilter(db *gorm.DB, filter models.StorefrontFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Niche != nil {
		db = db.Where("niche = ?", *filter.Niche)
	}
	if filter.Locale != nil {
		db = db.Where("locale = ?", *filter.Locale)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}

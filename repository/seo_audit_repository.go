package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/Susanoo/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeoAuditRepositoryImpl implements the SeoAuditRepository interface
type SeoAuditRepositoryImpl struct {
	db *gorm.DB
}

// NewSeoAuditRepository creates a new seo audit repository
func NewSeoAuditRepository(db *gorm.DB) SeoAuditRepository {
	return &SeoAuditRepositoryImpl{db: db}
}

// getDB returns the appropriate database connection (with or without transaction)
func (r *SeoAuditRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// Save inserts a new audit snapshot. Snapshots are immutable, there is no update path.
func (r *SeoAuditRepositoryImpl) Save(ctx context.Context, audit *models.SeoAudit) error {
	db := r.getDB(ctx)

	if err := db.Create(audit).Error; err != nil {
		return fmt.Errorf("failed to save seo audit: %w", err)
	}

	return nil
}

// ByUUID retrieves an audit snapshot by its id
func (r *SeoAuditRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.SeoAudit, error) {
	db := r.getDB(ctx)

	var audit models.SeoAudit
	err := db.First(&audit, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &audit, nil
}

// LatestByTarget retrieves the most recent audit snapshot for a target
func (r *SeoAuditRepositoryImpl) LatestByTarget(ctx context.Context, kind models.TargetKind, targetID uint) (*models.SeoAudit, error) {
	filter := models.SeoAuditFilter{}
	switch kind {
	case models.TargetKindStorefront:
		filter.StorefrontID = &targetID
	case models.TargetKindCampaign:
		filter.CampaignID = &targetID
	case models.TargetKindProduct:
		filter.ProductID = &targetID
	default:
		return nil, fmt.Errorf("unknown target kind: %s", kind)
	}

	audits, err := r.ByFilter(ctx, filter, "created_at DESC", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(audits) == 0 {
		return nil, nil
	}

	return audits[0], nil
}

// ByFilter retrieves audit snapshots based on filter criteria
func (r *SeoAuditRepositoryImpl) ByFilter(ctx context.Context, filter models.SeoAuditFilter, orderBy string, limit, offset int) ([]*models.SeoAudit, error) {
	db := r.getDB(ctx)

	var audits []*models.SeoAudit
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

	err := query.Find(&audits).Error
	if err != nil {
		return nil, err
	}

	return audits, nil
}

// Count returns the number of audit snapshots matching the filter
func (r *SeoAuditRepositoryImpl) Count(ctx context.Context, filter models.SeoAuditFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.SeoAudit{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *SeoAuditRepositoryImpl) applyFilter(db *gorm.DB, filter models.SeoAuditFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.StorefrontID != nil {
		db = db.Where("storefront_id = ?", *filter.StorefrontID)
	}
	if filter.CampaignID != nil {
		db = db.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.ProductID != nil {
		db = db.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Locale != nil {
		db = db.Where("locale = ?", *filter.Locale)
	}
	if filter.MinScore != nil {
		db = db.Where("score >= ?", *filter.MinScore)
	}
	if filter.MaxScore != nil {
		db = db.Where("score <= ?", *filter.MaxScore)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}

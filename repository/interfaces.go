// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/Susanoo/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// StorefrontRepository defines operations for storefronts
type StorefrontRepository interface {
	Repository[models.Storefront, models.StorefrontFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Storefront, error)
	ListByNiche(ctx context.Context, niche string, limit, offset int) ([]*models.Storefront, error)
}

// CampaignRepository defines operations for campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Campaign, error)
	ListByNiche(ctx context.Context, niche string, limit, offset int) ([]*models.Campaign, error)
}

// ProductRepository defines operations for products
type ProductRepository interface {
	Repository[models.Product, models.ProductFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Product, error)
	ListByNiche(ctx context.Context, niche string, limit, offset int) ([]*models.Product, error)
}

// SeoAuditRepository defines operations for persisted audit snapshots
type SeoAuditRepository interface {
	Save(ctx context.Context, audit *models.SeoAudit) error
	ByUUID(ctx context.Context, id uuid.UUID) (*models.SeoAudit, error)
	ByFilter(ctx context.Context, filter models.SeoAuditFilter, orderBy string, limit, offset int) ([]*models.SeoAudit, error)
	LatestByTarget(ctx context.Context, kind models.TargetKind, targetID uint) (*models.SeoAudit, error)
	Count(ctx context.Context, filter models.SeoAuditFilter) (int64, error)
}

// KeywordRecordRepository defines operations for the keyword registry
type KeywordRecordRepository interface {
	Upsert(ctx context.Context, record *models.KeywordRecord) error
	ByKeywordAndLocale(ctx context.Context, keyword, locale string) (*models.KeywordRecord, error)
	ByKeywords(ctx context.Context, keywords []string, locale string) ([]*models.KeywordRecord, error)
	ByFilter(ctx context.Context, filter models.KeywordRecordFilter, orderBy string, limit, offset int) ([]*models.KeywordRecord, error)
	Count(ctx context.Context, filter models.KeywordRecordFilter) (int64, error)
}

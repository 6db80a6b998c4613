package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/amirphl/Susanoo/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeoAudit represents one immutable audit snapshot in the database.
// Exactly one of StorefrontID, CampaignID, ProductID is non-null.
type SeoAudit struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	StorefrontID *uint           `gorm:"index:idx_seo_audits_storefront_id" json:"storefront_id,omitempty"`
	CampaignID   *uint           `gorm:"index:idx_seo_audits_campaign_id" json:"campaign_id,omitempty"`
	ProductID    *uint           `gorm:"index:idx_seo_audits_product_id" json:"product_id,omitempty"`
	Locale       string          `gorm:"size:16;not null" json:"locale"`
	Score        int             `gorm:"not null" json:"score"`
	Results      json.RawMessage `gorm:"type:jsonb;not null" json:"results"`
	CreatedAt    time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_seo_audits_created_at" json:"created_at"`

	// Relations
	Storefront *Storefront `gorm:"foreignKey:StorefrontID;references:ID" json:"storefront,omitempty"`
	Campaign   *Campaign   `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
	Product    *Product    `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`
}

// TableName returns the table name for the model
func (SeoAudit) TableName() string {
	return "seo_audits"
}

// BeforeCreate is called before creating a new record
func (a *SeoAudit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	if err := a.validateTargetRef(); err != nil {
		return err
	}
	return nil
}

// validateTargetRef enforces the exactly-one-target invariant
func (a *SeoAudit) validateTargetRef() error {
	refs := 0
	if a.StorefrontID != nil {
		refs++
	}
	if a.CampaignID != nil {
		refs++
	}
	if a.ProductID != nil {
		refs++
	}
	if refs != 1 {
		return fmt.Errorf("seo audit must reference exactly one target, got %d", refs)
	}
	return nil
}

// TargetKind reports which kind of target this audit references
func (a *SeoAudit) TargetKind() TargetKind {
	switch {
	case a.StorefrontID != nil:
		return TargetKindStorefront
	case a.CampaignID != nil:
		return TargetKindCampaign
	case a.ProductID != nil:
		return TargetKindProduct
	default:
		return ""
	}
}

// TargetID returns the referenced target id, or 0 when the reference is missing
func (a *SeoAudit) TargetID() uint {
	switch {
	case a.StorefrontID != nil:
		return *a.StorefrontID
	case a.CampaignID != nil:
		return *a.CampaignID
	case a.ProductID != nil:
		return *a.ProductID
	default:
		return 0
	}
}

// SeoAuditFilter represents filter criteria for seo audits
type SeoAuditFilter struct {
	ID            *uuid.UUID `json:"id,omitempty"`
	StorefrontID  *uint      `json:"storefront_id,omitempty"`
	CampaignID    *uint      `json:"campaign_id,omitempty"`
	ProductID     *uint      `json:"product_id,omitempty"`
	Locale        *string    `json:"locale,omitempty"`
	MinScore      *int       `json:"min_score,omitempty"`
	MaxScore      *int       `json:"max_score,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

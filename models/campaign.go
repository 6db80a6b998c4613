package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/amirphl/Susanoo/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignStatus represents the status of a marketing campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusPublished CampaignStatus = "published"
	CampaignStatusArchived  CampaignStatus = "archived"
)

// String returns the string representation of the status
func (s CampaignStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusScheduled,
		CampaignStatusPublished, CampaignStatusArchived:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CampaignStatus
func (s *CampaignStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = CampaignStatus(v)
	case []byte:
		*s = CampaignStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CampaignStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CampaignStatus
func (s CampaignStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CampaignStatus: %s", s)
	}
	return string(s), nil
}

// Campaign represents a marketing campaign in the database
type Campaign struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid" json:"uuid"`
	StorefrontID *uint          `gorm:"index:idx_campaigns_storefront_id" json:"storefront_id,omitempty"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Content      string         `gorm:"type:text" json:"content"`
	Keywords     StringList     `gorm:"type:jsonb;not null;default:'[]'" json:"keywords"`
	Niche        string         `gorm:"size:255;index:idx_campaigns_niche" json:"niche"`
	Locale       string         `gorm:"size:16;not null;default:'en-US'" json:"locale"`
	Status       CampaignStatus `gorm:"type:varchar(32);not null;default:'draft';index:idx_campaigns_status" json:"status"`
	CreatedAt    time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_campaigns_created_at" json:"created_at"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`

	// Relations
	Storefront *Storefront `gorm:"foreignKey:StorefrontID;references:ID" json:"storefront,omitempty"`
}

// TableName returns the table name for the model
func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate is called before creating a new record
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CampaignStatusDraft
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Campaign) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// CampaignFilter represents filter criteria for campaigns
type CampaignFilter struct {
	ID            *uint           `json:"id,omitempty"`
	UUID          *uuid.UUID      `json:"uuid,omitempty"`
	StorefrontID  *uint           `json:"storefront_id,omitempty"`
	Status        *CampaignStatus `json:"status,omitempty"`
	Niche         *string         `json:"niche,omitempty"`
	Locale        *string         `json:"locale,omitempty"`
	CreatedAfter  *time.Time      `json:"created_after,omitempty"`
	CreatedBefore *time.Time      `json:"created_before,omitempty"`
}

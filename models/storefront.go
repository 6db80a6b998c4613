package models

import (
	"time"

	"github.com/amirphl/Susanoo/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Storefront represents a merchant storefront in the database
type Storefront struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_storefronts_uuid" json:"uuid"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Content     string     `gorm:"type:text" json:"content"`
	Keywords    StringList `gorm:"type:jsonb;not null;default:'[]'" json:"keywords"`
	Niche       string     `gorm:"size:255;index:idx_storefronts_niche" json:"niche"`
	Locale      string     `gorm:"size:16;not null;default:'en-US'" json:"locale"`
	IsActive    *bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (Storefront) TableName() string {
	return "storefronts"
}

// BeforeCreate is called before creating a new record
func (s *Storefront) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (s *Storefront) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	s.UpdatedAt = &now
	return nil
}

// StorefrontFilter represents filter criteria for storefronts
type StorefrontFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	Niche         *string    `json:"niche,omitempty"`
	Locale        *string    `json:"locale,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

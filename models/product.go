package models

import (
	"time"

	"github.com/amirphl/Susanoo/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a product listing in the database
type Product struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_products_uuid" json:"uuid"`
	StorefrontID *uint      `gorm:"index:idx_products_storefront_id" json:"storefront_id,omitempty"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Content      string     `gorm:"type:text" json:"content"`
	Keywords     StringList `gorm:"type:jsonb;not null;default:'[]'" json:"keywords"`
	Niche        string     `gorm:"size:255;index:idx_products_niche" json:"niche"`
	Locale       string     `gorm:"size:16;not null;default:'en-US'" json:"locale"`
	CreatedAt    time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`

	// Relations
	Storefront *Storefront `gorm:"foreignKey:StorefrontID;references:ID" json:"storefront,omitempty"`
}

// TableName returns the table name for the model
func (Product) TableName() string {
	return "products"
}

// BeforeCreate is called before creating a new record
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (p *Product) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	p.UpdatedAt = &now
	return nil
}

// ProductFilter represents filter criteria for products
type ProductFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	StorefrontID  *uint      `json:"storefront_id,omitempty"`
	Niche         *string    `json:"niche,omitempty"`
	Locale        *string    `json:"locale,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

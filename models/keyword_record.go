package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/amirphl/Susanoo/utils"
)

// KeywordStatus classifies a tracked keyword from its latest audit numbers
type KeywordStatus string

const (
	KeywordStatusTrending    KeywordStatus = "trending"
	KeywordStatusDeclining   KeywordStatus = "declining"
	KeywordStatusOpportunity KeywordStatus = "opportunity"
	KeywordStatusNeutral     KeywordStatus = "neutral"
)

// String returns the string representation of the status
func (s KeywordStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s KeywordStatus) Valid() bool {
	switch s {
	case KeywordStatusTrending, KeywordStatusDeclining,
		KeywordStatusOpportunity, KeywordStatusNeutral:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for KeywordStatus
func (s *KeywordStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = KeywordStatus(v)
	case []byte:
		*s = KeywordStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into KeywordStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for KeywordStatus
func (s KeywordStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid KeywordStatus: %s", s)
	}
	return string(s), nil
}

// DeriveKeywordStatus recomputes the status from the current audit outputs.
// A low-competition keyword is an opportunity regardless of its trend.
func DeriveKeywordStatus(lowCompetition, trending, declining bool) KeywordStatus {
	switch {
	case lowCompetition:
		return KeywordStatusOpportunity
	case trending:
		return KeywordStatusTrending
	case declining:
		return KeywordStatusDeclining
	default:
		return KeywordStatusNeutral
	}
}

// KeywordRecord is the per-(keyword, locale) registry row maintained by audits
type KeywordRecord struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	Keyword            string        `gorm:"size:255;not null;uniqueIndex:uk_keyword_records_keyword_locale" json:"keyword"`
	Locale             string        `gorm:"size:16;not null;uniqueIndex:uk_keyword_records_keyword_locale" json:"locale"`
	CompetitionScore   float64       `gorm:"not null;default:0" json:"competition_score"`
	TrendChangePercent float64       `gorm:"not null;default:0" json:"trend_change_percent"`
	Status             KeywordStatus `gorm:"type:varchar(16);not null;default:'neutral';index:idx_keyword_records_status" json:"status"`
	SearchVolume       *int          `json:"search_volume,omitempty"`
	LastUpdated        time.Time     `gorm:"not null" json:"last_updated"`
}

// TableName returns the table name for the model
func (KeywordRecord) TableName() string {
	return "keyword_records"
}

// BeforeCreate is called before creating a new record
func (k *KeywordRecord) BeforeCreate(tx *gorm.DB) error {
	if k.Status == "" {
		k.Status = KeywordStatusNeutral
	}
	if k.LastUpdated.IsZero() {
		k.LastUpdated = utils.UTCNow()
	}
	return nil
}

// KeywordRecordFilter represents filter criteria for keyword records
type KeywordRecordFilter struct {
	ID             *uint          `json:"id,omitempty"`
	Keyword        *string        `json:"keyword,omitempty"`
	Locale         *string        `json:"locale,omitempty"`
	Status         *KeywordStatus `json:"status,omitempty"`
	MinCompetition *float64       `json:"min_competition,omitempty"`
	MaxCompetition *float64       `json:"max_competition,omitempty"`
	UpdatedAfter   *time.Time     `json:"updated_after,omitempty"`
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amirphl/Susanoo/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeywordRecordRepositoryImpl implements the KeywordRecordRepository interface
type KeywordRecordRepositoryImpl struct {
	db *gorm.DB
}

// NewKeywordRecordRepository creates a new keyword record repository
func NewKeywordRecordRepository(db *gorm.DB) KeywordRecordRepository {
	return &KeywordRecordRepositoryImpl{db: db}
}

// getDB returns the appropriate database connection (with or without transaction)
func (r *KeywordRecordRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// Upsert inserts or overwrites the registry row keyed by (keyword, locale).
// Last write wins, which keeps the operation idempotent under retry.
func (r *KeywordRecordRepositoryImpl) Upsert(ctx context.Context, record *models.KeywordRecord) error {
	db := r.getDB(ctx)

	record.Keyword = strings.ToLower(strings.TrimSpace(record.Keyword))

	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "keyword"}, {Name: "locale"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"competition_score", "trend_change_percent", "status", "search_volume", "last_updated",
		}),
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert keyword record %q/%q: %w", record.Keyword, record.Locale, err)
	}

	return nil
}

// ByKeywordAndLocale retrieves a single registry row
func (r *KeywordRecordRepositoryImpl) ByKeywordAndLocale(ctx context.Context, keyword, locale string) (*models.KeywordRecord, error) {
	db := r.getDB(ctx)

	keyword = strings.ToLower(strings.TrimSpace(keyword))

	var record models.KeywordRecord
	err := db.Where("keyword = ? AND locale = ?", keyword, locale).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}

// ByKeywords retrieves all registry rows for the given keywords in one locale
func (r *KeywordRecordRepositoryImpl) ByKeywords(ctx context.Context, keywords []string, locale string) ([]*models.KeywordRecord, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(kw)))
	}

	var records []*models.KeywordRecord
	err := db.Where("keyword IN ? AND locale = ?", normalized, locale).Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// ByFilter retrieves registry rows based on filter criteria
func (r *KeywordRecordRepositoryImpl) ByFilter(ctx context.Context, filter models.KeywordRecordFilter, orderBy string, limit, offset int) ([]*models.KeywordRecord, error) {
	db := r.getDB(ctx)

	var records []*models.KeywordRecord
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

	err := query.Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Count returns the number of registry rows matching the filter
func (r *KeywordRecordRepositoryImpl) Count(ctx context.Context, filter models.KeywordRecordFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.KeywordRecord{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *KeywordRecordRepositoryImpl) applyFilter(db *gorm.DB, filter models.KeywordRecordFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Keyword != nil {
		db = db.Where("keyword = ?", strings.ToLower(strings.TrimSpace(*filter.Keyword)))
	}
	if filter.Locale != nil {
		db = db.Where("locale = ?", *filter.Locale)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.MinCompetition != nil {
		db = db.Where("competition_score >= ?", *filter.MinCompetition)
	}
	if filter.MaxCompetition != nil {
		db = db.Where("competition_score <= ?", *filter.MaxCompetition)
	}
	if filter.UpdatedAfter != nil {
		db = db.Where("last_updated >= ?", *filter.UpdatedAfter)
	}

	return db
}

// Package testing provides test utilities and database setup for testing the SEO audit system
package testing

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/utils"
	"github.com/google/uuid"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestStorefront creates an active storefront with auditable content
func (tf *TestFixtures) CreateTestStorefront(niche string) (*models.Storefront, error) {
	storefront := &models.Storefront{
		UUID:        uuid.New(),
		Name:        fmt.Sprintf("Test Storefront %04d", rand.Intn(10000)),
		Description: "Handmade ceramic mugs and pottery crafted in small batches, shipped worldwide with eco-friendly packaging and care.",
		Content:     "<h1>Handmade ceramics</h1><p>Every mug is thrown on the wheel and glazed by hand.</p><img src=\"mug.jpg\" alt=\"ceramic mug\">",
		Keywords:    models.StringList{"handmade ceramics", "pottery mugs"},
		Niche:       niche,
		Locale:      "en-US",
		IsActive:    utils.ToPtr(true),
		CreatedAt:   utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(storefront).Error; err != nil {
		return nil, fmt.Errorf("failed to create test storefront: %w", err)
	}
	return storefront, nil
}

// CreateTestCampaign creates a campaign belonging to the given storefront
func (tf *TestFixtures) CreateTestCampaign(storefrontID *uint, niche string) (*models.Campaign, error) {
	campaign := &models.Campaign{
		UUID:         uuid.New(),
		StorefrontID: storefrontID,
		Title:        fmt.Sprintf("Spring Sale Campaign %04d", rand.Intn(10000)),
		Description:  "Celebrate spring with twenty percent off all handmade pottery, including our best-selling ceramic mugs and bowls.",
		Content:      "<h2>Spring sale</h2><p>Discounted pottery for a limited time.</p>",
		Keywords:     models.StringList{"pottery sale", "ceramic mugs"},
		Niche:        niche,
		Locale:       "en-US",
		Status:       models.CampaignStatusPublished,
		CreatedAt:    utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign: %w", err)
	}
	return campaign, nil
}

// CreateTestProduct creates a product belonging to the given storefront
func (tf *TestFixtures) CreateTestProduct(storefrontID *uint, niche string) (*models.Product, error) {
	product := &models.Product{
		UUID:         uuid.New(),
		StorefrontID: storefrontID,
		Title:        fmt.Sprintf("Glazed Stoneware Mug %04d", rand.Intn(10000)),
		Description:  "A 12oz stoneware mug with a speckled glaze, dishwasher and microwave safe, perfect for coffee or tea every morning.",
		Content:      "<h2>Stoneware mug</h2><p>Thrown by hand and fired twice.</p><img src=\"mug.jpg\" alt=\"stoneware mug\">",
		Keywords:     models.StringList{"stoneware mug", "coffee mug"},
		Niche:        niche,
		Locale:       "en-US",
		CreatedAt:    utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create test product: %w", err)
	}
	return product, nil
}

// CreateTestAudit creates a persisted audit snapshot for a storefront
func (tf *TestFixtures) CreateTestAudit(storefrontID uint, score int, results any) (*models.SeoAudit, error) {
	blob, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("failed to encode results: %w", err)
	}
	audit := &models.SeoAudit{
		StorefrontID: &storefrontID,
		Locale:       "en-US",
		Score:        score,
		Results:      blob,
		CreatedAt:    utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(audit).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audit: %w", err)
	}
	return audit, nil
}

// CreateTestKeywordRecord creates a keyword registry row
func (tf *TestFixtures) CreateTestKeywordRecord(keyword, locale string, status models.KeywordStatus) (*models.KeywordRecord, error) {
	record := &models.KeywordRecord{
		Keyword:     keyword,
		Locale:      locale,
		Status:      status,
		LastUpdated: utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create test keyword record: %w", err)
	}
	return record, nil
}

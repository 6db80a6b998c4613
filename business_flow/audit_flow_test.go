package businessflow

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/amirphl/Susanoo/app/dto"
	"github.com/amirphl/Susanoo/app/services"
	"github.com/amirphl/Susanoo/config"
	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/repository"
	testingutil "github.com/amirphl/Susanoo/testing"
	"github.com/amirphl/Susanoo/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorefrontRepo serves canned storefronts keyed by UUID
type fakeStorefrontRepo struct {
	byUUID  map[string]*models.Storefront
	byNiche []*models.Storefront
}

func (f *fakeStorefrontRepo) ByID(ctx context.Context, id uint) (*models.Storefront, error) {
	return nil, nil
}
func (f *fakeStorefrontRepo) ByFilter(ctx context.Context, filter models.StorefrontFilter, orderBy string, limit, offset int) ([]*models.Storefront, error) {
	return nil, nil
}
func (f *fakeStorefrontRepo) Save(ctx context.Context, entity *models.Storefront) error { return nil }
func (f *fakeStorefrontRepo) Count(ctx context.Context, filter models.StorefrontFilter) (int64, error) {
	return 0, nil
}
func (f *fakeStorefrontRepo) ByUUID(ctx context.Context, id string) (*models.Storefront, error) {
	return f.byUUID[id], nil
}
func (f *fakeStorefrontRepo) ListByNiche(ctx context.Context, niche string, limit, offset int) ([]*models.Storefront, error) {
	return f.byNiche, nil
}

// fakeCampaignRepo serves canned campaigns keyed by UUID
type fakeCampaignRepo struct {
	byUUID map[string]*models.Campaign
}

func (f *fakeCampaignRepo) ByID(ctx context.Context, id uint) (*models.Campaign, error) {
	return nil, nil
}
func (f *fakeCampaignRepo) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	return nil, nil
}
func (f *fakeCampaignRepo) Save(ctx context.Context, entity *models.Campaign) error { return nil }
func (f *fakeCampaignRepo) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	return 0, nil
}
func (f *fakeCampaignRepo) ByUUID(ctx context.Context, id string) (*models.Campaign, error) {
	return f.byUUID[id], nil
}
func (f *fakeCampaignRepo) ListByNiche(ctx context.Context, niche string, limit, offset int) ([]*models.Campaign, error) {
	return nil, nil
}

// fakeProductRepo serves canned products keyed by UUID
type fakeProductRepo struct {
	byUUID map[string]*models.Product
}

func (f *fakeProductRepo) ByID(ctx context.Context, id uint) (*models.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) ByFilter(ctx context.Context, filter models.ProductFilter, orderBy string, limit, offset int) ([]*models.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Save(ctx context.Context, entity *models.Product) error { return nil }
func (f *fakeProductRepo) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	return 0, nil
}
func (f *fakeProductRepo) ByUUID(ctx context.Context, id string) (*models.Product, error) {
	return f.byUUID[id], nil
}
func (f *fakeProductRepo) ListByNiche(ctx context.Context, niche string, limit, offset int) ([]*models.Product, error) {
	return nil, nil
}

// fakeKeywordRepo records upserts in memory keyed by keyword+locale
type fakeKeywordRepo struct {
	records map[string]*models.KeywordRecord
}

func newFakeKeywordRepo() *fakeKeywordRepo {
	return &fakeKeywordRepo{records: make(map[string]*models.KeywordRecord)}
}

func (f *fakeKeywordRepo) Upsert(ctx context.Context, record *models.KeywordRecord) error {
	clone := *record
	f.records[record.Keyword+"|"+record.Locale] = &clone
	return nil
}
func (f *fakeKeywordRepo) ByKeywordAndLocale(ctx context.Context, keyword, locale string) (*models.KeywordRecord, error) {
	return f.records[keyword+"|"+locale], nil
}
func (f *fakeKeywordRepo) ByKeywords(ctx context.Context, keywords []string, locale string) ([]*models.KeywordRecord, error) {
	var out []*models.KeywordRecord
	for _, kw := range keywords {
		if r, ok := f.records[kw+"|"+locale]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeKeywordRepo) ByFilter(ctx context.Context, filter models.KeywordRecordFilter, orderBy string, limit, offset int) ([]*models.KeywordRecord, error) {
	return nil, nil
}
func (f *fakeKeywordRepo) Count(ctx context.Context, filter models.KeywordRecordFilter) (int64, error) {
	return 0, nil
}

func testConfig() *config.ProductionConfig {
	return &config.ProductionConfig{
		Audit: config.AuditConfig{
			AnalyzerTimeout:        0,
			MaxExtractedKeywords:   20,
			MaxTrendKeywords:       5,
			MaxCompetitionKeywords: 5,
			AuthorityDomains:       []string{"wikipedia.org"},
		},
	}
}

func activeStorefront(id string) *models.Storefront {
	return &models.Storefront{
		ID:          7,
		UUID:        uuid.MustParse(id),
		Name:        "Handmade Ceramic Mugs and Pottery for Your Home",
		Description: "Buy our pottery mugs and bowls made by hand, glazed twice, and sent to you fast in safe eco wrap, with easy returns and kind help any day you need it",
		Content:     "<h1>Pottery</h1><p>Thrown by hand.</p><img src=\"mug.jpg\" alt=\"mug\">",
		Keywords:    models.StringList{"Pottery Mugs", "ceramic bowls"},
		Niche:       "pottery",
		Locale:      "en-US",
		IsActive:    utils.ToPtr(true),
	}
}

func TestLoadTarget(t *testing.T) {
	sfUUID := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

	newFlow := func(sf *models.Storefront) *SeoAuditFlowImpl {
		repo := &fakeStorefrontRepo{byUUID: map[string]*models.Storefront{}}
		if sf != nil {
			repo.byUUID[sfUUID] = sf
		}
		return &SeoAuditFlowImpl{
			storefrontRepo: repo,
			campaignRepo:   &fakeCampaignRepo{byUUID: map[string]*models.Campaign{}},
			productRepo:    &fakeProductRepo{byUUID: map[string]*models.Product{}},
			cfg:            testConfig(),
		}
	}

	t.Run("NormalizesKeywordsAndLocale", func(t *testing.T) {
		flow := newFlow(activeStorefront(sfUUID))
		target, err := flow.loadTarget(context.Background(), models.TargetKindStorefront, sfUUID)
		require.NoError(t, err)
		assert.Equal(t, uint(7), target.TargetID)
		assert.Equal(t, []string{"pottery mugs", "ceramic bowls"}, target.Keywords)
		assert.Equal(t, "en-US", target.Locale)
	})

	t.Run("ExtractsKeywordsWhenNoneSet", func(t *testing.T) {
		sf := activeStorefront(sfUUID)
		sf.Keywords = nil
		flow := newFlow(sf)
		target, err := flow.loadTarget(context.Background(), models.TargetKindStorefront, sfUUID)
		require.NoError(t, err)
		assert.NotEmpty(t, target.Keywords)
		assert.Contains(t, target.Keywords, "pottery")
	})

	t.Run("NotFound", func(t *testing.T) {
		flow := newFlow(nil)
		_, err := flow.loadTarget(context.Background(), models.TargetKindStorefront, sfUUID)
		assert.True(t, IsTargetNotFound(err))
	})

	t.Run("InactiveStorefront", func(t *testing.T) {
		sf := activeStorefront(sfUUID)
		sf.IsActive = utils.ToPtr(false)
		flow := newFlow(sf)
		_, err := flow.loadTarget(context.Background(), models.TargetKindStorefront, sfUUID)
		assert.True(t, IsTargetInactive(err))
	})

	t.Run("NoContent", func(t *testing.T) {
		sf := activeStorefront(sfUUID)
		sf.Name, sf.Description, sf.Content = "", "", ""
		flow := newFlow(sf)
		_, err := flow.loadTarget(context.Background(), models.TargetKindStorefront, sfUUID)
		assert.True(t, IsNoContent(err))
	})

	t.Run("InvalidKind", func(t *testing.T) {
		flow := newFlow(activeStorefront(sfUUID))
		_, err := flow.loadTarget(context.Background(), models.TargetKind("banner"), sfUUID)
		assert.True(t, IsTargetKindInvalid(err))
	})
}

func TestRunAnalyzersIsolation(t *testing.T) {
	t.Run("AllProvidersDownStillProducesFullBag", func(t *testing.T) {
		trends := services.NewMockTrendsClient()
		trends.Err = assert.AnError
		serp := services.NewMockSerpClient()
		serp.Err = assert.AnError

		flow := newTestFlow(trends, serp)
		flow.cfg.Audit.AnalyzerTimeout = time.Second
		target := &AuditTarget{
			Title:    "Handmade Ceramic Mugs and Pottery for Your Home",
			Keywords: []string{"ceramic mugs"},
			Locale:   "en-US",
		}

		outcome := flow.runAnalyzers(context.Background(), target)
		require.Len(t, outcome.Sections(), 8)
		assert.True(t, outcome.Trend.Failed())
		assert.True(t, outcome.Competition.Failed())
		assert.True(t, outcome.SerpFeatures.Failed())
		assert.False(t, outcome.Title.Failed())

		// The audit still aggregates to a score despite three dead sections.
		score := computeGlobalScore(outcome)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	})
}

func TestUpdateKeywordRegistry(t *testing.T) {
	target := &AuditTarget{
		Keywords: []string{"rising star", "crowded", "plain"},
		Locale:   "en-US",
	}
	outcome := &AuditOutcome{
		Trend: &TrendResult{
			TrendingKeywords: []string{"rising star"},
			ChangePercent:    map[string]float64{"rising star": 120, "crowded": 2, "plain": 0},
			SearchVolume:     map[string]int{"rising star": 900},
		},
		Competition: &CompetitionResult{
			ScoreByKeyword:  map[string]float64{"rising star": 30, "crowded": 90, "plain": 55},
			LowCompetition:  []string{"rising star"},
			HighCompetition: []string{"crowded", "plain"},
		},
	}

	repo := newFakeKeywordRepo()
	flow := &SeoAuditFlowImpl{keywordRepo: repo, cfg: testConfig()}

	require.NoError(t, flow.updateKeywordRegistry(context.Background(), target, outcome))
	require.Len(t, repo.records, 3)

	// Low competition wins over trending.
	rising := repo.records["rising star|en-US"]
	require.NotNil(t, rising)
	assert.Equal(t, models.KeywordStatusOpportunity, rising.Status)
	assert.Equal(t, 30.0, rising.CompetitionScore)
	assert.Equal(t, 120.0, rising.TrendChangePercent)
	require.NotNil(t, rising.SearchVolume)
	assert.Equal(t, 900, *rising.SearchVolume)

	assert.Equal(t, models.KeywordStatusNeutral, repo.records["crowded|en-US"].Status)
	assert.Equal(t, models.KeywordStatusNeutral, repo.records["plain|en-US"].Status)

	// Idempotent: the same outputs produce the same stored state.
	before := *repo.records["rising star|en-US"]
	require.NoError(t, flow.updateKeywordRegistry(context.Background(), target, outcome))
	after := *repo.records["rising star|en-US"]
	before.LastUpdated = after.LastUpdated
	assert.Equal(t, before, after)
}

func TestUpdateKeywordRegistrySkipsFailedAnalyzers(t *testing.T) {
	target := &AuditTarget{Keywords: []string{"kw"}, Locale: "en-US"}
	outcome := &AuditOutcome{
		Trend:       &TrendResult{BaseResult: BaseResult{Error: "down"}},
		Competition: &CompetitionResult{BaseResult: BaseResult{Error: "down"}},
	}

	repo := newFakeKeywordRepo()
	flow := &SeoAuditFlowImpl{keywordRepo: repo, cfg: testConfig()}
	require.NoError(t, flow.updateKeywordRegistry(context.Background(), target, outcome))

	rec := repo.records["kw|en-US"]
	require.NotNil(t, rec)
	assert.Equal(t, models.KeywordStatusNeutral, rec.Status)
	assert.Zero(t, rec.CompetitionScore)
	assert.Zero(t, rec.TrendChangePercent)
}

func TestRunAuditEndToEnd(t *testing.T) {
	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	defer testDB.TeardownTestDB()

	fixtures := testingutil.NewTestFixtures(testDB)
	sf, err := fixtures.CreateTestStorefront("pottery")
	require.NoError(t, err)

	trends := services.NewMockTrendsClient()
	trends.SetSeries("handmade ceramics", []float64{10, 10, 40, 40})
	trends.SetSeries("pottery mugs", []float64{30, 30, 30, 30})
	serp := services.NewMockSerpClient()
	serp.SetResponse("handmade ceramics", &services.SerpResponse{
		Query:       "handmade ceramics",
		ResultCount: 2,
		Results:     []services.OrganicResult{{Title: "A shop", Domain: "smallshop.net"}},
		Features:    services.SerpFeatures{FeaturedSnippet: true},
	})

	cfg := testConfig()
	cfg.Audit.AnalyzerTimeout = 2 * time.Second

	flow := NewSeoAuditFlow(
		repository.NewStorefrontRepository(testDB.DB),
		repository.NewCampaignRepository(testDB.DB),
		repository.NewProductRepository(testDB.DB),
		repository.NewSeoAuditRepository(testDB.DB),
		repository.NewKeywordRecordRepository(testDB.DB),
		trends,
		serp,
		cfg,
		testDB.DB,
	)

	req := &dto.RunAuditRequest{
		TargetKind: string(models.TargetKindStorefront),
		TargetUUID: sf.UUID.String(),
	}
	metadata := NewClientMetadata("127.0.0.1", "test-agent")

	resp, err := flow.RunAudit(context.Background(), req, metadata)
	require.NoError(t, err)
	assert.True(t, resp.Persisted)
	assert.NotEmpty(t, resp.AuditUUID)
	assert.GreaterOrEqual(t, resp.GlobalScore, 0)
	assert.LessOrEqual(t, resp.GlobalScore, 100)
	assert.NotEmpty(t, resp.Results)

	t.Run("LatestAuditReturnsSnapshot", func(t *testing.T) {
		latest, err := flow.LatestAudit(context.Background(), &dto.LatestAuditRequest{
			TargetKind: req.TargetKind,
			TargetUUID: req.TargetUUID,
		})
		require.NoError(t, err)
		assert.Equal(t, resp.AuditUUID, latest.AuditUUID)
		assert.Equal(t, resp.GlobalScore, latest.GlobalScore)
	})

	t.Run("ListRecommendationsFlattens", func(t *testing.T) {
		recs, err := flow.ListRecommendations(context.Background(), &dto.ListRecommendationsRequest{
			TargetKind: req.TargetKind,
			TargetUUID: req.TargetUUID,
		})
		require.NoError(t, err)
		assert.Equal(t, resp.AuditUUID, recs.AuditUUID)
		for i := 1; i < len(recs.Recommendations); i++ {
			if recs.Recommendations[i-1].Priority == "medium" {
				assert.NotEqual(t, "high", recs.Recommendations[i].Priority,
					"high priority must come before medium")
			}
		}
	})

	t.Run("KeywordRegistryUpserted", func(t *testing.T) {
		keywordRepo := repository.NewKeywordRecordRepository(testDB.DB)
		rec, err := keywordRepo.ByKeywordAndLocale(context.Background(), "handmade ceramics", "en-US")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.True(t, rec.Status.Valid())
	})

	t.Run("RerunIsIdempotentForRegistry", func(t *testing.T) {
		_, err := flow.RunAudit(context.Background(), req, metadata)
		require.NoError(t, err)

		keywordRepo := repository.NewKeywordRecordRepository(testDB.DB)
		count, err := keywordRepo.Count(context.Background(), models.KeywordRecordFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(len(normalizeKeywords(sf.Keywords))), count)
	})

	t.Run("PersistenceFailureDegrades", func(t *testing.T) {
		require.NoError(t, testDB.DB.Exec("DROP TABLE seo_audits").Error)
		resp, err := flow.RunAudit(context.Background(), req, metadata)
		require.NoError(t, err)
		assert.False(t, resp.Persisted)
		assert.Empty(t, resp.AuditUUID)
		assert.NotEmpty(t, resp.Results)
	})
}

func TestRecommendedKeywordsRanking(t *testing.T) {
	sfRepo := &fakeStorefrontRepo{
		byNiche: []*models.Storefront{
			{Keywords: models.StringList{"opportunity kw", "trending kw", "boring kw"}},
			{Keywords: models.StringList{"trending kw"}},
		},
	}
	kwRepo := newFakeKeywordRepo()
	now := utils.UTCNow()
	kwRepo.records["opportunity kw|en-US"] = &models.KeywordRecord{
		Keyword: "opportunity kw", Locale: "en-US",
		Status: models.KeywordStatusOpportunity, CompetitionScore: 20, LastUpdated: now,
	}
	kwRepo.records["trending kw|en-US"] = &models.KeywordRecord{
		Keyword: "trending kw", Locale: "en-US",
		Status: models.KeywordStatusTrending, TrendChangePercent: 45, LastUpdated: now,
	}
	kwRepo.records["boring kw|en-US"] = &models.KeywordRecord{
		Keyword: "boring kw", Locale: "en-US",
		Status: models.KeywordStatusNeutral, LastUpdated: now,
	}

	flow := &SeoAuditFlowImpl{
		storefrontRepo: sfRepo,
		campaignRepo:   &fakeCampaignRepo{},
		productRepo:    &fakeProductRepo{},
		keywordRepo:    kwRepo,
		cfg:            testConfig(),
	}

	resp, err := flow.RecommendedKeywords(context.Background(), &dto.RecommendedKeywordsRequest{Niche: "pottery"})
	require.NoError(t, err)
	require.Len(t, resp.Keywords, 2)

	// Opportunity ranks first; neutral keywords are excluded entirely.
	assert.Equal(t, "opportunity kw", resp.Keywords[0].Keyword)
	assert.Equal(t, "trending kw", resp.Keywords[1].Keyword)
	for _, kw := range resp.Keywords {
		assert.False(t, strings.EqualFold(kw.Keyword, "boring kw"))
	}
}

func TestRecommendedKeywordsValidation(t *testing.T) {
	flow := &SeoAuditFlowImpl{cfg: testConfig()}
	_, err := flow.RecommendedKeywords(context.Background(), &dto.RecommendedKeywordsRequest{Niche: "  "})
	assert.True(t, IsNicheRequired(err))
}

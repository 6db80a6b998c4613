package repository

import (
	"context"
	"testing"
	"time"

	"github.com/amirphl/Susanoo/models"
	testingutil "github.com/amirphl/Susanoo/testing"
	"github.com/amirphl/Susanoo/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepoTest(t *testing.T) (*testingutil.TestDB, *testingutil.TestFixtures) {
	t.Helper()
	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() { _ = testDB.TeardownTestDB() })
	return testDB, testingutil.NewTestFixtures(testDB)
}

func TestKeywordRecordUpsert(t *testing.T) {
	testDB, _ := setupRepoTest(t)
	repo := NewKeywordRecordRepository(testDB.DB)
	ctx := context.Background()

	record := &models.KeywordRecord{
		Keyword:            "  Ceramic Mugs ",
		Locale:             "en-US",
		CompetitionScore:   42,
		TrendChangePercent: 12.5,
		Status:             models.KeywordStatusTrending,
		LastUpdated:        utils.UTCNow(),
	}
	require.NoError(t, repo.Upsert(ctx, record))

	// The keyword is normalized before it is stored.
	got, err := repo.ByKeywordAndLocale(ctx, "CERAMIC MUGS", "en-US")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ceramic mugs", got.Keyword)
	assert.Equal(t, models.KeywordStatusTrending, got.Status)

	// A second upsert overwrites the row instead of duplicating it.
	update := &models.KeywordRecord{
		Keyword:          "ceramic mugs",
		Locale:           "en-US",
		CompetitionScore: 9,
		Status:           models.KeywordStatusOpportunity,
		SearchVolume:     utils.ToPtr(880),
		LastUpdated:      utils.UTCNow(),
	}
	require.NoError(t, repo.Upsert(ctx, update))

	count, err := repo.Count(ctx, models.KeywordRecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err = repo.ByKeywordAndLocale(ctx, "ceramic mugs", "en-US")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.KeywordStatusOpportunity, got.Status)
	assert.Equal(t, 9.0, got.CompetitionScore)
	require.NotNil(t, got.SearchVolume)
	assert.Equal(t, 880, *got.SearchVolume)

	// Same keyword in another locale is its own row.
	other := &models.KeywordRecord{Keyword: "ceramic mugs", Locale: "fr-FR", Status: models.KeywordStatusNeutral, LastUpdated: utils.UTCNow()}
	require.NoError(t, repo.Upsert(ctx, other))
	count, err = repo.Count(ctx, models.KeywordRecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestKeywordRecordByKeywords(t *testing.T) {
	testDB, fixtures := setupRepoTest(t)
	repo := NewKeywordRecordRepository(testDB.DB)
	ctx := context.Background()

	_, err := fixtures.CreateTestKeywordRecord("pottery", "en-US", models.KeywordStatusOpportunity)
	require.NoError(t, err)
	_, err = fixtures.CreateTestKeywordRecord("stoneware", "en-US", models.KeywordStatusNeutral)
	require.NoError(t, err)
	_, err = fixtures.CreateTestKeywordRecord("pottery", "fr-FR", models.KeywordStatusTrending)
	require.NoError(t, err)

	records, err := repo.ByKeywords(ctx, []string{"Pottery", "stoneware", "missing"}, "en-US")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = repo.ByKeywords(ctx, nil, "en-US")
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestSeoAuditLatestByTarget(t *testing.T) {
	testDB, fixtures := setupRepoTest(t)
	repo := NewSeoAuditRepository(testDB.DB)
	ctx := context.Background()

	sf, err := fixtures.CreateTestStorefront("pottery")
	require.NoError(t, err)

	older, err := fixtures.CreateTestAudit(sf.ID, 55, map[string]any{})
	require.NoError(t, err)
	// Force distinct timestamps so ordering is deterministic.
	require.NoError(t, testDB.DB.Model(older).Update("created_at", older.CreatedAt.Add(-time.Hour)).Error)

	newer, err := fixtures.CreateTestAudit(sf.ID, 72, map[string]any{})
	require.NoError(t, err)

	latest, err := repo.LatestByTarget(ctx, models.TargetKindStorefront, sf.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newer.ID, latest.ID)
	assert.Equal(t, 72, latest.Score)

	// A target with no audit history returns nil, not an error.
	latest, err = repo.LatestByTarget(ctx, models.TargetKindStorefront, sf.ID+999)
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, err = repo.LatestByTarget(ctx, models.TargetKind("banner"), sf.ID)
	assert.Error(t, err)
}

func TestSeoAuditRejectsAmbiguousTarget(t *testing.T) {
	testDB, fixtures := setupRepoTest(t)
	repo := NewSeoAuditRepository(testDB.DB)
	ctx := context.Background()

	sf, err := fixtures.CreateTestStorefront("pottery")
	require.NoError(t, err)
	campaign, err := fixtures.CreateTestCampaign(&sf.ID, "pottery")
	require.NoError(t, err)

	audit := &models.SeoAudit{
		StorefrontID: &sf.ID,
		CampaignID:   &campaign.ID,
		Locale:       "en-US",
		Score:        50,
		Results:      []byte(`{}`),
	}
	assert.Error(t, repo.Save(ctx, audit))
}

func TestStorefrontListByNiche(t *testing.T) {
	testDB, fixtures := setupRepoTest(t)
	repo := NewStorefrontRepository(testDB.DB)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := fixtures.CreateTestStorefront("pottery")
		require.NoError(t, err)
	}
	_, err := fixtures.CreateTestStorefront("woodwork")
	require.NoError(t, err)

	storefronts, err := repo.ListByNiche(ctx, "pottery", 10, 0)
	require.NoError(t, err)
	assert.Len(t, storefronts, 3)

	storefronts, err = repo.ListByNiche(ctx, "pottery", 2, 0)
	require.NoError(t, err)
	assert.Len(t, storefronts, 2)
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	testDB, _ := setupRepoTest(t)
	repo := NewKeywordRecordRepository(testDB.DB)
	ctx := context.Background()

	err := WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
		record := &models.KeywordRecord{Keyword: "doomed", Locale: "en-US", Status: models.KeywordStatusNeutral, LastUpdated: utils.UTCNow()}
		if err := repo.Upsert(txCtx, record); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	got, err := repo.ByKeywordAndLocale(ctx, "doomed", "en-US")
	require.NoError(t, err)
	assert.Nil(t, got)
}

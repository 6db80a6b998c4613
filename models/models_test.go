package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetKindValid(t *testing.T) {
	assert.True(t, TargetKindStorefront.Valid())
	assert.True(t, TargetKindCampaign.Valid())
	assert.True(t, TargetKindProduct.Valid())
	assert.False(t, TargetKind("banner").Valid())
	assert.False(t, TargetKind("").Valid())
}

func TestStringListValueScan(t *testing.T) {
	t.Run("NilEncodesAsEmptyArray", func(t *testing.T) {
		var l StringList
		v, err := l.Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", string(v.([]byte)))
	})

	t.Run("ScanFromBytes", func(t *testing.T) {
		var l StringList
		require.NoError(t, l.Scan([]byte(`["ceramic mugs","pottery"]`)))
		assert.Equal(t, StringList{"ceramic mugs", "pottery"}, l)
	})

	t.Run("ScanFromString", func(t *testing.T) {
		var l StringList
		require.NoError(t, l.Scan(`["one"]`))
		assert.Equal(t, StringList{"one"}, l)
	})

	t.Run("ScanNilResetsToEmpty", func(t *testing.T) {
		l := StringList{"stale"}
		require.NoError(t, l.Scan(nil))
		assert.Empty(t, l)
	})

	t.Run("ScanRejectsOtherTypes", func(t *testing.T) {
		var l StringList
		assert.Error(t, l.Scan(42))
	})
}

func TestKeywordStatus(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		for _, s := range []KeywordStatus{KeywordStatusTrending, KeywordStatusDeclining, KeywordStatusOpportunity, KeywordStatusNeutral} {
			assert.True(t, s.Valid(), s)
		}
		assert.False(t, KeywordStatus("hot").Valid())
	})

	t.Run("ValueRejectsInvalid", func(t *testing.T) {
		_, err := KeywordStatus("hot").Value()
		assert.Error(t, err)

		v, err := KeywordStatusTrending.Value()
		require.NoError(t, err)
		assert.Equal(t, "trending", v)
	})

	t.Run("Scan", func(t *testing.T) {
		var s KeywordStatus
		require.NoError(t, s.Scan("opportunity"))
		assert.Equal(t, KeywordStatusOpportunity, s)

		require.NoError(t, s.Scan([]byte("declining")))
		assert.Equal(t, KeywordStatusDeclining, s)

		require.NoError(t, s.Scan(nil))
		assert.Equal(t, KeywordStatus(""), s)
	})
}

func TestDeriveKeywordStatus(t *testing.T) {
	tests := []struct {
		name                              string
		lowCompetition, trending, falling bool
		want                              KeywordStatus
	}{
		{"LowCompetitionWinsOverTrend", true, true, false, KeywordStatusOpportunity},
		{"LowCompetitionWinsOverDecline", true, false, true, KeywordStatusOpportunity},
		{"TrendingWinsOverDeclining", false, true, true, KeywordStatusTrending},
		{"Declining", false, false, true, KeywordStatusDeclining},
		{"Neutral", false, false, false, KeywordStatusNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveKeywordStatus(tt.lowCompetition, tt.trending, tt.falling))
		})
	}
}

func TestSeoAuditTargetRef(t *testing.T) {
	id := uint(7)

	t.Run("ExactlyOneReference", func(t *testing.T) {
		audit := &SeoAudit{StorefrontID: &id}
		assert.NoError(t, audit.validateTargetRef())
		assert.Equal(t, TargetKindStorefront, audit.TargetKind())
		assert.Equal(t, id, audit.TargetID())
	})

	t.Run("NoReference", func(t *testing.T) {
		audit := &SeoAudit{}
		assert.Error(t, audit.validateTargetRef())
		assert.Equal(t, TargetKind(""), audit.TargetKind())
		assert.Zero(t, audit.TargetID())
	})

	t.Run("TwoReferences", func(t *testing.T) {
		audit := &SeoAudit{StorefrontID: &id, CampaignID: &id}
		assert.Error(t, audit.validateTargetRef())
	})

	t.Run("CampaignAndProductKinds", func(t *testing.T) {
		assert.Equal(t, TargetKindCampaign, (&SeoAudit{CampaignID: &id}).TargetKind())
		assert.Equal(t, TargetKindProduct, (&SeoAudit{ProductID: &id}).TargetKind())
	})
}

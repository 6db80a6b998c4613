package businessflow

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/amirphl/Susanoo/app/services"
)

// analyzeTrend classifies up to MaxTrendKeywords keywords by interest
// momentum over the provider's recent window. Provider failures degrade to a
// zero-score result instead of aborting the audit.
func (f *SeoAuditFlowImpl) analyzeTrend(ctx context.Context, target *AuditTarget) *TrendResult {
	res := &TrendResult{
		ChangePercent: make(map[string]float64),
		SearchVolume:  make(map[string]int),
	}
	keywords := capKeywords(target.Keywords, f.cfg.Audit.MaxTrendKeywords)
	if len(keywords) == 0 {
		res.Score = 50
		return res
	}

	interest, err := f.trends.FetchInterest(ctx, keywords, target.Locale)
	if err != nil {
		res.Error = fmt.Sprintf("trend provider: %v", err)
		return res
	}

	for _, kw := range keywords {
		series, ok := interest[kw]
		if !ok {
			res.NeutralKeywords = append(res.NeutralKeywords, kw)
			continue
		}
		change := seriesChangePercent(series.Series)
		res.ChangePercent[kw] = change
		if series.SearchVolume != nil {
			res.SearchVolume[kw] = *series.SearchVolume
		}
		switch {
		case change >= 10:
			res.TrendingKeywords = append(res.TrendingKeywords, kw)
		case change <= -10:
			res.DecliningKeywords = append(res.DecliningKeywords, kw)
		default:
			res.NeutralKeywords = append(res.NeutralKeywords, kw)
		}
	}

	res.Score = 50 + 10*len(res.TrendingKeywords)
	if res.Score > 100 {
		res.Score = 100
	}
	if len(res.DecliningKeywords) > 0 {
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Replace keywords with declining interest: %s", strings.Join(res.DecliningKeywords, ", ")))
	}
	return res
}

// seriesChangePercent compares the averages of the first and second halves
// of an interest series.
func seriesChangePercent(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	mid := len(series) / 2
	firstAvg := average(series[:mid])
	secondAvg := average(series[mid:])
	if firstAvg == 0 {
		if secondAvg == 0 {
			return 0
		}
		return 100
	}
	return (secondAvg - firstAvg) / firstAvg * 100
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// analyzeCompetition scores keyword difficulty from organic result metadata.
// One provider query per keyword; a failed query fails the whole section.
func (f *SeoAuditFlowImpl) analyzeCompetition(ctx context.Context, target *AuditTarget) *CompetitionResult {
	res := &CompetitionResult{ScoreByKeyword: make(map[string]float64)}
	keywords := capKeywords(target.Keywords, f.cfg.Audit.MaxCompetitionKeywords)

	for _, kw := range keywords {
		page, err := f.serp.Search(ctx, kw, target.Locale)
		if err != nil {
			res.Error = fmt.Sprintf("search provider: %v", err)
			res.Score = 0
			return res
		}
		score := f.competitionScore(kw, page)
		res.ScoreByKeyword[kw] = score
		if score < 50 {
			res.LowCompetition = append(res.LowCompetition, kw)
		} else {
			res.HighCompetition = append(res.HighCompetition, kw)
		}
	}

	res.Score = 100 - 20*len(res.HighCompetition)
	if res.Score < 0 {
		res.Score = 0
	}
	if len(res.LowCompetition) > 0 {
		sorted := append([]string(nil), res.LowCompetition...)
		sort.Strings(sorted)
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Prioritize low-competition keywords: %s", strings.Join(sorted, ", ")))
	}
	if len(res.HighCompetition) > 0 {
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Consider long-tail variations of highly competitive keywords: %s", strings.Join(res.HighCompetition, ", ")))
	}
	return res
}

func (f *SeoAuditFlowImpl) competitionScore(keyword string, page *services.SerpResponse) float64 {
	exactMatches := 0
	hasAuthority := false
	for _, r := range page.Results {
		if strings.EqualFold(strings.TrimSpace(r.Title), keyword) {
			exactMatches++
		}
		if f.isAuthorityDomain(r.Domain) {
			hasAuthority = true
		}
	}
	score := float64(page.ResultCount)/10*40 +
		float64(exactMatches)/float64(max(1, page.ResultCount))*30
	if hasAuthority {
		score += 70
	}
	if score > 100 {
		score = 100
	}
	return score
}

func (f *SeoAuditFlowImpl) isAuthorityDomain(domain string) bool {
	domain = strings.ToLower(domain)
	for _, auth := range f.cfg.Audit.AuthorityDomains {
		if domain == auth || strings.HasSuffix(domain, auth) {
			return true
		}
	}
	return false
}

// analyzeSerpFeatures inspects the result page of the primary keyword for
// feature opportunities.
func (f *SeoAuditFlowImpl) analyzeSerpFeatures(ctx context.Context, target *AuditTarget) *SerpFeatureResult {
	res := &SerpFeatureResult{}
	if len(target.Keywords) == 0 {
		res.Recommendations = append(res.Recommendations,
			"Add target keywords to discover search feature opportunities")
		return res
	}
	res.PrimaryKeyword = target.Keywords[0]

	page, err := f.serp.Search(ctx, res.PrimaryKeyword, target.Locale)
	if err != nil {
		res.Error = fmt.Sprintf("search provider: %v", err)
		return res
	}
	res.Features = page.Features

	score := 0
	if res.Features.FeaturedSnippet {
		score += 50
	} else {
		res.Recommendations = append(res.Recommendations,
			"Structure content as concise question-and-answer blocks to target the featured snippet")
	}
	if res.Features.RelatedQuestions {
		score += 50
	} else {
		res.Recommendations = append(res.Recommendations,
			"Add an FAQ section to appear under related questions")
	}
	res.Score = score / 2

	if res.Features.Images && !imagePattern.MatchString(target.Content) {
		res.Recommendations = append(res.Recommendations,
			"Search results show an image pack; add optimized images to compete there")
	}
	if res.Features.Shopping {
		res.Recommendations = append(res.Recommendations,
			"Shopping results appear for this keyword; ensure product structured data is complete")
	}
	return res
}

package businessflow

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/amirphl/Susanoo/utils"
)

var (
	headingPattern  = regexp.MustCompile(`(?im)(<h[1-6][\s>]|^#{1,6}\s)`)
	imagePattern    = regexp.MustCompile(`(?i)(<img[\s>]|!\[[^\]]*\]\()`)
	imgTagPattern   = regexp.MustCompile(`(?i)<img[^>]*>`)
	imgAltPattern   = regexp.MustCompile(`(?i)\balt\s*=`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

// analyzeTitle scores the target's title against length and keyword heuristics
func analyzeTitle(target *AuditTarget) *TitleResult {
	res := &TitleResult{Length: len([]rune(target.Title))}

	switch {
	case res.Length >= 40 && res.Length <= 60:
		res.Score += 50
	case res.Length < 40:
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Title is too short (%d characters); aim for 40-60 characters", res.Length))
	default:
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Title is too long (%d characters); aim for 40-60 characters", res.Length))
	}

	lowerTitle := strings.ToLower(target.Title)
	for _, kw := range target.Keywords {
		if kw != "" && strings.Contains(lowerTitle, strings.ToLower(kw)) {
			res.HasKeyword = true
			break
		}
	}
	if res.HasKeyword {
		res.Score += 50
	} else if len(target.Keywords) > 0 {
		res.Recommendations = append(res.Recommendations,
			"Include a target keyword in the title")
	}
	return res
}

// analyzeDescription scores the meta description on length, keyword presence,
// and keyword density. Density outside the healthy window lowers the score;
// above 5% it additionally flags keyword stuffing.
func analyzeDescription(target *AuditTarget) *DescriptionResult {
	res := &DescriptionResult{Length: len([]rune(target.Description))}

	switch {
	case res.Length >= 120 && res.Length <= 158:
		res.Score += 40
	case res.Length < 120:
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Description is too short (%d characters); aim for 120-158 characters", res.Length))
	default:
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Description is too long (%d characters); aim for 120-158 characters", res.Length))
	}

	lowerDesc := strings.ToLower(target.Description)
	matched := 0
	for _, kw := range target.Keywords {
		if kw == "" {
			continue
		}
		matched += strings.Count(lowerDesc, strings.ToLower(kw))
	}
	if matched > 0 {
		res.HasKeyword = true
		res.Score += 30
	} else if len(target.Keywords) > 0 {
		res.Recommendations = append(res.Recommendations,
			"Mention at least one target keyword in the description")
	}

	if words := countWords(target.Description); words > 0 {
		res.KeywordDensity = float64(matched) / float64(words) * 100
	}
	rounded := math.Round(res.KeywordDensity)
	if rounded >= 1 && rounded <= 3 {
		res.Score += 30
	}
	if res.KeywordDensity > 5 {
		res.Recommendations = append(res.Recommendations,
			"Keyword density is above 5%; reduce keyword repetition to avoid keyword stuffing")
	}
	return res
}

// analyzeKeywordRelevance partitions keywords by substring match against the
// niche hint tokens. Without a niche hint every keyword counts as relevant.
func analyzeKeywordRelevance(target *AuditTarget) *KeywordRelevanceResult {
	res := &KeywordRelevanceResult{}
	if len(target.Keywords) == 0 {
		res.Recommendations = append(res.Recommendations,
			"Add target keywords so relevance can be measured")
		return res
	}

	nicheTokens := tokenizeWords(strings.ToLower(target.Niche))
	for _, kw := range target.Keywords {
		if isRelevantKeyword(kw, nicheTokens) {
			res.RelevantKeywords = append(res.RelevantKeywords, kw)
		} else {
			res.IrrelevantKeywords = append(res.IrrelevantKeywords, kw)
		}
	}

	res.NicheMatchScore = utils.Clamp(float64(len(res.RelevantKeywords))/float64(len(target.Keywords))*100, 0, 100)
	res.Score = int(math.Round(res.NicheMatchScore))
	if len(res.IrrelevantKeywords) > 0 {
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Replace keywords unrelated to your niche: %s", strings.Join(res.IrrelevantKeywords, ", ")))
	}
	return res
}

func isRelevantKeyword(keyword string, nicheTokens []string) bool {
	if len(nicheTokens) == 0 {
		return true
	}
	kw := strings.ToLower(keyword)
	for _, tok := range nicheTokens {
		if strings.Contains(kw, tok) || strings.Contains(tok, kw) {
			return true
		}
	}
	return false
}

// analyzeContentQuality scores body content on length, structure markup,
// and a words-per-sentence readability heuristic.
func analyzeContentQuality(target *AuditTarget) *ContentQualityResult {
	res := &ContentQualityResult{WordCount: countWords(target.Content)}

	if res.WordCount >= 300 {
		res.Score += 40
	} else {
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Content has %d words; aim for at least 300", res.WordCount))
	}

	res.HasHeadings = headingPattern.MatchString(target.Content)
	if res.HasHeadings {
		res.Score += 20
	} else {
		res.Recommendations = append(res.Recommendations,
			"Add headings to structure the content")
	}

	res.HasImages = imagePattern.MatchString(target.Content)
	if res.HasImages {
		res.Score += 10
	} else {
		res.Recommendations = append(res.Recommendations,
			"Add at least one image to the content")
	}

	res.ReadabilityScore = readabilityScore(target.Content)
	res.Score += int(math.Floor(res.ReadabilityScore * 0.3))
	if res.ReadabilityScore < 70 {
		res.Recommendations = append(res.Recommendations,
			"Shorten sentences to improve readability")
	}
	return res
}

// readabilityScore maps average sentence length onto a 0-100 scale where
// 15 words per sentence or fewer is ideal.
func readabilityScore(content string) float64 {
	words := countWords(content)
	if words == 0 {
		return 0
	}
	sentences := 0
	for _, s := range sentencePattern.Split(content, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}
	avg := float64(words) / float64(sentences)
	return utils.Clamp(100-(avg-15)*3, 0, 100)
}

// analyzeTechnicalSeo runs a fixed markup checklist. Each failed check costs
// 20 points.
func analyzeTechnicalSeo(target *AuditTarget) *TechnicalSeoResult {
	res := &TechnicalSeoResult{}

	if strings.TrimSpace(target.Description) == "" {
		res.Issues = append(res.Issues, TechnicalIssue{
			Check:    "meta_description",
			Severity: "high",
			Message:  "Missing meta description",
		})
		res.Recommendations = append(res.Recommendations, "Add a meta description")
	}
	if len(target.Keywords) == 0 {
		res.Issues = append(res.Issues, TechnicalIssue{
			Check:    "keywords",
			Severity: "medium",
			Message:  "No target keywords defined",
		})
		res.Recommendations = append(res.Recommendations, "Define target keywords")
	}
	if missing := imagesWithoutAlt(target.Content); missing > 0 {
		res.Issues = append(res.Issues, TechnicalIssue{
			Check:    "image_alt",
			Severity: "medium",
			Message:  fmt.Sprintf("%d image(s) without alt attributes", missing),
		})
		res.Recommendations = append(res.Recommendations, "Add alt attributes to all images")
	}

	res.Score = 100 - 20*len(res.Issues)
	if res.Score < 0 {
		res.Score = 0
	}
	return res
}

func imagesWithoutAlt(content string) int {
	missing := 0
	for _, tag := range imgTagPattern.FindAllString(content, -1) {
		if !imgAltPattern.MatchString(tag) {
			missing++
		}
	}
	return missing
}

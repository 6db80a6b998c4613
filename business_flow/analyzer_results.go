package businessflow

import (
	"github.com/amirphl/Susanoo/app/services"
)

// Audit section names. They key the weight table and the persisted results blob.
const (
	SectionTitle            = "title"
	SectionDescription      = "description"
	SectionKeywordRelevance = "keyword_relevance"
	SectionTrend            = "trend"
	SectionCompetition      = "competition"
	SectionSerpFeatures     = "serp_features"
	SectionContentQuality   = "content_quality"
	SectionTechnicalSeo     = "technical_seo"
)

// RecommendationPriority orders consolidated recommendations
type RecommendationPriority string

const (
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
)

// Recommendation is one consolidated, prioritized suggestion
type Recommendation struct {
	Section  string                 `json:"section"`
	Text     string                 `json:"text"`
	Priority RecommendationPriority `json:"priority"`
}

// AnalyzerResult is implemented by every per-section result variant
type AnalyzerResult interface {
	Section() string
	SectionScore() int
	SectionRecommendations() []string
	Failed() bool
}

// BaseResult carries the fields every analyzer produces. An analyzer that
// failed still yields a result with Score 0 and Error set, never a hard abort.
type BaseResult struct {
	Score           int      `json:"score"`
	Recommendations []string `json:"recommendations,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// SectionScore returns the 0-100 section score
func (b BaseResult) SectionScore() int { return b.Score }

// SectionRecommendations returns the analyzer's raw recommendation strings
func (b BaseResult) SectionRecommendations() []string { return b.Recommendations }

// Failed reports whether the analyzer failed and the score is a placeholder
func (b BaseResult) Failed() bool { return b.Error != "" }

// TitleResult is the title heuristic outcome
type TitleResult struct {
	BaseResult
	Length     int  `json:"length"`
	HasKeyword bool `json:"has_keyword"`
}

func (TitleResult) Section() string { return SectionTitle }

// DescriptionResult is the meta description heuristic outcome
type DescriptionResult struct {
	BaseResult
	Length         int     `json:"length"`
	HasKeyword     bool    `json:"has_keyword"`
	KeywordDensity float64 `json:"keyword_density"`
}

func (DescriptionResult) Section() string { return SectionDescription }

// KeywordRelevanceResult partitions keywords by fit against the niche
type KeywordRelevanceResult struct {
	BaseResult
	RelevantKeywords   []string `json:"relevant_keywords,omitempty"`
	IrrelevantKeywords []string `json:"irrelevant_keywords,omitempty"`
	NicheMatchScore    float64  `json:"niche_match_score"`
}

func (KeywordRelevanceResult) Section() string { return SectionKeywordRelevance }

// TrendResult classifies analyzed keywords by interest momentum
type TrendResult struct {
	BaseResult
	TrendingKeywords  []string           `json:"trending_keywords,omitempty"`
	DecliningKeywords []string           `json:"declining_keywords,omitempty"`
	NeutralKeywords   []string           `json:"neutral_keywords,omitempty"`
	ChangePercent     map[string]float64 `json:"change_percent,omitempty"`
	SearchVolume      map[string]int     `json:"search_volume,omitempty"`
}

func (TrendResult) Section() string { return SectionTrend }

// CompetitionResult scores keyword difficulty from SERP metadata
type CompetitionResult struct {
	BaseResult
	ScoreByKeyword  map[string]float64 `json:"score_by_keyword,omitempty"`
	LowCompetition  []string           `json:"low_competition,omitempty"`
	HighCompetition []string           `json:"high_competition,omitempty"`
}

func (CompetitionResult) Section() string { return SectionCompetition }

// SerpFeatureResult reports which SERP features the primary keyword surfaces
type SerpFeatureResult struct {
	BaseResult
	PrimaryKeyword string                `json:"primary_keyword,omitempty"`
	Features       services.SerpFeatures `json:"features"`
}

func (SerpFeatureResult) Section() string { return SectionSerpFeatures }

// ContentQualityResult is the body content heuristic outcome
type ContentQualityResult struct {
	BaseResult
	WordCount        int     `json:"word_count"`
	HasHeadings      bool    `json:"has_headings"`
	HasImages        bool    `json:"has_images"`
	ReadabilityScore float64 `json:"readability_score"`
}

func (ContentQualityResult) Section() string { return SectionContentQuality }

// TechnicalIssue is one failed technical-SEO checklist item
type TechnicalIssue struct {
	Check    string `json:"check"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// TechnicalSeoResult enumerates failed checklist items
type TechnicalSeoResult struct {
	BaseResult
	Issues []TechnicalIssue `json:"issues,omitempty"`
}

func (TechnicalSeoResult) Section() string { return SectionTechnicalSeo }

// AuditOutcome is the closed result bag produced by one audit run. A nil
// section means the analyzer never ran; a failed analyzer is still present
// with Score 0 and Error set.
type AuditOutcome struct {
	Title            *TitleResult            `json:"title,omitempty"`
	Description      *DescriptionResult      `json:"description,omitempty"`
	KeywordRelevance *KeywordRelevanceResult `json:"keyword_relevance,omitempty"`
	Trend            *TrendResult            `json:"trend,omitempty"`
	Competition      *CompetitionResult      `json:"competition,omitempty"`
	SerpFeatures     *SerpFeatureResult      `json:"serp_features,omitempty"`
	ContentQuality   *ContentQualityResult   `json:"content_quality,omitempty"`
	TechnicalSeo     *TechnicalSeoResult     `json:"technical_seo,omitempty"`
}

// Sections returns the non-nil section results in the canonical section order
func (o *AuditOutcome) Sections() []AnalyzerResult {
	var out []AnalyzerResult
	if o.Title != nil {
		out = append(out, o.Title)
	}
	if o.Description != nil {
		out = append(out, o.Description)
	}
	if o.KeywordRelevance != nil {
		out = append(out, o.KeywordRelevance)
	}
	if o.Trend != nil {
		out = append(out, o.Trend)
	}
	if o.Competition != nil {
		out = append(out, o.Competition)
	}
	if o.SerpFeatures != nil {
		out = append(out, o.SerpFeatures)
	}
	if o.ContentQuality != nil {
		out = append(out, o.ContentQuality)
	}
	if o.TechnicalSeo != nil {
		out = append(out, o.TechnicalSeo)
	}
	return out
}

// Package businessflow contains the core business logic and use cases for SEO audit workflows
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/Susanoo/app/dto"
	"github.com/amirphl/Susanoo/app/services"
	"github.com/amirphl/Susanoo/config"
	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/repository"
	"github.com/amirphl/Susanoo/utils"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// SeoAuditFlow handles the SEO audit business logic
type SeoAuditFlow interface {
	RunAudit(ctx context.Context, req *dto.RunAuditRequest, metadata *ClientMetadata) (*dto.RunAuditResponse, error)
	LatestAudit(ctx context.Context, req *dto.LatestAuditRequest) (*dto.RunAuditResponse, error)
	ListRecommendations(ctx context.Context, req *dto.ListRecommendationsRequest) (*dto.ListRecommendationsResponse, error)
	RecommendedKeywords(ctx context.Context, req *dto.RecommendedKeywordsRequest) (*dto.RecommendedKeywordsResponse, error)
}

// SeoAuditFlowImpl implements the SEO audit business flow
type SeoAuditFlowImpl struct {
	storefrontRepo repository.StorefrontRepository
	campaignRepo   repository.CampaignRepository
	productRepo    repository.ProductRepository
	auditRepo      repository.SeoAuditRepository
	keywordRepo    repository.KeywordRecordRepository
	trends         services.TrendsClient
	serp           services.SerpClient
	cfg            *config.ProductionConfig
	db             *gorm.DB
}

// NewSeoAuditFlow creates a new SEO audit flow instance
func NewSeoAuditFlow(
	storefrontRepo repository.StorefrontRepository,
	campaignRepo repository.CampaignRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.SeoAuditRepository,
	keywordRepo repository.KeywordRecordRepository,
	trends services.TrendsClient,
	serp services.SerpClient,
	cfg *config.ProductionConfig,
	db *gorm.DB,
) SeoAuditFlow {
	return &SeoAuditFlowImpl{
		storefrontRepo: storefrontRepo,
		campaignRepo:   campaignRepo,
		productRepo:    productRepo,
		auditRepo:      auditRepo,
		keywordRepo:    keywordRepo,
		trends:         trends,
		serp:           serp,
		cfg:            cfg,
		db:             db,
	}
}

// RunAudit runs every analyzer against the target, aggregates the results,
// and persists one immutable audit snapshot plus the keyword registry update.
// Persistence failure degrades to an unpersisted response instead of losing
// the computed audit.
func (s *SeoAuditFlowImpl) RunAudit(ctx context.Context, req *dto.RunAuditRequest, metadata *ClientMetadata) (*dto.RunAuditResponse, error) {
	kind := models.TargetKind(req.TargetKind)
	if !kind.Valid() {
		return nil, NewBusinessError("TARGET_KIND_INVALID", "Unknown target kind", ErrTargetKindInvalid)
	}

	target, err := s.loadTarget(ctx, kind, req.TargetUUID)
	if err != nil {
		return nil, err
	}
	if req.Locale != nil && *req.Locale != "" {
		target.Locale = *req.Locale
	}

	start := time.Now()
	outcome := s.runAnalyzers(ctx, target)
	auditDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	globalScore := computeGlobalScore(outcome)
	recommendations := consolidateRecommendations(outcome)

	blob, err := json.Marshal(outcome)
	if err != nil {
		return nil, NewBusinessError("AUDIT_ENCODE_FAILED", "Failed to encode audit results", err)
	}

	audit := &models.SeoAudit{
		Locale:    target.Locale,
		Score:     globalScore,
		Results:   blob,
		CreatedAt: utils.UTCNow(),
	}
	switch kind {
	case models.TargetKindStorefront:
		audit.StorefrontID = &target.TargetID
	case models.TargetKindCampaign:
		audit.CampaignID = &target.TargetID
	case models.TargetKindProduct:
		audit.ProductID = &target.TargetID
	}

	persisted := true
	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.auditRepo.Save(txCtx, audit); err != nil {
			return fmt.Errorf("failed to save audit: %w", err)
		}
		return s.updateKeywordRegistry(txCtx, target, outcome)
	})
	if err != nil {
		// The audit itself succeeded; report it with persisted=false.
		log.Printf("audit persistence failed for %s %s (request %s): %v", kind, req.TargetUUID, metadata.RequestID, err)
		persisted = false
	}
	auditsTotal.WithLabelValues(string(kind), strconv.FormatBool(persisted)).Inc()

	resp := &dto.RunAuditResponse{
		TargetKind:      string(kind),
		TargetUUID:      req.TargetUUID,
		Locale:          target.Locale,
		GlobalScore:     globalScore,
		Results:         blob,
		Recommendations: toRecommendationDTOs(recommendations),
		Persisted:       persisted,
		CreatedAt:       audit.CreatedAt.Format(time.RFC3339),
	}
	if persisted {
		resp.AuditUUID = audit.ID.String()
	}
	return resp, nil
}

// loadTarget resolves the target reference into a normalized immutable audit
// input. Targets with no title, description, and content cannot be audited.
func (s *SeoAuditFlowImpl) loadTarget(ctx context.Context, kind models.TargetKind, targetUUID string) (*AuditTarget, error) {
	target := &AuditTarget{Kind: kind}

	switch kind {
	case models.TargetKindStorefront:
		sf, err := s.storefrontRepo.ByUUID(ctx, targetUUID)
		if err != nil {
			return nil, NewBusinessError("TARGET_LOOKUP_FAILED", "Failed to lookup storefront", err)
		}
		if sf == nil {
			return nil, NewBusinessError("TARGET_NOT_FOUND", "Storefront not found", ErrTargetNotFound)
		}
		if !utils.IsTrue(sf.IsActive) {
			return nil, NewBusinessError("TARGET_INACTIVE", "Storefront is not active", ErrTargetInactive)
		}
		target.TargetID = sf.ID
		target.Title = sf.Name
		target.Description = sf.Description
		target.Content = sf.Content
		target.Keywords = sf.Keywords
		target.Niche = sf.Niche
		target.Locale = sf.Locale
	case models.TargetKindCampaign:
		c, err := s.campaignRepo.ByUUID(ctx, targetUUID)
		if err != nil {
			return nil, NewBusinessError("TARGET_LOOKUP_FAILED", "Failed to lookup campaign", err)
		}
		if c == nil {
			return nil, NewBusinessError("TARGET_NOT_FOUND", "Campaign not found", ErrTargetNotFound)
		}
		target.TargetID = c.ID
		target.Title = c.Title
		target.Description = c.Description
		target.Content = c.Content
		target.Keywords = c.Keywords
		target.Niche = c.Niche
		target.Locale = c.Locale
	case models.TargetKindProduct:
		p, err := s.productRepo.ByUUID(ctx, targetUUID)
		if err != nil {
			return nil, NewBusinessError("TARGET_LOOKUP_FAILED", "Failed to lookup product", err)
		}
		if p == nil {
			return nil, NewBusinessError("TARGET_NOT_FOUND", "Product not found", ErrTargetNotFound)
		}
		target.TargetID = p.ID
		target.Title = p.Title
		target.Description = p.Description
		target.Content = p.Content
		target.Keywords = p.Keywords
		target.Niche = p.Niche
		target.Locale = p.Locale
	default:
		return nil, NewBusinessError("TARGET_KIND_INVALID", "Unknown target kind", ErrTargetKindInvalid)
	}

	if !target.HasContent() {
		return nil, NewBusinessError("TARGET_NO_CONTENT", "Target has no content to audit", ErrNoContent)
	}
	if target.Locale == "" {
		target.Locale = utils.DefaultLocale
	}

	target.Keywords = normalizeKeywords(target.Keywords)
	if len(target.Keywords) == 0 {
		text := strings.Join([]string{target.Title, target.Description, target.Content}, " ")
		target.Keywords = ExtractKeywords(text, s.cfg.Audit.MaxExtractedKeywords)
	}
	return target, nil
}

// runAnalyzers fans out all eight analyzers against the same read-only target
// and waits for every outcome. Each analyzer writes its own slot of the
// outcome, so there is no shared mutable state between goroutines. Provider
// calls carry a bounded per-analyzer timeout so one slow provider cannot
// stall the fan-in.
func (s *SeoAuditFlowImpl) runAnalyzers(ctx context.Context, target *AuditTarget) *AuditOutcome {
	outcome := &AuditOutcome{}

	var g errgroup.Group
	g.Go(func() error {
		outcome.Title = analyzeTitle(target)
		return nil
	})
	g.Go(func() error {
		outcome.Description = analyzeDescription(target)
		return nil
	})
	g.Go(func() error {
		outcome.KeywordRelevance = analyzeKeywordRelevance(target)
		return nil
	})
	g.Go(func() error {
		outcome.ContentQuality = analyzeContentQuality(target)
		return nil
	})
	g.Go(func() error {
		outcome.TechnicalSeo = analyzeTechnicalSeo(target)
		return nil
	})
	g.Go(func() error {
		tctx, cancel := context.WithTimeout(ctx, s.cfg.Audit.AnalyzerTimeout)
		defer cancel()
		outcome.Trend = s.analyzeTrend(tctx, target)
		return nil
	})
	g.Go(func() error {
		tctx, cancel := context.WithTimeout(ctx, s.cfg.Audit.AnalyzerTimeout)
		defer cancel()
		outcome.Competition = s.analyzeCompetition(tctx, target)
		return nil
	})
	g.Go(func() error {
		tctx, cancel := context.WithTimeout(ctx, s.cfg.Audit.AnalyzerTimeout)
		defer cancel()
		outcome.SerpFeatures = s.analyzeSerpFeatures(tctx, target)
		return nil
	})
	_ = g.Wait()

	for _, section := range outcome.Sections() {
		if section.Failed() {
			analyzerFailuresTotal.WithLabelValues(section.Section()).Inc()
		}
	}
	return outcome
}

// updateKeywordRegistry upserts one registry record per analyzed keyword.
// The write is idempotent: the same analyzer outputs always produce the same
// stored state.
func (s *SeoAuditFlowImpl) updateKeywordRegistry(ctx context.Context, target *AuditTarget, outcome *AuditOutcome) error {
	now := utils.UTCNow()
	for _, kw := range target.Keywords {
		record := &models.KeywordRecord{
			Keyword:     strings.ToLower(kw),
			Locale:      target.Locale,
			LastUpdated: now,
		}

		trending, declining := false, false
		if outcome.Trend != nil && !outcome.Trend.Failed() {
			if change, ok := outcome.Trend.ChangePercent[kw]; ok {
				record.TrendChangePercent = change
			}
			if vol, ok := outcome.Trend.SearchVolume[kw]; ok {
				record.SearchVolume = utils.ToPtr(vol)
			}
			trending = containsString(outcome.Trend.TrendingKeywords, kw)
			declining = containsString(outcome.Trend.DecliningKeywords, kw)
		}

		lowCompetition := false
		if outcome.Competition != nil && !outcome.Competition.Failed() {
			if score, ok := outcome.Competition.ScoreByKeyword[kw]; ok {
				record.CompetitionScore = score
			}
			lowCompetition = containsString(outcome.Competition.LowCompetition, kw)
		}

		record.Status = models.DeriveKeywordStatus(lowCompetition, trending, declining)
		if err := s.keywordRepo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("failed to upsert keyword record %q: %w", kw, err)
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// LatestAudit returns the most recent persisted audit snapshot for a target
func (s *SeoAuditFlowImpl) LatestAudit(ctx context.Context, req *dto.LatestAuditRequest) (*dto.RunAuditResponse, error) {
	kind := models.TargetKind(req.TargetKind)
	if !kind.Valid() {
		return nil, NewBusinessError("TARGET_KIND_INVALID", "Unknown target kind", ErrTargetKindInvalid)
	}

	targetID, err := s.resolveTargetID(ctx, kind, req.TargetUUID)
	if err != nil {
		return nil, err
	}

	audit, err := s.auditRepo.LatestByTarget(ctx, kind, targetID)
	if err != nil {
		return nil, NewBusinessError("AUDIT_LOOKUP_FAILED", "Failed to lookup audit", err)
	}
	if audit == nil {
		return nil, NewBusinessError("AUDIT_NOT_FOUND", "No audit found for target", ErrNoAuditFound)
	}

	var outcome AuditOutcome
	if err := json.Unmarshal(audit.Results, &outcome); err != nil {
		return nil, NewBusinessError("AUDIT_DECODE_FAILED", "Failed to decode audit results", err)
	}

	return &dto.RunAuditResponse{
		AuditUUID:       audit.ID.String(),
		TargetKind:      string(kind),
		TargetUUID:      req.TargetUUID,
		Locale:          audit.Locale,
		GlobalScore:     audit.Score,
		Results:         audit.Results,
		Recommendations: toRecommendationDTOs(consolidateRecommendations(&outcome)),
		Persisted:       true,
		CreatedAt:       audit.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ListRecommendations flattens the latest audit's recommendation list
func (s *SeoAuditFlowImpl) ListRecommendations(ctx context.Context, req *dto.ListRecommendationsRequest) (*dto.ListRecommendationsResponse, error) {
	latest, err := s.LatestAudit(ctx, &dto.LatestAuditRequest{
		TargetKind: req.TargetKind,
		TargetUUID: req.TargetUUID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ListRecommendationsResponse{
		AuditUUID:       latest.AuditUUID,
		CreatedAt:       latest.CreatedAt,
		Recommendations: latest.Recommendations,
	}, nil
}

// RecommendedKeywords suggests keywords for a niche from the registry,
// weighted by how often each keyword appears on targets in that niche and
// ranked opportunity first, then trending.
func (s *SeoAuditFlowImpl) RecommendedKeywords(ctx context.Context, req *dto.RecommendedKeywordsRequest) (*dto.RecommendedKeywordsResponse, error) {
	if strings.TrimSpace(req.Niche) == "" {
		return nil, NewBusinessError("NICHE_REQUIRED", "Niche is required", ErrNicheRequired)
	}
	locale := req.Locale
	if locale == "" {
		locale = utils.DefaultLocale
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	frequency, err := s.nicheKeywordFrequency(ctx, req.Niche)
	if err != nil {
		return nil, err
	}
	if len(frequency) == 0 {
		return &dto.RecommendedKeywordsResponse{Niche: req.Niche, Locale: locale}, nil
	}

	keywords := make([]string, 0, len(frequency))
	for kw := range frequency {
		keywords = append(keywords, kw)
	}
	records, err := s.keywordRepo.ByKeywords(ctx, keywords, locale)
	if err != nil {
		return nil, NewBusinessError("KEYWORD_LOOKUP_FAILED", "Failed to lookup keyword records", err)
	}

	recommended := make([]*models.KeywordRecord, 0, len(records))
	for _, r := range records {
		if r.Status == models.KeywordStatusOpportunity || r.Status == models.KeywordStatusTrending {
			recommended = append(recommended, r)
		}
	}
	sort.SliceStable(recommended, func(i, j int) bool {
		a, b := recommended[i], recommended[j]
		if a.Status != b.Status {
			return a.Status == models.KeywordStatusOpportunity
		}
		if frequency[a.Keyword] != frequency[b.Keyword] {
			return frequency[a.Keyword] > frequency[b.Keyword]
		}
		return a.Keyword < b.Keyword
	})
	if len(recommended) > limit {
		recommended = recommended[:limit]
	}

	resp := &dto.RecommendedKeywordsResponse{Niche: req.Niche, Locale: locale}
	for _, r := range recommended {
		resp.Keywords = append(resp.Keywords, dto.RecommendedKeyword{
			Keyword:            r.Keyword,
			Status:             string(r.Status),
			CompetitionScore:   r.CompetitionScore,
			TrendChangePercent: r.TrendChangePercent,
			SearchVolume:       r.SearchVolume,
			LastUpdated:        r.LastUpdated.Format(time.RFC3339),
		})
	}
	return resp, nil
}

// nicheKeywordFrequency counts keyword occurrences across recent targets in
// the niche, all three target kinds combined.
func (s *SeoAuditFlowImpl) nicheKeywordFrequency(ctx context.Context, niche string) (map[string]int, error) {
	const perKind = 100

	frequency := make(map[string]int)
	collect := func(keywords models.StringList) {
		for _, kw := range normalizeKeywords(keywords) {
			frequency[kw]++
		}
	}

	storefronts, err := s.storefrontRepo.ListByNiche(ctx, niche, perKind, 0)
	if err != nil {
		return nil, NewBusinessError("NICHE_SCAN_FAILED", "Failed to scan storefronts", err)
	}
	for _, sf := range storefronts {
		collect(sf.Keywords)
	}

	campaigns, err := s.campaignRepo.ListByNiche(ctx, niche, perKind, 0)
	if err != nil {
		return nil, NewBusinessError("NICHE_SCAN_FAILED", "Failed to scan campaigns", err)
	}
	for _, c := range campaigns {
		collect(c.Keywords)
	}

	products, err := s.productRepo.ListByNiche(ctx, niche, perKind, 0)
	if err != nil {
		return nil, NewBusinessError("NICHE_SCAN_FAILED", "Failed to scan products", err)
	}
	for _, p := range products {
		collect(p.Keywords)
	}
	return frequency, nil
}

// resolveTargetID maps a target UUID onto its numeric id
func (s *SeoAuditFlowImpl) resolveTargetID(ctx context.Context, kind models.TargetKind, targetUUID string) (uint, error) {
	switch kind {
	case models.TargetKindStorefront:
		sf, err := s.storefrontRepo.ByUUID(ctx, targetUUID)
		if err != nil {
			return 0, NewBusinessError("TARGET_LOOKUP_FAILED", "Failed to lookup storefront", err)
		}
		if sf == nil {
			return 0, NewBusinessError("TARGET_NOT_FOUND", "Storefront not found", ErrTargetNotFound)
		}
		return sf.ID, nil
	case models.TargetKindCampaign:
		c, err := s.campaignRepo.ByUUID(ctx, targetUUID)
		if err != nil {
			return 0, NewBusinessError("TARGET_LOOKUP_FAILED", "Failed to lookup campaign", err)
		}
		if c == nil {
			return 0, NewBusinessError("TARGET_NOT_FOUND", "Campaign not found", ErrTargetNotFound)
		}
		return c.ID, nil
	case models.TargetKindProduct:
		p, err := s.productRepo.ByUUID(ctx, targetUUID)
		if err != nil {
			return 0, NewBusinessError("TARGET_LOOKUP_FAILED", "Failed to lookup product", err)
		}
		if p == nil {
			return 0, NewBusinessError("TARGET_NOT_FOUND", "Product not found", ErrTargetNotFound)
		}
		return p.ID, nil
	default:
		return 0, NewBusinessError("TARGET_KIND_INVALID", "Unknown target kind", ErrTargetKindInvalid)
	}
}

func toRecommendationDTOs(recs []Recommendation) []dto.AuditRecommendation {
	out := make([]dto.AuditRecommendation, 0, len(recs))
	for _, r := range recs {
		out = append(out, dto.AuditRecommendation{
			Section:  r.Section,
			Text:     r.Text,
			Priority: string(r.Priority),
		})
	}
	return out
}

package dto

import (
	"encoding/json"
)

// RunAuditRequest represents the request to run an SEO audit against a target
type RunAuditRequest struct {
	TargetKind string  `json:"target_kind" validate:"required,oneof=storefront campaign product"`
	TargetUUID string  `json:"target_uuid" validate:"required,uuid"`
	Locale     *string `json:"locale,omitempty" validate:"omitempty,min=2,max=10"`
}

// AuditRecommendation represents one prioritized suggestion in API responses
type AuditRecommendation struct {
	Section  string `json:"section"`
	Text     string `json:"text"`
	Priority string `json:"priority"`
}

// RunAuditResponse represents a completed audit snapshot
type RunAuditResponse struct {
	AuditUUID       string                `json:"audit_uuid,omitempty"`
	TargetKind      string                `json:"target_kind"`
	TargetUUID      string                `json:"target_uuid"`
	Locale          string                `json:"locale"`
	GlobalScore     int                   `json:"global_score"`
	Results         json.RawMessage       `json:"results"`
	Recommendations []AuditRecommendation `json:"recommendations"`
	Persisted       bool                  `json:"persisted"`
	CreatedAt       string                `json:"created_at"`
}

// LatestAuditRequest represents the request to fetch the most recent audit
type LatestAuditRequest struct {
	TargetKind string `json:"-" query:"target_kind" validate:"required,oneof=storefront campaign product"`
	TargetUUID string `json:"-" query:"target_uuid" validate:"required,uuid"`
}

// ListRecommendationsRequest represents the request to flatten the latest
// audit's recommendation list for a target
type ListRecommendationsRequest struct {
	TargetKind string `json:"-" query:"target_kind" validate:"required,oneof=storefront campaign product"`
	TargetUUID string `json:"-" query:"target_uuid" validate:"required,uuid"`
}

// ListRecommendationsResponse represents the flattened recommendation list
type ListRecommendationsResponse struct {
	AuditUUID       string                `json:"audit_uuid"`
	CreatedAt       string                `json:"created_at"`
	Recommendations []AuditRecommendation `json:"recommendations"`
}

// RecommendedKeywordsRequest represents the request for keyword suggestions
// in a niche
type RecommendedKeywordsRequest struct {
	Niche  string `json:"-" query:"niche" validate:"required,min=2,max=100"`
	Locale string `json:"-" query:"locale" validate:"omitempty,min=2,max=10"`
	Limit  int    `json:"-" query:"limit" validate:"omitempty,min=1,max=100"`
}

// RecommendedKeyword represents one keyword suggestion with its registry state
type RecommendedKeyword struct {
	Keyword            string  `json:"keyword"`
	Status             string  `json:"status"`
	CompetitionScore   float64 `json:"competition_score"`
	TrendChangePercent float64 `json:"trend_change_percent"`
	SearchVolume       *int    `json:"search_volume,omitempty"`
	LastUpdated        string  `json:"last_updated"`
}

// RecommendedKeywordsResponse represents the keyword suggestion list
type RecommendedKeywordsResponse struct {
	Niche    string               `json:"niche"`
	Locale   string               `json:"locale"`
	Keywords []RecommendedKeyword `json:"keywords"`
}

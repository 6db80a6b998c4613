// Package businessflow contains the core business logic and use cases for SEO audit workflows
package businessflow

import (
	"strings"

	"github.com/amirphl/Susanoo/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for request tracking
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// AuditTarget is the normalized, immutable view of the artifact under audit.
// It is owned exclusively by one audit run; analyzers only read it.
type AuditTarget struct {
	Kind        models.TargetKind `json:"kind"`
	TargetID    uint              `json:"target_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Content     string            `json:"content"`
	Keywords    []string          `json:"keywords"`
	Niche       string            `json:"niche,omitempty"`
	Locale      string            `json:"locale"`
}

// HasContent reports whether there is anything to analyze at all
func (t *AuditTarget) HasContent() bool {
	return strings.TrimSpace(t.Title) != "" ||
		strings.TrimSpace(t.Description) != "" ||
		strings.TrimSpace(t.Content) != ""
}

// normalizeKeywords lowercases, trims, and de-duplicates keywords preserving order
func normalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}

// capKeywords returns at most n keywords, preserving order
func capKeywords(keywords []string, n int) []string {
	if n <= 0 || len(keywords) <= n {
		return keywords
	}
	return keywords[:n]
}

package utils

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Locale constants
const (
	// DefaultLocale is assumed when a target carries no locale of its own
	DefaultLocale = "en-US"
)

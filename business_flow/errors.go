// Package businessflow contains the core business logic and use cases for SEO audit workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Target-related errors
	ErrTargetNotFound    = errors.New("audit target not found")
	ErrTargetKindInvalid = errors.New("target kind must be one of storefront, campaign, product")
	ErrTargetIDRequired  = errors.New("target id is required")
	ErrNoContent         = errors.New("target has no title, description, or content to analyze")
	ErrTargetInactive    = errors.New("target is inactive")
	ErrLocaleInvalid     = errors.New("locale must be a language-region code such as en-US")
	ErrNicheRequired     = errors.New("niche is required")
	ErrNoAuditFound      = errors.New("no audit found for target")
	ErrAuditNotPersisted = errors.New("audit could not be persisted")
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrInvalidPage       = errors.New("page must be at least 1")
	ErrInvalidPageSize   = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsTargetNotFound(err error) bool {
	return errors.Is(err, ErrTargetNotFound)
}

func IsTargetKindInvalid(err error) bool {
	return errors.Is(err, ErrTargetKindInvalid)
}

func IsTargetIDRequired(err error) bool {
	return errors.Is(err, ErrTargetIDRequired)
}

func IsNoContent(err error) bool {
	return errors.Is(err, ErrNoContent)
}

func IsTargetInactive(err error) bool {
	return errors.Is(err, ErrTargetInactive)
}

func IsLocaleInvalid(err error) bool {
	return errors.Is(err, ErrLocaleInvalid)
}

func IsNicheRequired(err error) bool {
	return errors.Is(err, ErrNicheRequired)
}

func IsNoAuditFound(err error) bool {
	return errors.Is(err, ErrNoAuditFound)
}

func IsAuditNotPersisted(err error) bool {
	return errors.Is(err, ErrAuditNotPersisted)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

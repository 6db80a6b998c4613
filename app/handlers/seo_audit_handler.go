// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/amirphl/Susanoo/app/dto"
	businessflow "github.com/amirphl/Susanoo/business_flow"
	"github.com/amirphl/Susanoo/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// SeoAuditHandlerInterface defines the contract for SEO audit handlers
type SeoAuditHandlerInterface interface {
	RunAudit(c fiber.Ctx) error
	LatestAudit(c fiber.Ctx) error
	ListRecommendations(c fiber.Ctx) error
	RecommendedKeywords(c fiber.Ctx) error
}

// SeoAuditHandler handles SEO audit HTTP requests
type SeoAuditHandler struct {
	auditFlow businessflow.SeoAuditFlow
	validator *validator.Validate
}

// NewSeoAuditHandler creates a new SEO audit handler
func NewSeoAuditHandler(auditFlow businessflow.SeoAuditFlow) *SeoAuditHandler {
	return &SeoAuditHandler{
		auditFlow: auditFlow,
		validator: validator.New(),
	}
}

func (h *SeoAuditHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SeoAuditHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RunAudit runs a full SEO audit against a storefront, campaign, or product
// @Summary Run SEO Audit
// @Description Run every SEO analyzer against a target and persist the audit snapshot
// @Tags SEO
// @Accept json
// @Produce json
// @Param request body dto.RunAuditRequest true "Audit target reference"
// @Success 201 {object} dto.APIResponse{data=dto.RunAuditResponse} "Audit completed"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 404 {object} dto.APIResponse "Target not found"
// @Failure 422 {object} dto.APIResponse "Target has no auditable content"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/seo/audits [post]
func (h *SeoAuditHandler) RunAudit(c fiber.Ctx) error {
	var req dto.RunAuditRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	result, err := h.auditFlow.RunAudit(h.createRequestContext(c, "/api/v1/seo/audits"), &req, metadata)
	if err != nil {
		if businessflow.IsTargetNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Target not found", "TARGET_NOT_FOUND", nil)
		}
		if businessflow.IsTargetInactive(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Target is not active", "TARGET_INACTIVE", nil)
		}
		if businessflow.IsNoContent(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Target has no content to audit", "TARGET_NO_CONTENT", nil)
		}
		if businessflow.IsTargetKindInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown target kind", "TARGET_KIND_INVALID", nil)
		}

		log.Println("SEO audit failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "SEO audit failed", "AUDIT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "SEO audit completed", result)
}

// LatestAudit returns the most recent audit snapshot for a target
// @Summary Latest SEO Audit
// @Description Fetch the most recent persisted audit snapshot for a target
// @Tags SEO
// @Produce json
// @Param target_kind query string true "Target kind (storefront, campaign, product)"
// @Param target_uuid query string true "Target UUID"
// @Success 200 {object} dto.APIResponse{data=dto.RunAuditResponse} "Latest audit"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Target or audit not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/seo/audits/latest [get]
func (h *SeoAuditHandler) LatestAudit(c fiber.Ctx) error {
	req := dto.LatestAuditRequest{
		TargetKind: c.Query("target_kind"),
		TargetUUID: c.Query("target_uuid"),
	}
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.auditFlow.LatestAudit(h.createRequestContext(c, "/api/v1/seo/audits/latest"), &req)
	if err != nil {
		if businessflow.IsTargetNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Target not found", "TARGET_NOT_FOUND", nil)
		}
		if businessflow.IsNoAuditFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No audit found for target", "AUDIT_NOT_FOUND", nil)
		}
		if businessflow.IsTargetKindInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown target kind", "TARGET_KIND_INVALID", nil)
		}

		log.Println("Latest audit lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Audit lookup failed", "AUDIT_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Latest audit retrieved", result)
}

// ListRecommendations returns the flattened recommendation list of the latest audit
// @Summary List SEO Recommendations
// @Description Flatten the most recent audit's prioritized recommendation list for a target
// @Tags SEO
// @Produce json
// @Param target_kind query string true "Target kind (storefront, campaign, product)"
// @Param target_uuid query string true "Target UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ListRecommendationsResponse} "Recommendations"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Target or audit not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/seo/recommendations [get]
func (h *SeoAuditHandler) ListRecommendations(c fiber.Ctx) error {
	req := dto.ListRecommendationsRequest{
		TargetKind: c.Query("target_kind"),
		TargetUUID: c.Query("target_uuid"),
	}
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.auditFlow.ListRecommendations(h.createRequestContext(c, "/api/v1/seo/recommendations"), &req)
	if err != nil {
		if businessflow.IsTargetNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Target not found", "TARGET_NOT_FOUND", nil)
		}
		if businessflow.IsNoAuditFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No audit found for target", "AUDIT_NOT_FOUND", nil)
		}
		if businessflow.IsTargetKindInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown target kind", "TARGET_KIND_INVALID", nil)
		}

		log.Println("Recommendation listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Recommendation listing failed", "RECOMMENDATION_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Recommendations retrieved", result)
}

// RecommendedKeywords suggests keywords for a niche from the keyword registry
// @Summary Recommended Keywords
// @Description Suggest low-competition and trending keywords for a niche
// @Tags SEO
// @Produce json
// @Param niche query string true "Niche to suggest keywords for"
// @Param locale query string false "Locale (default en-US)"
// @Param limit query int false "Maximum number of keywords (default 20)"
// @Success 200 {object} dto.APIResponse{data=dto.RecommendedKeywordsResponse} "Keyword suggestions"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/seo/keywords/recommended [get]
func (h *SeoAuditHandler) RecommendedKeywords(c fiber.Ctx) error {
	req := dto.RecommendedKeywordsRequest{
		Niche:  c.Query("niche"),
		Locale: c.Query("locale"),
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Limit = n
		}
	}
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.auditFlow.RecommendedKeywords(h.createRequestContext(c, "/api/v1/seo/keywords/recommended"), &req)
	if err != nil {
		if businessflow.IsNicheRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Niche is required", "NICHE_REQUIRED", nil)
		}

		log.Println("Keyword recommendation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Keyword recommendation failed", "KEYWORD_RECOMMENDATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Recommended keywords retrieved", result)
}

// createRequestContext creates a context with timeout and request-scoped values
func (h *SeoAuditHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *SeoAuditHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	// Add request-scoped values for observability
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get(businessflow.RequestIDKey))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}

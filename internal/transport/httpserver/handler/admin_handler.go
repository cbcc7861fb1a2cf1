package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"country-pulse-service/internal/app/service"
	"country-pulse-service/internal/domain"
	"country-pulse-service/internal/transport/httpserver/dto"
	"country-pulse-service/internal/transport/httpserver/middleware"
	"country-pulse-service/internal/validator"
)

// AdminHandler handles cache maintenance and diagnostics requests.
// warmupService and cache are nil when caching is disabled.
type AdminHandler struct {
	warmupService *service.WarmupService
	cache         domain.Cache
	checks        []middleware.ReadinessCheck
	validator     *validator.Validator
	logger        *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	warmupSvc *service.WarmupService,
	cache domain.Cache,
	checks []middleware.ReadinessCheck,
	v *validator.Validator,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		warmupService: warmupSvc,
		cache:         cache,
		checks:        checks,
		validator:     v,
		logger:        logger,
	}
}

// WarmAll handles POST /api/v1/admin/warmup
func (h *AdminHandler) WarmAll(c *fiber.Ctx) error {
	if h.warmupService == nil {
		return cacheDisabled(c)
	}

	h.logger.Info("manual warm-up triggered")

	results := h.warmupService.WarmAll(c.Context())

	return c.JSON(dto.FromWarmupResults(results))
}

// WarmCountry handles POST /api/v1/admin/warmup/:code
func (h *AdminHandler) WarmCountry(c *fiber.Ctx) error {
	if h.warmupService == nil {
		return cacheDisabled(c)
	}

	var path dto.CountryPath
	if err := c.ParamsParser(&path); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid path parameters",
			Code:  "INVALID_PARAMS",
		})
	}
	if err := h.validator.Validate(&path); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	h.logger.Info("manual country warm-up triggered", zap.String("country", path.Code))

	result, err := h.warmupService.WarmCountry(c.Context(), path.Code)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCountry) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "country not found",
				Code:  "COUNTRY_NOT_FOUND",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "WARMUP_FAILED",
		})
	}

	return c.JSON(dto.FromWarmupResult(*result))
}

// ClearCache handles DELETE /api/v1/admin/cache
func (h *AdminHandler) ClearCache(c *fiber.Ctx) error {
	if h.cache == nil {
		return cacheDisabled(c)
	}

	if err := h.cache.Clear(c.Context()); err != nil {
		h.logger.Error("cache clear failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to clear cache",
			Code:  "CACHE_CLEAR_FAILED",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Health handles GET /api/v1/admin/health
// Unlike /readyz it reports each dependency by name.
func (h *AdminHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Checks:    make(map[string]string, len(h.checks)),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	for name, err := range middleware.RunChecks(c.Context(), h.checks) {
		if err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := fiber.StatusOK
	if resp.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(resp)
}

func cacheDisabled(c *fiber.Ctx) error {
	return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
		Error: "view-model cache is disabled",
		Code:  "CACHE_DISABLED",
	})
}

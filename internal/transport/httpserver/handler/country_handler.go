// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"country-pulse-service/internal/app/service"
	"country-pulse-service/internal/domain"
	"country-pulse-service/internal/transport/httpserver/dto"
	"country-pulse-service/internal/validator"
)

// CountryHandler serves country view models.
type CountryHandler struct {
	service   *service.CountryService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewCountryHandler creates a new CountryHandler.
func NewCountryHandler(svc *service.CountryService, v *validator.Validator, logger *zap.Logger) *CountryHandler {
	return &CountryHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// List handles GET /api/v1/countries
func (h *CountryHandler) List(c *fiber.Ctx) error {
	return c.JSON(dto.FromCountries(h.service.Countries()))
}

// Get handles GET /api/v1/countries/:code
func (h *CountryHandler) Get(c *fiber.Ctx) error {
	category, errResp := h.parseCategory(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	code := c.Params("code")
	data, err := h.service.Get(c.Context(), code, category)
	if err != nil {
		return h.viewModelError(c, err, zap.String("country", code), zap.String("category", string(category)))
	}

	return c.JSON(data)
}

// GetBySlug handles GET /api/v1/countries/slug/:slug
func (h *CountryHandler) GetBySlug(c *fiber.Ctx) error {
	category, errResp := h.parseCategory(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	slug := c.Params("slug")
	data, err := h.service.GetBySlug(c.Context(), slug, category)
	if err != nil {
		return h.viewModelError(c, err, zap.String("slug", slug), zap.String("category", string(category)))
	}

	return c.JSON(data)
}

// Snapshots handles GET /api/v1/countries/:code/snapshots
func (h *CountryHandler) Snapshots(c *fiber.Ctx) error {
	code := c.Params("code")
	statuses, err := h.service.Snapshots(c.Context(), code)
	if err != nil {
		return h.viewModelError(c, err, zap.String("country", code))
	}

	return c.JSON(dto.FromSnapshotStatuses(code, statuses))
}

// parseCategory reads and validates the category query parameter.
func (h *CountryHandler) parseCategory(c *fiber.Ctx) (domain.Category, *dto.ErrorResponse) {
	var req dto.CountryRequest
	if err := c.QueryParser(&req); err != nil {
		return "", &dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		}
	}

	if err := h.validator.Validate(&req); err != nil {
		return "", &dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		}
	}

	category, err := req.ToCategory()
	if err != nil {
		return "", &dto.ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_CATEGORY",
		}
	}

	return category, nil
}

// viewModelError maps service errors to responses. Unknown countries and
// missing data are both "not found"; anything else is a server error.
func (h *CountryHandler) viewModelError(c *fiber.Ctx, err error, fields ...zap.Field) error {
	switch {
	case errors.Is(err, domain.ErrUnknownCountry):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "country not found",
			Code:  "COUNTRY_NOT_FOUND",
		})
	case errors.Is(err, domain.ErrNoData):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "no data available",
			Code:  "NO_DATA",
		})
	}

	h.logger.Error("building view model failed", append(fields, zap.Error(err))...)

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: "failed to build view model",
		Code:  "INTERNAL_ERROR",
	})
}

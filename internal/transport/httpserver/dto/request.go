// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import "country-pulse-service/internal/domain"

// CountryRequest holds the query parameters of a country view-model request.
type CountryRequest struct {
	Category string `query:"category" validate:"omitempty,category"`
}

// ToCategory resolves the requested category. An empty value means All.
func (r *CountryRequest) ToCategory() (domain.Category, error) {
	return domain.ParseCategory(r.Category)
}

// CountryPath holds the country code path parameter.
type CountryPath struct {
	Code string `params:"code" validate:"required,country"`
}

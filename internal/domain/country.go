package domain

import (
	"strings"
)

// Country is an entry of the closed country vocabulary.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// Slug returns the URL-safe form of the country's display name.
func (c Country) Slug() string {
	return SlugFromName(c.Name)
}

// countries is the vocabulary in display order.
var countries = []Country{
	{Code: "USA", Name: "United States", Flag: "🇺🇸"},
	{Code: "UK", Name: "United Kingdom", Flag: "🇬🇧"},
	{Code: "Canada", Name: "Canada", Flag: "🇨🇦"},
	{Code: "India", Name: "India", Flag: "🇮🇳"},
	{Code: "Australia", Name: "Australia", Flag: "🇦🇺"},
	{Code: "Germany", Name: "Germany", Flag: "🇩🇪"},
	{Code: "France", Name: "France", Flag: "🇫🇷"},
	{Code: "Japan", Name: "Japan", Flag: "🇯🇵"},
	{Code: "Brazil", Name: "Brazil", Flag: "🇧🇷"},
	{Code: "Mexico", Name: "Mexico", Flag: "🇲🇽"},
	{Code: "Spain", Name: "Spain", Flag: "🇪🇸"},
	{Code: "Italy", Name: "Italy", Flag: "🇮🇹"},
}

var (
	countriesByCode = make(map[string]Country, len(countries))
	countriesBySlug = make(map[string]Country, len(countries))
)

func init() {
	for _, c := range countries {
		countriesByCode[c.Code] = c
		countriesBySlug[c.Slug()] = c
	}
}

// Countries returns a copy of the known country vocabulary.
func Countries() []Country {
	out := make([]Country, len(countries))
	copy(out, countries)
	return out
}

// LookupCountry resolves a country code. Returns ErrUnknownCountry for codes outside the vocabulary.
func LookupCountry(code string) (Country, error) {
	c, ok := countriesByCode[code]
	if !ok {
		return Country{}, ErrUnknownCountry
	}
	return c, nil
}

// IsKnownCountry reports whether code is in the vocabulary.
func IsKnownCountry(code string) bool {
	_, ok := countriesByCode[code]
	return ok
}

// SlugFromName lowercases a display name and replaces spaces with hyphens.
func SlugFromName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// CodeFromSlug is the inverse of SlugFromName over the vocabulary.
func CodeFromSlug(slug string) (string, error) {
	c, ok := countriesBySlug[strings.ToLower(slug)]
	if !ok {
		return "", ErrUnknownCountry
	}
	return c.Code, nil
}

package domain

import (
	"errors"
	"testing"
)

func TestSlugRoundTrip(t *testing.T) {
	for _, c := range Countries() {
		t.Run(c.Code, func(t *testing.T) {
			code, err := CodeFromSlug(SlugFromName(c.Name))
			if err != nil {
				t.Fatalf("CodeFromSlug(%q) returned error: %v", SlugFromName(c.Name), err)
			}
			if code != c.Code {
				t.Errorf("round trip for %q = %q, want %q", c.Name, code, c.Code)
			}
		})
	}
}

func TestSlugFromName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"United States", "united-states"},
		{"United Kingdom", "united-kingdom"},
		{"Japan", "japan"},
		{"  Brazil ", "brazil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SlugFromName(tt.name); got != tt.expected {
				t.Errorf("SlugFromName(%q) = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}

func TestCodeFromSlug_Unknown(t *testing.T) {
	_, err := CodeFromSlug("atlantis")
	if !errors.Is(err, ErrUnknownCountry) {
		t.Errorf("expected ErrUnknownCountry, got %v", err)
	}
}

func TestCodeFromSlug_CaseInsensitive(t *testing.T) {
	code, err := CodeFromSlug("United-States")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "USA" {
		t.Errorf("expected USA, got %q", code)
	}
}

func TestLookupCountry(t *testing.T) {
	c, err := LookupCountry("USA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "United States" || c.Flag != "🇺🇸" {
		t.Errorf("unexpected country %+v", c)
	}

	if _, err := LookupCountry("usa"); !errors.Is(err, ErrUnknownCountry) {
		t.Errorf("codes are case-sensitive, expected ErrUnknownCountry, got %v", err)
	}
	if IsKnownCountry("Narnia") {
		t.Error("expected Narnia to be unknown")
	}
}

func TestCountries_ReturnsCopy(t *testing.T) {
	list := Countries()
	list[0].Name = "changed"

	if Countries()[0].Name == "changed" {
		t.Error("Countries() must not expose the vocabulary for mutation")
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
		wantErr  bool
	}{
		{"", CategoryAll, false},
		{"All", CategoryAll, false},
		{"all", CategoryAll, false},
		{"memes", CategoryMemes, false},
		{"Politics", CategoryPolitics, false},
		{"trends", "", true},
		{"weather", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownCategory) {
					t.Errorf("expected ErrUnknownCategory, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCategory_Dir(t *testing.T) {
	if CategoryTrends.Dir() != "google-trends" {
		t.Errorf("unexpected trends dir %q", CategoryTrends.Dir())
	}
	if CategoryNews.Dir() != "news" {
		t.Errorf("unexpected news dir %q", CategoryNews.Dir())
	}
}

package domain

import "time"

// CategorySummary is one category's share of an "All" view model.
type CategorySummary struct {
	Count             int       `json:"count"`
	DominantSentiment Sentiment `json:"dominantSentiment"`
}

// CountryData is the per-country view model handed to the rendering layer.
// It is built fresh for every request.
type CountryData struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Flag        string    `json:"flag"`
	Category    Category  `json:"category"`
	LastUpdated time.Time `json:"lastUpdated"`

	MoodSummary           string          `json:"moodSummary"`
	MoodMeter             MoodMeter       `json:"moodMeter"`
	DominantMood          Mood            `json:"dominantMood"`
	SentimentTrend        []int           `json:"sentimentTrend"`
	TopTopics             []TopTopic      `json:"topTopics"`
	RepresentativeContent []*ContentItem  `json:"representativeContent"`
	CategoryMetrics       CategoryMetrics `json:"categoryMetrics"`
	PlatformBreakdown     []PlatformShare `json:"platformBreakdown"`
	EngagementStats       EngagementStats `json:"engagementStats"`

	// CategoryBreakdown is set only for the All category.
	CategoryBreakdown map[Category]CategorySummary `json:"categoryBreakdown,omitempty"`

	// CategoryData is the raw, unnormalized record of a single-category request.
	CategoryData any `json:"categoryData,omitempty"`
}

// NewCountryData packages derived metrics for a country and category.
func NewCountryData(country Country, category Category, m Metrics, summary string, lastUpdated time.Time) *CountryData {
	return &CountryData{
		Code:                  country.Code,
		Name:                  country.Name,
		Flag:                  country.Flag,
		Category:              category,
		LastUpdated:           lastUpdated,
		MoodSummary:           summary,
		MoodMeter:             m.MoodMeter,
		DominantMood:          m.DominantMood,
		SentimentTrend:        m.SentimentTrend,
		TopTopics:             m.TopTopics,
		RepresentativeContent: m.RepresentativeContent,
		CategoryMetrics:       m.CategoryMetrics,
		PlatformBreakdown:     m.PlatformBreakdown,
		EngagementStats:       m.EngagementStats,
	}
}

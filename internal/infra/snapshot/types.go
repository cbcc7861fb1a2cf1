package snapshot

import (
	"strings"
	"time"

	"country-pulse-service/internal/domain"
)

// Raw record shapes. Bodies are camelized before decoding (see keys.go), so only
// the camelCase spelling is declared here.

// Stamp carries the ingest time fields common to every record.
type Stamp struct {
	Country        string `json:"country,omitempty"`
	TimestampField string `json:"timestamp,omitempty"`
	LastUpdated    string `json:"lastUpdated,omitempty"`
}

// Timestamp returns lastUpdated or timestamp, whichever parses first.
func (s Stamp) Timestamp() time.Time {
	for _, v := range []string{s.LastUpdated, s.TimestampField} {
		if t, ok := parseTime(v); ok {
			return t
		}
	}
	return time.Time{}
}

// RawItem is an item as written by the memes, news and sports scrapers.
type RawItem struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Excerpt        string             `json:"excerpt,omitempty"`
	Content        string             `json:"content,omitempty"`
	Type           string             `json:"type,omitempty"`
	SourcePlatform string             `json:"sourcePlatform,omitempty"`
	SourceName     string             `json:"sourceName,omitempty"`
	SourceURL      string             `json:"sourceUrl,omitempty"`
	CreatedAt      string             `json:"createdAt,omitempty"`
	Engagement     map[string]float64 `json:"engagement,omitempty"`
	Sentiment      string             `json:"sentiment,omitempty"`
	ViralityScore  *float64           `json:"viralityScore,omitempty"`
	Sport          string             `json:"sport,omitempty"`
	Tags           []string           `json:"tags,omitempty"`
	Media          *RawMedia          `json:"media,omitempty"`
	IsVideo        bool               `json:"isVideo,omitempty"`
}

// RawMedia holds media references of an item.
type RawMedia struct {
	Thumbnail string   `json:"thumbnail,omitempty"`
	Images    []string `json:"images,omitempty"`
	Videos    []string `json:"videos,omitempty"`
}

// ItemRecord is the item-shaped record of memes, news and sports.
type ItemRecord struct {
	Stamp
	Items   []RawItem      `json:"items"`
	Summary map[string]any `json:"summary,omitempty"`

	category domain.Category
}

// Category implements domain.CategoryRecord.
func (r *ItemRecord) Category() domain.Category { return r.category }

// Headline is a headline-shaped entry of the politics and economics records.
type Headline struct {
	Headline    string `json:"headline,omitempty"`
	Title       string `json:"title,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	URL         string `json:"url,omitempty"`
	Date        string `json:"date,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
	Status      string `json:"status,omitempty"`
	Sentiment   string `json:"sentiment,omitempty"`
}

// Text returns the headline text, preferring headline over title.
func (h Headline) Text() string {
	if s := strings.TrimSpace(h.Headline); s != "" {
		return s
	}
	return strings.TrimSpace(h.Title)
}

// Blurb returns the summary or description.
func (h Headline) Blurb() string {
	if h.Summary != "" {
		return h.Summary
	}
	return h.Description
}

// Published returns the first parseable publication date.
func (h Headline) Published() (time.Time, bool) {
	for _, v := range []string{h.PublishedAt, h.Date} {
		if t, ok := parseTime(v); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// PoliticsRecord is the politics snapshot.
type PoliticsRecord struct {
	Stamp
	LeadershipAndGovernment map[string]any    `json:"leadershipAndGovernment,omitempty"`
	RecentAndUpcoming       RecentAndUpcoming `json:"recentAndUpcoming"`
	PoliticalClimate        PoliticalClimate  `json:"politicalClimate"`
}

// RecentAndUpcoming groups policies and scheduled events.
type RecentAndUpcoming struct {
	RecentPolicies    []Headline       `json:"recentPolicies,omitempty"`
	UpcomingElections []map[string]any `json:"upcomingElections,omitempty"`
}

// PoliticalClimate groups issues and headlines.
type PoliticalClimate struct {
	KeyIssues       []any      `json:"keyIssues,omitempty"`
	RecentHeadlines []Headline `json:"recentHeadlines,omitempty"`
}

// Category implements domain.CategoryRecord.
func (r *PoliticsRecord) Category() domain.Category { return domain.CategoryPolitics }

// Indicator is one economic indicator.
type Indicator struct {
	Name      string   `json:"name,omitempty"`
	Value     *float64 `json:"value,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	Trend     string   `json:"trend,omitempty"`
	Source    string   `json:"source,omitempty"`
	ChangePct *float64 `json:"changePct,omitempty"`
}

// Mover is a top gaining or losing market symbol.
type Mover struct {
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	ChangePct *float64 `json:"changePct,omitempty"`
}

// MarketData holds the day's market movers.
type MarketData struct {
	TopGainers []Mover `json:"topGainers,omitempty"`
	TopLosers  []Mover `json:"topLosers,omitempty"`
}

// EconomicsRecord is the economics snapshot.
type EconomicsRecord struct {
	Stamp
	EconomicIndicators map[string]Indicator `json:"economicIndicators,omitempty"`
	MarketData         MarketData           `json:"marketData"`
	NewsHeadlines      []Headline           `json:"newsHeadlines,omitempty"`
}

// Category implements domain.CategoryRecord.
func (r *EconomicsRecord) Category() domain.Category { return domain.CategoryEconomics }

// TrendingSearch is one entry of the trends snapshot.
type TrendingSearch struct {
	Rank         int    `json:"rank,omitempty"`
	Query        string `json:"query"`
	SearchVolume string `json:"searchVolume,omitempty"`
	Traffic      any    `json:"traffic,omitempty"` // number or label
}

// TrendsRecord is the google-trends snapshot.
type TrendsRecord struct {
	Stamp
	TrendingSearches []TrendingSearch `json:"trendingSearches"`
}

// Category implements domain.CategoryRecord.
func (r *TrendsRecord) Category() domain.Category { return domain.CategoryTrends }

// TrendingTerms implements domain.TrendingSource.
func (r *TrendsRecord) TrendingTerms() []domain.TrendingTerm {
	terms := make([]domain.TrendingTerm, 0, len(r.TrendingSearches))
	for _, s := range r.TrendingSearches {
		term := domain.TrendingTerm{
			Query:        strings.TrimSpace(s.Query),
			TrafficLabel: s.SearchVolume,
		}
		switch v := s.Traffic.(type) {
		case float64:
			term.Traffic = int64(v)
		case string:
			if term.TrafficLabel == "" {
				term.TrafficLabel = v
			}
		}
		terms = append(terms, term)
	}
	return terms
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	DateLayout,
}

// parseTime accepts RFC 3339, zone-less ISO timestamps (read as UTC) and plain dates.
func parseTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

package snapshot

import (
	"fmt"
	"strings"

	"country-pulse-service/internal/domain"
)

// headlinePlatform tags items mapped from headline-shaped records.
const headlinePlatform = "news"

// Normalizer implements domain.Normalizer with one mapping per record shape.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize converts a raw record into content items. Records with no items
// (or shapes that carry none, like trends) yield an empty, non-nil slice.
func (n *Normalizer) Normalize(record domain.CategoryRecord) []*domain.ContentItem {
	switch r := record.(type) {
	case *ItemRecord:
		return normalizeItems(r)
	case *PoliticsRecord:
		return normalizePolitics(r)
	case *EconomicsRecord:
		return normalizeEconomics(r)
	default:
		return []*domain.ContentItem{}
	}
}

// normalizeItems applies a light fix-up to already item-shaped records.
func normalizeItems(r *ItemRecord) []*domain.ContentItem {
	items := make([]*domain.ContentItem, 0, len(r.Items))
	for i, raw := range r.Items {
		title := strings.TrimSpace(raw.Title)
		if title == "" {
			title = strings.TrimSpace(raw.Content)
		}
		if title == "" {
			continue
		}

		item := &domain.ContentItem{
			ID:             raw.ID,
			Title:          title,
			Excerpt:        raw.Excerpt,
			Content:        raw.Content,
			Type:           domain.ContentType(raw.Type),
			SourcePlatform: raw.SourcePlatform,
			SourceName:     raw.SourceName,
			SourceURL:      raw.SourceURL,
			Engagement:     domain.Engagement(raw.Engagement),
			Sentiment:      domain.ParseSentiment(raw.Sentiment),
			Sport:          raw.Sport,
			Tags:           raw.Tags,
			IsVideo:        raw.IsVideo,
		}
		if item.ID == "" {
			item.ID = syntheticID(r.Category(), i)
		}
		if item.Type == "" {
			item.Type = domain.InferContentType(raw.SourcePlatform)
		}
		if item.Engagement == nil {
			item.Engagement = domain.Engagement{}
		}
		if raw.ViralityScore != nil {
			item.ViralityScore = *raw.ViralityScore
		}
		if t, ok := parseTime(raw.CreatedAt); ok {
			item.CreatedAt = &t
		}
		if raw.Media != nil && raw.Media.Thumbnail != "" {
			item.Media = &domain.Media{Thumbnail: raw.Media.Thumbnail}
		}

		items = append(items, item)
	}

	return items
}

// normalizePolitics maps recent headlines, then recent policies, onto synthetic items
// sharing one running index.
func normalizePolitics(r *PoliticsRecord) []*domain.ContentItem {
	headlines := make([]Headline, 0, len(r.PoliticalClimate.RecentHeadlines)+len(r.RecentAndUpcoming.RecentPolicies))
	headlines = append(headlines, r.PoliticalClimate.RecentHeadlines...)
	headlines = append(headlines, r.RecentAndUpcoming.RecentPolicies...)

	return headlinesToItems(domain.CategoryPolitics, headlines)
}

// normalizeEconomics maps news headlines onto synthetic items. Indicators and
// market data stay in the raw record.
func normalizeEconomics(r *EconomicsRecord) []*domain.ContentItem {
	return headlinesToItems(domain.CategoryEconomics, r.NewsHeadlines)
}

func headlinesToItems(category domain.Category, headlines []Headline) []*domain.ContentItem {
	items := make([]*domain.ContentItem, 0, len(headlines))
	for i, h := range headlines {
		title := h.Text()
		if title == "" {
			continue
		}

		item := &domain.ContentItem{
			ID:                syntheticID(category, i),
			Title:             title,
			Excerpt:           h.Blurb(),
			Type:              domain.ContentTypeArticle,
			SourcePlatform:    headlinePlatform,
			SourceName:        h.Source,
			SourceURL:         h.URL,
			Engagement:        domain.Engagement{},
			Sentiment:         domain.ParseSentiment(h.Sentiment),
			ViralityScore:     domain.PlaceholderVirality,
			ViralityEstimated: true,
		}
		if t, ok := h.Published(); ok {
			item.CreatedAt = &t
		}

		items = append(items, item)
	}

	return items
}

func syntheticID(category domain.Category, index int) string {
	return fmt.Sprintf("%s_%d", category, index)
}

// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"strings"
	"time"
)

// Sentiment is the tone label attached to every content item.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ParseSentiment maps a free-form label onto one of the three known sentiments.
// Unknown or empty labels (e.g. "mixed") become neutral.
func ParseSentiment(label string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(label))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Score returns the baseline trend score for a sentiment.
func (s Sentiment) Score() float64 {
	switch s {
	case SentimentPositive:
		return 75
	case SentimentNegative:
		return 25
	default:
		return 50
	}
}

// ContentType is the display type of a content item.
type ContentType string

const (
	ContentTypeReddit  ContentType = "reddit"
	ContentTypeVideo   ContentType = "video"
	ContentTypeArticle ContentType = "article"
)

// InferContentType derives a content type from the source platform.
func InferContentType(platform string) ContentType {
	switch strings.ToLower(platform) {
	case "reddit":
		return ContentTypeReddit
	case "youtube":
		return ContentTypeVideo
	default:
		return ContentTypeArticle
	}
}

// Engagement maps a metric name (likes, comments, shares, views, upvotes) to a count.
// Absent metrics read as zero.
type Engagement map[string]float64

// Engagement metric names.
const (
	MetricLikes    = "likes"
	MetricComments = "comments"
	MetricShares   = "shares"
	MetricViews    = "views"
	MetricUpvotes  = "upvotes"
)

// Get returns the metric value, or 0 when absent.
func (e Engagement) Get(metric string) float64 {
	if e == nil {
		return 0
	}
	return e[metric]
}

// Media holds display-only media references.
type Media struct {
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ContentItem is the common normalized unit every category is reduced to.
// Only Sentiment and ViralityScore feed metrics; everything else is passthrough.
type ContentItem struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Excerpt        string      `json:"excerpt,omitempty"`
	Content        string      `json:"content,omitempty"`
	Type           ContentType `json:"type"`
	SourcePlatform string      `json:"sourcePlatform,omitempty"`
	SourceName     string      `json:"sourceName,omitempty"`
	SourceURL      string      `json:"sourceUrl,omitempty"`
	CreatedAt      *time.Time  `json:"createdAt,omitempty"`
	Engagement     Engagement  `json:"engagement"`
	Sentiment      Sentiment   `json:"sentiment"`
	ViralityScore  float64     `json:"viralityScore"`

	// ViralityEstimated marks a placeholder score on items whose source has no ranking signal.
	ViralityEstimated bool `json:"viralityEstimated,omitempty"`

	// Category-specific passthrough
	Sport   string   `json:"sport,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Media   *Media   `json:"media,omitempty"`
	IsVideo bool     `json:"isVideo,omitempty"`
}

// EngagementWeight is likes + comments + shares + views/100.
func (c *ContentItem) EngagementWeight() float64 {
	return c.Engagement.Get(MetricLikes) +
		c.Engagement.Get(MetricComments) +
		c.Engagement.Get(MetricShares) +
		c.Engagement.Get(MetricViews)/100
}

// Topics returns the tag-like keywords of an item: its tags followed by its sport.
func (c *ContentItem) Topics() []string {
	topics := make([]string, 0, len(c.Tags)+1)
	for _, t := range c.Tags {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	if s := strings.TrimSpace(c.Sport); s != "" {
		topics = append(topics, s)
	}
	return topics
}

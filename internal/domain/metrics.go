package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Derivation limits.
const (
	TrendPoints              = 12
	TrendNoise               = 10.0
	MaxTrendingTopics        = 5
	MaxTagTopics             = 5
	MaxTopTopics             = 8
	MaxPlatforms             = 4
	MaxRepresentativeContent = 8

	// PlaceholderVirality is assigned to items whose source carries no ranking signal.
	PlaceholderVirality = 50.0

	// UnlabeledPlatform groups items without a source platform.
	UnlabeledPlatform = "Other"
)

// Mood is one of the five mood meter keys.
type Mood string

const (
	MoodJoy       Mood = "joy"
	MoodCuriosity Mood = "curiosity"
	MoodAnger     Mood = "anger"
	MoodConfusion Mood = "confusion"
	MoodSadness   Mood = "sadness"
)

// MoodOrder is the key declaration order; it breaks dominant-mood ties.
var MoodOrder = []Mood{MoodJoy, MoodCuriosity, MoodAnger, MoodConfusion, MoodSadness}

// MoodMeter holds independent 0-100 scores per mood. They need not sum to 100.
type MoodMeter struct {
	Joy       int `json:"joy"`
	Curiosity int `json:"curiosity"`
	Anger     int `json:"anger"`
	Confusion int `json:"confusion"`
	Sadness   int `json:"sadness"`
}

// Get returns the score of a mood key.
func (m MoodMeter) Get(mood Mood) int {
	switch mood {
	case MoodJoy:
		return m.Joy
	case MoodCuriosity:
		return m.Curiosity
	case MoodAnger:
		return m.Anger
	case MoodConfusion:
		return m.Confusion
	case MoodSadness:
		return m.Sadness
	default:
		return 0
	}
}

// Dominant returns the highest-scoring mood, first in MoodOrder on ties.
func (m MoodMeter) Dominant() Mood {
	best := MoodOrder[0]
	for _, mood := range MoodOrder[1:] {
		if m.Get(mood) > m.Get(best) {
			best = mood
		}
	}
	return best
}

// SentimentCounts is the sentiment distribution of an item set.
type SentimentCounts struct {
	Positive int
	Negative int
	Neutral  int
}

// Total returns the number of counted items.
func (s SentimentCounts) Total() int {
	return s.Positive + s.Negative + s.Neutral
}

// Percentages returns positive, negative and neutral shares in [0,100].
func (s SentimentCounts) Percentages() (positive, negative, neutral float64) {
	total := s.Total()
	if total == 0 {
		return 0, 0, 0
	}
	t := float64(total)
	return float64(s.Positive) / t * 100, float64(s.Negative) / t * 100, float64(s.Neutral) / t * 100
}

// Dominant returns the most frequent sentiment. Ties resolve positive, neutral, negative.
func (s SentimentCounts) Dominant() Sentiment {
	best, count := SentimentPositive, s.Positive
	if s.Neutral > count {
		best, count = SentimentNeutral, s.Neutral
	}
	if s.Negative > count {
		best = SentimentNegative
	}
	if s.Total() == 0 {
		return SentimentNeutral
	}
	return best
}

// CountSentiments tallies items by sentiment.
func CountSentiments(items []*ContentItem) SentimentCounts {
	var c SentimentCounts
	for _, item := range items {
		switch item.Sentiment {
		case SentimentPositive:
			c.Positive++
		case SentimentNegative:
			c.Negative++
		default:
			c.Neutral++
		}
	}
	return c
}

// ComputeMoodMeter distributes the sentiment shares into mood scores using fixed linear weights.
func ComputeMoodMeter(items []*ContentItem) MoodMeter {
	pos, neg, neu := CountSentiments(items).Percentages()

	return MoodMeter{
		Joy:       clampPercent(math.Round(pos * 0.7)),
		Curiosity: clampPercent(math.Round(neu*0.5 + pos*0.3)),
		Anger:     clampPercent(math.Round(neg * 0.6)),
		Confusion: clampPercent(math.Round(neu*0.3 + neg*0.2)),
		Sadness:   clampPercent(math.Round(neg * 0.4)),
	}
}

// SentimentTrend synthesizes TrendPoints values around the average sentiment score.
// There is no history behind it: each point is the average plus uniform noise in
// [-TrendNoise, +TrendNoise], clamped to [0,100].
func SentimentTrend(items []*ContentItem, rnd Randomizer) []int {
	avg := 50.0
	if len(items) > 0 {
		sum := 0.0
		for _, item := range items {
			sum += item.Sentiment.Score()
		}
		avg = sum / float64(len(items))
	}

	trend := make([]int, TrendPoints)
	for i := range trend {
		noise := rnd.Float64()*2*TrendNoise - TrendNoise
		trend[i] = clampPercent(math.Round(avg + noise))
	}
	return trend
}

// TrendingTerm is an external trending search with its free-text traffic label.
type TrendingTerm struct {
	Query        string
	TrafficLabel string
	Traffic      int64
}

// Volume parses the traffic label ("500K+", "2M+", "10,000+"), falling back to Traffic.
func (t TrendingTerm) Volume() int64 {
	if v, ok := ParseTrafficLabel(t.TrafficLabel); ok {
		return v
	}
	return t.Traffic
}

// ParseTrafficLabel parses labels like "500K+", "1.5M+" or "10,000+".
func ParseTrafficLabel(label string) (int64, bool) {
	s := strings.Map(func(r rune) rune {
		if r == '+' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, label)
	if s == "" {
		return 0, false
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'k', 'K':
		multiplier = 1e3
	case 'm', 'M':
		multiplier = 1e6
	case 'b', 'B':
		multiplier = 1e9
	}
	if multiplier != 1 {
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return int64(math.Round(v * multiplier)), true
}

// TopTopic is a ranked keyword with its tone and volume.
type TopTopic struct {
	Keyword   string    `json:"keyword"`
	Sentiment Sentiment `json:"sentiment"`
	Volume    int64     `json:"volume"`
}

// TopTopics lists up to MaxTrendingTopics trending terms (neutral) followed by up to
// MaxTagTopics most frequent item tags, truncated to MaxTopTopics. The two sources are
// concatenated, never re-sorted against each other.
func TopTopics(items []*ContentItem, trending []TrendingTerm) []TopTopic {
	topics := make([]TopTopic, 0, MaxTopTopics)

	for _, term := range trending {
		if len(topics) == MaxTrendingTopics {
			break
		}
		if strings.TrimSpace(term.Query) == "" {
			continue
		}
		topics = append(topics, TopTopic{
			Keyword:   term.Query,
			Sentiment: SentimentNeutral,
			Volume:    term.Volume(),
		})
	}

	type tagCount struct {
		tag       string
		count     int64
		sentiment Sentiment
	}
	var order []*tagCount
	seen := make(map[string]*tagCount)
	for _, item := range items {
		for _, tag := range item.Topics() {
			tc, ok := seen[tag]
			if !ok {
				tc = &tagCount{tag: tag, sentiment: item.Sentiment}
				seen[tag] = tc
				order = append(order, tc)
			}
			tc.count++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].count > order[j].count
	})

	for i, tc := range order {
		if i == MaxTagTopics {
			break
		}
		topics = append(topics, TopTopic{
			Keyword:   tc.tag,
			Sentiment: tc.sentiment,
			Volume:    tc.count,
		})
	}

	if len(topics) > MaxTopTopics {
		topics = topics[:MaxTopTopics]
	}
	return topics
}

// PlatformShare is a platform's rounded percentage of the item set.
type PlatformShare struct {
	Platform   string `json:"platform"`
	Percentage int    `json:"percentage"`
}

// PlatformBreakdown returns the top MaxPlatforms platforms by share, descending.
// Shares are rounded per platform and not renormalized after truncation, so the
// result may sum to less than 100.
func PlatformBreakdown(items []*ContentItem) []PlatformShare {
	if len(items) == 0 {
		return []PlatformShare{}
	}

	var order []string
	counts := make(map[string]int)
	for _, item := range items {
		platform := strings.TrimSpace(item.SourcePlatform)
		if platform == "" {
			platform = UnlabeledPlatform
		}
		if _, ok := counts[platform]; !ok {
			order = append(order, platform)
		}
		counts[platform]++
	}

	shares := make([]PlatformShare, 0, len(order))
	for _, platform := range order {
		pct := float64(counts[platform]) / float64(len(items)) * 100
		shares = append(shares, PlatformShare{
			Platform:   capitalize(platform),
			Percentage: int(math.Round(pct)),
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Percentage > shares[j].Percentage
	})

	if len(shares) > MaxPlatforms {
		shares = shares[:MaxPlatforms]
	}
	return shares
}

// RepresentativeContent returns up to MaxRepresentativeContent items by descending
// virality score. Equal scores keep input order.
func RepresentativeContent(items []*ContentItem) []*ContentItem {
	sorted := make([]*ContentItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ViralityScore > sorted[j].ViralityScore
	})

	if len(sorted) > MaxRepresentativeContent {
		sorted = sorted[:MaxRepresentativeContent]
	}
	return sorted
}

// CategoryMetrics are the aggregate statistics of an item set.
type CategoryMetrics struct {
	TotalPosts    int     `json:"totalPosts"`
	AvgEngagement float64 `json:"avgEngagement"` // thousands of weighted interactions per post
	ViralityScore int     `json:"viralityScore"`
}

// AggregateMetrics computes post count, mean engagement (scaled by 1/1000) and mean virality.
func AggregateMetrics(items []*ContentItem) CategoryMetrics {
	m := CategoryMetrics{TotalPosts: len(items)}
	if len(items) == 0 {
		return m
	}

	var engagement, virality float64
	for _, item := range items {
		engagement += item.EngagementWeight()
		virality += item.ViralityScore
	}
	n := float64(len(items))
	m.AvgEngagement = roundTo2Decimals(engagement / n / 1000)
	m.ViralityScore = int(math.Round(virality / n))
	return m
}

// EngagementStats are summed interaction counts.
type EngagementStats struct {
	Likes    int64 `json:"likes"`
	Shares   int64 `json:"shares"`
	Comments int64 `json:"comments"`
}

// SumEngagement totals likes, shares and comments across items.
func SumEngagement(items []*ContentItem) EngagementStats {
	var likes, shares, comments float64
	for _, item := range items {
		likes += item.Engagement.Get(MetricLikes)
		shares += item.Engagement.Get(MetricShares)
		comments += item.Engagement.Get(MetricComments)
	}
	return EngagementStats{
		Likes:    int64(math.Round(likes)),
		Shares:   int64(math.Round(shares)),
		Comments: int64(math.Round(comments)),
	}
}

// Metrics is the full set of aggregates derived from one item pool.
type Metrics struct {
	MoodMeter             MoodMeter
	DominantMood          Mood
	SentimentTrend        []int
	TopTopics             []TopTopic
	RepresentativeContent []*ContentItem
	CategoryMetrics       CategoryMetrics
	PlatformBreakdown     []PlatformShare
	EngagementStats       EngagementStats
}

// DeriveMetrics computes every aggregate of an item pool. Only the sentiment trend
// draws from rnd; all other values are deterministic.
func DeriveMetrics(items []*ContentItem, trending []TrendingTerm, rnd Randomizer) Metrics {
	meter := ComputeMoodMeter(items)

	return Metrics{
		MoodMeter:             meter,
		DominantMood:          meter.Dominant(),
		SentimentTrend:        SentimentTrend(items, rnd),
		TopTopics:             TopTopics(items, trending),
		RepresentativeContent: RepresentativeContent(items),
		CategoryMetrics:       AggregateMetrics(items),
		PlatformBreakdown:     PlatformBreakdown(items),
		EngagementStats:       SumEngagement(items),
	}
}

func clampPercent(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return int(v)
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// roundTo2Decimals rounds a float to 2 decimal places.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

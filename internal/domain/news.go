package domain

import (
	"strings"
	"time"
)

// ScrapedNewsItem is one candidate item read from a news feed.
// URL is the natural dedup key.
type ScrapedNewsItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Source  string `json:"source"`
	Snippet string `json:"snippet"`
	// PublishedAt keeps the raw feed date string; it is parsed only for ordering.
	PublishedAt string `json:"publishedAt"`
}

// NewsCategory is the closed set of news sections.
type NewsCategory string

const (
	NewsEconomy    NewsCategory = "economie"
	NewsLegal      NewsCategory = "juridique"
	NewsTrends     NewsCategory = "tendances"
	NewsTech       NewsCategory = "tech"
	NewsLifestyle  NewsCategory = "lifestyle"
	NewsCreators   NewsCategory = "createurs"
	DefaultNewsCat              = NewsTech
)

// ParseNewsCategory coerces oracle output into the enumeration.
// Anything unrecognised becomes DefaultNewsCat.
func ParseNewsCategory(value string) NewsCategory {
	switch c := NewsCategory(strings.ToLower(strings.TrimSpace(value))); c {
	case NewsEconomy, NewsLegal, NewsTrends, NewsTech, NewsLifestyle, NewsCreators:
		return c
	default:
		return DefaultNewsCat
	}
}

// GeneratedNewsSummary is the rewritten, buyer-oriented version of an item.
type GeneratedNewsSummary struct {
	Title        string       `json:"title"`
	Slug         string       `json:"slug"`
	Summary      string       `json:"summary"`
	Category     NewsCategory `json:"category"`
	Tags         []string     `json:"tags"`
	ImageKeyword string       `json:"imageKeyword"`
}

// News is a persisted news summary together with its source attribution.
type News struct {
	ID                string     `json:"id"`
	BlogID            string     `json:"blogId"`
	SourceTitle       string     `json:"sourceTitle"`
	SourceURL         string     `json:"sourceUrl"`
	SourceDomain      string     `json:"sourceDomain"`
	SourcePublishedAt *time.Time `json:"sourcePublishedAt,omitempty"`
	FeaturedImage     string     `json:"featuredImage"`
	IsPublished       bool       `json:"isPublished"`
	CreatedAt         time.Time  `json:"createdAt"`

	GeneratedNewsSummary
}

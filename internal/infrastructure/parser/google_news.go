package parser

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/mmcdole/gofeed/rss"
	"github.com/samber/lo"

	"SeoForge/internal/domain"
	"SeoForge/internal/niche"
	"SeoForge/internal/ports"
	"SeoForge/internal/textutil"
)

const (
	defaultFeedURL     = "https://news.google.com/rss/search"
	defaultMaxKeywords = 3
	defaultMaxResults  = 10
	maxSnippetRunes    = 500
)

var (
	itemExpr        = regexp.MustCompile(`(?is)<item>(.*?)</item>`)
	itemTitleExpr   = regexp.MustCompile(`(?is)<title><!\[CDATA\[(.*?)\]\]></title>|<title>(.*?)</title>`)
	itemLinkExpr    = regexp.MustCompile(`(?is)<link>(.*?)</link>`)
	itemSourceExpr  = regexp.MustCompile(`(?is)<source[^>]*>(.*?)</source>`)
	itemDescExpr    = regexp.MustCompile(`(?is)<description><!\[CDATA\[(.*?)\]\]></description>|<description>(.*?)</description>`)
	itemPubDateExpr = regexp.MustCompile(`(?is)<pubDate>(.*?)</pubDate>`)
)

// FeedOptions configures the news search endpoint.
type FeedOptions struct {
	FeedURL     string
	Language    string
	Region      string
	MaxKeywords int
}

// GoogleNews searches the news RSS endpoint with niche-derived keywords.
type GoogleNews struct {
	fetcher ports.PageFetcher
	pacer   ports.Pacer
	opts    FeedOptions
	logger  *slog.Logger
}

var _ ports.NewsSearcher = (*GoogleNews)(nil)

// NewGoogleNews wires a feed fetcher and the pacer spacing consecutive queries.
func NewGoogleNews(fetcher ports.PageFetcher, pacer ports.Pacer, opts FeedOptions, log *slog.Logger) *GoogleNews {
	if opts.FeedURL == "" {
		opts.FeedURL = defaultFeedURL
	}
	if opts.Language == "" {
		opts.Language = "fr"
	}
	if opts.Region == "" {
		opts.Region = "FR"
	}
	if opts.MaxKeywords <= 0 {
		opts.MaxKeywords = defaultMaxKeywords
	}
	return &GoogleNews{fetcher: fetcher, pacer: pacer, opts: opts, logger: log}
}

// Search queries the feed once per keyword (first MaxKeywords only), keeps
// the first item seen per URL, orders by publication date, newest first,
// and returns at most maxResults items. A failing keyword is logged and
// skipped.
func (g *GoogleNews) Search(ctx context.Context, nicheName string, extraKeywords []string, maxResults int) ([]domain.ScrapedNewsItem, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	keywords := niche.Keywords(nicheName, extraKeywords)
	if len(keywords) > g.opts.MaxKeywords {
		keywords = keywords[:g.opts.MaxKeywords]
	}

	var collected []domain.ScrapedNewsItem
	for _, keyword := range keywords {
		if g.pacer != nil {
			if err := g.pacer.Wait(ctx); err != nil {
				return nil, fmt.Errorf("news search: %w", err)
			}
		}

		feedURL := BuildFeedURL(g.opts.FeedURL, keyword, g.opts.Language, g.opts.Region)
		raw, err := g.fetcher.Fetch(ctx, feedURL)
		if err != nil {
			g.warn("news feed fetch failed", "keyword", keyword, "error", err)
			continue
		}

		items := ParseNewsFeed(raw)
		g.debug("news feed parsed", "keyword", keyword, "items", len(items))
		collected = append(collected, items...)
	}

	unique := lo.UniqBy(collected, func(item domain.ScrapedNewsItem) string {
		return item.URL
	})
	SortByPublishedDesc(unique)

	if len(unique) > maxResults {
		unique = unique[:maxResults]
	}
	return unique, nil
}

// BuildFeedURL returns the search feed URL for one query.
func BuildFeedURL(base, query, language, region string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
	return fmt.Sprintf("%s?q=%s&hl=%s&gl=%s&ceid=%s:%s", base, encoded, language, region, region, language)
}

// ParseNewsFeed reads items from an RSS document. Well-formed feeds go
// through the RSS parser; anything else is scanned item by item so one
// broken entry never hides the rest. Items without title or link are dropped.
func ParseNewsFeed(raw []byte) []domain.ScrapedNewsItem {
	feed, err := (&rss.Parser{}).Parse(bytes.NewReader(raw))
	if err != nil {
		return scanNewsItems(string(raw))
	}

	items := make([]domain.ScrapedNewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		source := ""
		if it.Source != nil {
			source = strings.TrimSpace(it.Source.Title)
		}
		if item, ok := newsItem(it.Title, it.Link, source, it.Description, it.PubDate); ok {
			items = append(items, item)
		}
	}
	return items
}

func scanNewsItems(raw string) []domain.ScrapedNewsItem {
	var items []domain.ScrapedNewsItem
	for _, m := range itemExpr.FindAllStringSubmatch(raw, -1) {
		block := m[1]
		title := html.UnescapeString(firstGroup(itemTitleExpr, block))
		link := html.UnescapeString(firstGroup(itemLinkExpr, block))
		source := html.UnescapeString(firstGroup(itemSourceExpr, block))
		desc := html.UnescapeString(firstGroup(itemDescExpr, block))
		pubDate := firstGroup(itemPubDateExpr, block)

		if item, ok := newsItem(title, link, source, desc, pubDate); ok {
			items = append(items, item)
		}
	}
	return items
}

func newsItem(title, link, source, description, pubDate string) (domain.ScrapedNewsItem, bool) {
	title = strings.TrimSpace(title)
	link = strings.TrimSpace(link)
	if title == "" || link == "" {
		return domain.ScrapedNewsItem{}, false
	}
	return domain.ScrapedNewsItem{
		Title:       title,
		URL:         link,
		Source:      strings.TrimSpace(source),
		Snippet:     textutil.Truncate(textutil.StripHTML(description), maxSnippetRunes),
		PublishedAt: strings.TrimSpace(pubDate),
	}, true
}

func firstGroup(expr *regexp.Regexp, text string) string {
	m := expr.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	for _, group := range m[1:] {
		if group != "" {
			return strings.TrimSpace(group)
		}
	}
	return ""
}

// SortByPublishedDesc orders items newest first. Pairs where either date
// does not parse compare equal, so such items keep their relative order.
func SortByPublishedDesc(items []domain.ScrapedNewsItem) {
	slices.SortStableFunc(items, func(a, b domain.ScrapedNewsItem) int {
		ta, okA := textutil.ParseFeedDate(a.PublishedAt)
		tb, okB := textutil.ParseFeedDate(b.PublishedAt)
		if !okA || !okB {
			return 0
		}
		return tb.Compare(ta)
	})
}

func (g *GoogleNews) debug(msg string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}

func (g *GoogleNews) warn(msg string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Warn(msg, args...)
	}
}

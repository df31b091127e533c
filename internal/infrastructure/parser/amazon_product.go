package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"SeoForge/internal/domain"
	"SeoForge/internal/ports"
	"SeoForge/internal/textutil"
)

const (
	defaultMarketplaceURL = "https://www.amazon.fr"

	maxImages            = 5
	maxFeatures          = 10
	minFeatureLength     = 5
	maxTitleRunes        = 500
	maxFeatureRunes      = 500
	maxAplusRunes        = 500
	maxDescRunes         = 1000
	maxAvailabilityRunes = 200
)

var (
	thumbnailModifier = regexp.MustCompile(`\._.*_\.`)
	ratingExpr        = regexp.MustCompile(`(\d+[.,]\d+)`)
	reviewCountExpr   = regexp.MustCompile(`(\d[\d\s\p{Zs}]*)`)
	nonDigit          = regexp.MustCompile(`\D`)
)

// Marketplace scrapes product pages of a single affiliate marketplace.
type Marketplace struct {
	fetcher ports.PageFetcher
	baseURL string
	metrics ports.Metrics
	logger  *slog.Logger
}

var _ ports.ProductScraper = (*Marketplace)(nil)

// NewMarketplace wires a page fetcher; baseURL defaults to the French store.
func NewMarketplace(fetcher ports.PageFetcher, baseURL string, metrics ports.Metrics, log *slog.Logger) *Marketplace {
	if baseURL == "" {
		baseURL = defaultMarketplaceURL
	}
	return &Marketplace{
		fetcher: fetcher,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		metrics: metrics,
		logger:  log,
	}
}

// ProductURL is the canonical page of a product id.
func (m *Marketplace) ProductURL(externalID string) string {
	return fmt.Sprintf("%s/dp/%s", m.baseURL, externalID)
}

// Scrape fetches and parses one product page. Transport failures are
// returned as errors; a page without a title yields a nil product.
func (m *Marketplace) Scrape(ctx context.Context, externalID string) (*domain.ScrapedProduct, error) {
	pageURL := m.ProductURL(externalID)

	start := time.Now()
	body, err := m.fetcher.Fetch(ctx, pageURL)
	if m.metrics != nil {
		m.metrics.ObserveScrape(time.Since(start))
	}
	if err != nil {
		m.warn("product page fetch failed", "asin", externalID, "error", err)
		return nil, fmt.Errorf("fetch product %s: %w", externalID, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse product %s: %w", externalID, err)
	}

	product := ParseProductPage(doc, externalID)
	if product == nil {
		m.warn("product title not found", "asin", externalID, "url", pageURL)
		return nil, nil
	}
	m.debug("product scraped", "asin", externalID, "images", len(product.Images), "features", len(product.Features))
	return product, nil
}

// ParseProductPage extracts a product from a marketplace page. Only the
// title is mandatory; every other field is left absent when not found.
func ParseProductPage(doc *goquery.Document, externalID string) *domain.ScrapedProduct {
	title := parseTitle(doc)
	if title == "" {
		return nil
	}

	return &domain.ScrapedProduct{
		ExternalID:   externalID,
		Title:        title,
		Price:        parsePrice(doc),
		Currency:     domain.DefaultCurrency,
		Images:       parseImages(doc),
		Rating:       parseRating(doc),
		ReviewCount:  parseReviewCount(doc),
		Features:     parseFeatures(doc),
		Description:  parseDescription(doc),
		Availability: parseAvailability(doc),
	}
}

func parseTitle(doc *goquery.Document) string {
	for _, selector := range []string{"#productTitle", "#title", "h1.a-size-large"} {
		if title := strings.TrimSpace(doc.Find(selector).Text()); title != "" {
			return textutil.Truncate(title, maxTitleRunes)
		}
	}
	return ""
}

func parsePrice(doc *goquery.Document) *float64 {
	whole := nonDigit.ReplaceAllString(doc.Find(".a-price-whole").First().Text(), "")
	if whole == "" {
		return nil
	}
	fraction := nonDigit.ReplaceAllString(doc.Find(".a-price-fraction").First().Text(), "")
	if fraction == "" {
		fraction = "00"
	}
	price, err := strconv.ParseFloat(whole+"."+fraction, 64)
	if err != nil {
		return nil
	}
	return &price
}

func parseImages(doc *goquery.Document) []string {
	images := make([]string, 0, maxImages)
	seen := map[string]struct{}{}

	doc.Find("#altImages img, #imageBlock img").Each(func(_ int, img *goquery.Selection) {
		src := img.AttrOr("src", "")
		if src == "" {
			src = img.AttrOr("data-old-hires", "")
		}
		if src == "" || !strings.Contains(src, "images") || strings.Contains(src, "sprite") {
			return
		}
		highRes := thumbnailModifier.ReplaceAllString(src, ".")
		if _, ok := seen[highRes]; ok {
			return
		}
		seen[highRes] = struct{}{}
		images = append(images, highRes)
	})

	main := doc.Find("#landingImage").AttrOr("src", "")
	if main == "" {
		main = doc.Find("#imgBlkFront").AttrOr("src", "")
	}
	if _, ok := seen[main]; main != "" && !ok {
		images = append([]string{main}, images...)
	}

	if len(images) > maxImages {
		images = images[:maxImages]
	}
	return images
}

func parseRating(doc *goquery.Document) *float64 {
	text := doc.Find("#acrPopover").AttrOr("title", "")
	if text == "" {
		text = doc.Find(".a-icon-star span").First().Text()
	}
	m := ratingExpr.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	rating, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	return &rating
}

func parseReviewCount(doc *goquery.Document) *int {
	text := doc.Find("#acrCustomerReviewText").Text()
	if text == "" {
		text = doc.Find("#reviewsMedley .a-size-base").First().Text()
	}
	m := reviewCountExpr.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	count, err := strconv.Atoi(nonDigit.ReplaceAllString(m[1], ""))
	if err != nil {
		return nil
	}
	return &count
}

func parseFeatures(doc *goquery.Document) []string {
	features := make([]string, 0, maxFeatures)
	doc.Find("#feature-bullets li span.a-list-item").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text == "" || strings.Contains(text, "Cliquez") || len([]rune(text)) <= minFeatureLength {
			return true
		}
		features = append(features, textutil.Truncate(text, maxFeatureRunes))
		return len(features) < maxFeatures
	})
	return features
}

func parseDescription(doc *goquery.Document) string {
	paragraphs := doc.Find("#productDescription p").Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	})
	description := strings.TrimSpace(strings.Join(paragraphs, "\n"))
	if description == "" {
		description = textutil.Truncate(strings.TrimSpace(doc.Find("#aplus_feature_div").Text()), maxAplusRunes)
	}
	return textutil.Truncate(description, maxDescRunes)
}

func parseAvailability(doc *goquery.Document) string {
	availability := strings.TrimSpace(doc.Find("#availability span").First().Text())
	if availability == "" {
		availability = strings.TrimSpace(doc.Find("#outOfStock span").Text())
	}
	if availability == "" {
		return domain.UnknownAvailability
	}
	return textutil.Truncate(availability, maxAvailabilityRunes)
}

func (m *Marketplace) debug(msg string, args ...interface{}) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

func (m *Marketplace) warn(msg string, args ...interface{}) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}

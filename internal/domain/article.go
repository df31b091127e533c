package domain

import (
	"fmt"
	"strings"
	"time"
)

// ArticleType is the kind of long-form article requested from the oracle.
type ArticleType string

const (
	ArticleReview     ArticleType = "review"
	ArticleGuide      ArticleType = "guide"
	ArticleComparison ArticleType = "comparatif"
	ArticleTop        ArticleType = "top"
)

// ArticleTypes lists every type in the order the batch workflow attempts them.
var ArticleTypes = []ArticleType{ArticleReview, ArticleGuide, ArticleComparison, ArticleTop}

// ParseArticleType accepts the wire value of an article type.
func ParseArticleType(value string) (ArticleType, error) {
	switch t := ArticleType(strings.ToLower(strings.TrimSpace(value))); t {
	case ArticleReview, ArticleGuide, ArticleComparison, ArticleTop:
		return t, nil
	default:
		return "", fmt.Errorf("unknown article type %q (accepted: review, guide, comparatif, top)", value)
	}
}

// ArticleCategory is the site section an article is filed under.
type ArticleCategory string

const (
	CategoryReviews     ArticleCategory = "reviews"
	CategoryGuides      ArticleCategory = "guides"
	CategoryComparisons ArticleCategory = "comparatifs"
	CategoryTops        ArticleCategory = "tops"
)

// Category maps the article type onto its fixed site section.
func (t ArticleType) Category() ArticleCategory {
	switch t {
	case ArticleGuide:
		return CategoryGuides
	case ArticleComparison:
		return CategoryComparisons
	case ArticleTop:
		return CategoryTops
	default:
		return CategoryReviews
	}
}

// Tone steers the writing register of generated articles.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneEnthusiastic Tone = "enthusiastic"
)

// ParseTone returns ToneProfessional for empty or unknown input.
func ParseTone(value string) Tone {
	switch t := Tone(strings.ToLower(strings.TrimSpace(value))); t {
	case ToneCasual, ToneEnthusiastic:
		return t
	default:
		return ToneProfessional
	}
}

// GeneratedArticle is the orchestrator output handed to storage.
type GeneratedArticle struct {
	Title          string          `json:"title"`
	Slug           string          `json:"slug"`
	Excerpt        string          `json:"excerpt"`
	Content        string          `json:"content"`
	SEOTitle       string          `json:"seoTitle"`
	SEODescription string          `json:"seoDescription"`
	Category       ArticleCategory `json:"category"`
	Tags           []string        `json:"tags"`
	// ReadingTime is an estimate in minutes, not a guarantee.
	ReadingTime int `json:"readingTime"`
}

// ArticleStatus enumerates editorial states.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

// Article is a persisted generated article.
type Article struct {
	ID          string        `json:"id"`
	BlogID      string        `json:"blogId"`
	Type        ArticleType   `json:"type"`
	Status      ArticleStatus `json:"status"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty"`
	ProductIDs  []string      `json:"productIds"`
	CreatedAt   time.Time     `json:"createdAt"`

	GeneratedArticle
}

// ParseArticleStatus accepts the wire value of an editorial state.
func ParseArticleStatus(value string) (ArticleStatus, error) {
	switch s := ArticleStatus(strings.ToLower(strings.TrimSpace(value))); s {
	case StatusDraft, StatusPublished:
		return s, nil
	default:
		return "", fmt.Errorf("unknown article status %q (accepted: draft, published)", value)
	}
}

// ArticlePatch lists the editable fields of a stored article. Nil fields
// are left untouched. Publishing without PublishedAt stamps the current
// time unless the article already carries one; moving back to draft
// without PublishedAt clears it.
type ArticlePatch struct {
	Title          *string
	Slug           *string
	Excerpt        *string
	Content        *string
	SEOTitle       *string
	SEODescription *string
	Category       *ArticleCategory
	Tags           *[]string
	Status         *ArticleStatus
	PublishedAt    *time.Time
}

// Empty reports whether the patch changes nothing.
func (p ArticlePatch) Empty() bool {
	return p == ArticlePatch{}
}

// ParseArticleCategory accepts the wire value of a site section.
func ParseArticleCategory(value string) (ArticleCategory, error) {
	switch c := ArticleCategory(strings.ToLower(strings.TrimSpace(value))); c {
	case CategoryReviews, CategoryGuides, CategoryComparisons, CategoryTops:
		return c, nil
	default:
		return "", fmt.Errorf("unknown article category %q (accepted: reviews, guides, comparatifs, tops)", value)
	}
}

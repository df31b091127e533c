package textutil

import (
	"html"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLength  = 60
	wordsPerMinute = 200
)

var (
	nonSlugRun  = regexp.MustCompile(`[^a-z0-9]+`)
	whitespace  = regexp.MustCompile(`[\s\p{Z}]+`)
	stripPolicy = newStripPolicy()
	articlePol  = newArticlePolicy()
)

func newStripPolicy() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}

func newArticlePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h2", "h3", "p", "ul", "ol", "li", "strong", "em", "br",
		"table", "thead", "tbody", "tr", "th", "td", "blockquote")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-z-]+$`)).OnElements("a")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(regexp.MustCompile(`^[a-z ]+$`)).OnElements("a")
	// Affiliate placeholders are relative tokens until the blog renders them.
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https")
	return p
}

// Slugify lowercases, folds diacritics and joins alphanumeric runs with '-'.
// The result is at most 60 characters with no leading or trailing '-'.
func Slugify(text string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(text),
	)
	if err != nil {
		folded = strings.ToLower(text)
	}

	slug := strings.Trim(nonSlugRun.ReplaceAllString(folded, "-"), "-")
	if len(slug) > maxSlugLength {
		slug = strings.Trim(slug[:maxSlugLength], "-")
	}
	return slug
}

// StripHTML drops tags (leaving a space in their place), decodes entities and
// collapses whitespace runs.
func StripHTML(markup string) string {
	text := html.UnescapeString(stripPolicy.Sanitize(markup))
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// ReadingTime estimates minutes of reading at 200 words per minute over the
// tag-stripped text. Non-empty text reads in at least one minute.
func ReadingTime(markup string) int {
	words := len(strings.Fields(StripHTML(markup)))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// SanitizeArticleHTML keeps the article body markup and drops everything
// else, including h1 headings and scripts.
func SanitizeArticleHTML(markup string) string {
	return strings.TrimSpace(articlePol.Sanitize(markup))
}

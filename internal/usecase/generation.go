package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"SeoForge/internal/domain"
	"SeoForge/internal/ports"
	"SeoForge/internal/textutil"
)

const (
	maxNewsTags         = 5
	defaultImageKeyword = "gadget"
	defaultIdeasCount   = 5
	fallbackSlug        = "article"
	maxSlugAttempts     = 50
)

var fencePattern = regexp.MustCompile("```(?:json|JSON)?[ \t]*\n?")

// GeneratorDeps wires the oracles and stores the generator talks to.
// Images and Articles are optional.
type GeneratorDeps struct {
	Text     ports.TextGenerator
	Images   ports.ImageSearcher
	Articles ports.ArticleStore
	Metrics  ports.Metrics
	Logger   *slog.Logger
	Clock    func() time.Time
}

// Generator turns products and news items into publishable content.
type Generator struct {
	text     ports.TextGenerator
	images   ports.ImageSearcher
	articles ports.ArticleStore
	metrics  ports.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewGenerator constructs the generation orchestrator.
func NewGenerator(deps GeneratorDeps) *Generator {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &Generator{
		text:     deps.Text,
		images:   deps.Images,
		articles: deps.Articles,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		now:      now,
	}
}

// ArticleRequest describes one article to write.
type ArticleRequest struct {
	Blog     domain.Blog
	Type     domain.ArticleType
	Subject  string
	Products []domain.Product
	Keywords []string
	Tone     domain.Tone
}

type articleMeta struct {
	Title          string   `json:"title"`
	SEOTitle       string   `json:"seoTitle"`
	SEODescription string   `json:"seoDescription"`
	Excerpt        string   `json:"excerpt"`
	Tags           []string `json:"tags"`
}

type newsPayload struct {
	Skip         bool     `json:"skip"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	ImageKeyword string   `json:"imageKeyword"`
}

// Available reports whether a text oracle is configured.
func (g *Generator) Available() bool {
	return g != nil && g.text != nil
}

// GenerateArticle writes the article body, then asks for its metadata.
// A metadata response that cannot be parsed falls back to defaults derived
// from the subject and type. When an article store is configured the slug is
// made unique for the blog by appending the current unix milliseconds.
func (g *Generator) GenerateArticle(ctx context.Context, req ArticleRequest) (domain.GeneratedArticle, error) {
	if !g.Available() {
		return domain.GeneratedArticle{}, domain.ErrOracleUnavailable
	}

	if _, err := domain.ParseArticleType(string(req.Type)); err != nil {
		return domain.GeneratedArticle{}, err
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" && len(req.Products) > 0 {
		subject = strings.TrimSpace(req.Products[0].Title)
	}
	if subject == "" {
		return domain.GeneratedArticle{}, domain.ErrMissingSubject
	}
	tone := domain.ParseTone(string(req.Tone))

	content, err := g.complete(ctx, "article_content", ports.Prompt{
		System:      articleSystemPrompt(req.Blog, tone, req.Keywords),
		User:        articleUserPrompt(req.Type, subject, req.Products),
		Temperature: contentTemperature,
		MaxTokens:   contentMaxTokens,
	})
	if err != nil {
		return domain.GeneratedArticle{}, fmt.Errorf("generate %s content: %w", req.Type, err)
	}
	content = textutil.SanitizeArticleHTML(content)

	meta := g.articleMeta(ctx, req, subject, content)

	slug := textutil.Slugify(meta.Title)
	if slug == "" {
		slug = textutil.Slugify(subject)
	}
	if slug == "" {
		slug = fallbackSlug
	}
	slug, err = g.UniqueSlug(ctx, req.Blog.ID, slug)
	if err != nil {
		return domain.GeneratedArticle{}, err
	}

	return domain.GeneratedArticle{
		Title:          meta.Title,
		Slug:           slug,
		Excerpt:        meta.Excerpt,
		Content:        content,
		SEOTitle:       meta.SEOTitle,
		SEODescription: meta.SEODescription,
		Category:       req.Type.Category(),
		Tags:           meta.Tags,
		ReadingTime:    textutil.ReadingTime(content),
	}, nil
}

func (g *Generator) articleMeta(ctx context.Context, req ArticleRequest, subject, content string) articleMeta {
	fallback := articleMeta{
		Title:          subject,
		SEOTitle:       subject,
		SEODescription: fmt.Sprintf("Découvrez notre %s sur %s", req.Type, subject),
		Excerpt:        fmt.Sprintf("Notre %s complet sur %s.", req.Type, subject),
		Tags:           []string{},
	}

	raw, err := g.complete(ctx, "article_meta", ports.Prompt{
		System:      metaSystemPrompt,
		User:        metaUserPrompt(req.Blog, req.Type, subject, content),
		Temperature: metaTemperature,
		MaxTokens:   metaMaxTokens,
	})
	if err != nil {
		g.warn("metadata call failed, using defaults", "type", req.Type, "err", err)
		return fallback
	}

	var meta articleMeta
	if err := decodeJSON(raw, '{', '}', &meta); err != nil {
		g.warn("metadata response unparseable, using defaults", "type", req.Type, "err", err)
		return fallback
	}

	meta.Title = orDefault(meta.Title, fallback.Title)
	meta.SEOTitle = orDefault(meta.SEOTitle, fallback.SEOTitle)
	meta.SEODescription = orDefault(meta.SEODescription, fallback.SEODescription)
	meta.Excerpt = orDefault(meta.Excerpt, fallback.Excerpt)
	meta.Tags = cleanTags(meta.Tags)
	return meta
}

// UniqueSlug returns slug when the blog does not use it yet. Otherwise it
// appends a millisecond timestamp, then a counter, until a candidate is free.
func (g *Generator) UniqueSlug(ctx context.Context, blogID, slug string) (string, error) {
	if g.articles == nil {
		return slug, nil
	}

	stamped := fmt.Sprintf("%s-%d", slug, g.now().UnixMilli())
	candidate := slug
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		taken, err := g.articles.ArticleSlugExists(ctx, blogID, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = lo.Ternary(attempt == 1, stamped, fmt.Sprintf("%s-%d", stamped, attempt))
	}
	return "", fmt.Errorf("no free slug for %s after %d attempts: %w", slug, maxSlugAttempts, domain.ErrAlreadyExists)
}

// SummarizeNews rewrites a news item for the blog's audience. It returns
// domain.ErrNotRelevant when the oracle judges the item off-topic.
func (g *Generator) SummarizeNews(ctx context.Context, item domain.ScrapedNewsItem, nicheName string) (domain.GeneratedNewsSummary, error) {
	if !g.Available() {
		return domain.GeneratedNewsSummary{}, domain.ErrOracleUnavailable
	}

	raw, err := g.complete(ctx, "news_summary", ports.Prompt{
		System:      newsSystemPrompt,
		User:        newsUserPrompt(item, nicheName),
		Temperature: newsTemperature,
		MaxTokens:   newsMaxTokens,
	})
	if err != nil {
		return domain.GeneratedNewsSummary{}, fmt.Errorf("summarize news: %w", err)
	}

	if strings.EqualFold(strings.TrimSpace(stripFences(raw)), "null") {
		return domain.GeneratedNewsSummary{}, domain.ErrNotRelevant
	}

	var payload newsPayload
	if err := decodeJSON(raw, '{', '}', &payload); err != nil {
		return domain.GeneratedNewsSummary{}, fmt.Errorf("parse news summary: %w", err)
	}
	if payload.Skip {
		g.debug("news item skipped as not relevant", "url", item.URL)
		return domain.GeneratedNewsSummary{}, domain.ErrNotRelevant
	}

	title := orDefault(payload.Title, item.Title)
	slug := textutil.Slugify(title)
	if slug == "" {
		slug = "actu"
	}

	return domain.GeneratedNewsSummary{
		Title:        title,
		Slug:         slug + "-" + strconv.FormatInt(g.now().UnixMilli(), 36),
		Summary:      orDefault(payload.Summary, item.Snippet),
		Category:     domain.ParseNewsCategory(payload.Category),
		Tags:         leading(cleanTags(payload.Tags), maxNewsTags),
		ImageKeyword: orDefault(payload.ImageKeyword, defaultImageKeyword),
	}, nil
}

// FeaturedImage looks up an illustration for keyword. Lookup problems
// degrade to no image.
func (g *Generator) FeaturedImage(ctx context.Context, keyword string) string {
	if g.images == nil || strings.TrimSpace(keyword) == "" {
		return ""
	}
	url, err := g.images.SearchImage(ctx, keyword)
	if err != nil {
		g.warn("image search failed", "keyword", keyword, "err", err)
		return ""
	}
	return url
}

// ArticleIdeas asks the oracle for article titles suited to the blog.
// An unparseable answer yields an empty list.
func (g *Generator) ArticleIdeas(ctx context.Context, blog domain.Blog, count int) ([]string, error) {
	if !g.Available() {
		return nil, domain.ErrOracleUnavailable
	}
	if count <= 0 {
		count = defaultIdeasCount
	}

	raw, err := g.complete(ctx, "article_ideas", ports.Prompt{
		System:      ideasSystemPrompt,
		User:        ideasUserPrompt(blog, count),
		Temperature: ideasTemperature,
		MaxTokens:   ideasMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate ideas: %w", err)
	}

	var ideas []string
	if err := decodeJSON(raw, '[', ']', &ideas); err != nil {
		g.warn("ideas response unparseable", "blog_id", blog.ID, "err", err)
		return []string{}, nil
	}
	return cleanTags(ideas), nil
}

func (g *Generator) complete(ctx context.Context, kind string, prompt ports.Prompt) (string, error) {
	out, err := g.text.Complete(ctx, prompt)
	if g.metrics != nil {
		g.metrics.ObserveOracleCall(kind, lo.Ternary(err == nil, "ok", "error"))
	}
	return out, err
}

func stripFences(text string) string {
	return fencePattern.ReplaceAllString(text, "")
}

// decodeJSON extracts the outermost open..close span from an oracle reply,
// ignoring markdown code fences and surrounding prose.
func decodeJSON(text string, open, close byte, v any) error {
	text = stripFences(text)
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON %c...%c found", open, close)
	}
	return json.Unmarshal([]byte(text[start:end+1]), v)
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}

func cleanTags(tags []string) []string {
	return lo.Uniq(lo.FilterMap(tags, func(tag string, _ int) (string, bool) {
		tag = strings.TrimSpace(tag)
		return tag, tag != ""
	}))
}

func (g *Generator) debug(msg string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}

func (g *Generator) warn(msg string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Warn(msg, args...)
	}
}

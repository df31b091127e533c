package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"SeoForge/internal/domain"
	"SeoForge/internal/ports"
	"SeoForge/internal/textutil"
)

const (
	workflowScrape   = "scrape"
	workflowArticles = "articles"
	workflowNews     = "news"
	workflowSweep    = "sweep"

	outcomeSucceeded = "succeeded"
	outcomeSkipped   = "skipped"
	outcomeFailed    = "failed"

	reasonAlreadyExists = "already exists"
	reasonNotRelevant   = "not relevant"
	reasonNoProduct     = "could not extract product page"
	reasonInvalidID     = "invalid product id"

	defaultNewsItems  = 10
	comparisonExtras  = 2
	articleSetKeyword = 3
)

// Pacing holds the spacing between consecutive batch items.
type Pacing struct {
	Product   time.Duration
	NewsItem  time.Duration
	SweepItem time.Duration
	Blog      time.Duration
}

// SweepLimits bounds the scheduled news sweep per blog.
type SweepLimits struct {
	MaxResults      int
	MaxItemsPerBlog int
}

// IngestorDeps wires the driven adapters into the batch driver.
type IngestorDeps struct {
	Blogs     ports.BlogStore
	Products  ports.ProductStore
	Articles  ports.ArticleStore
	News      ports.NewsStore
	Scraper   ports.ProductScraper
	Searcher  ports.NewsSearcher
	Generator *Generator
	Metrics   ports.Metrics
	Logger    *slog.Logger
	Pacing    Pacing
	Sweep     SweepLimits
	// ParseProductID normalises a raw id or product URL.
	ParseProductID func(string) (string, bool)
	// NewPacer builds the pacer used for one batch; defaults to NewPacer.
	NewPacer func(time.Duration) ports.Pacer
	Clock    func() time.Time
}

// Ingestor runs every ingestion workflow sequentially, one item at a time,
// isolating failures per item.
type Ingestor struct {
	blogs     ports.BlogStore
	products  ports.ProductStore
	articles  ports.ArticleStore
	news      ports.NewsStore
	scraper   ports.ProductScraper
	searcher  ports.NewsSearcher
	generator *Generator
	dedup     *Dedup
	metrics   ports.Metrics
	logger    *slog.Logger
	pacing    Pacing
	sweep     SweepLimits
	parseID   func(string) (string, bool)
	newPacer  func(time.Duration) ports.Pacer
	now       func() time.Time
}

// NewIngestor constructs the batch driver.
func NewIngestor(deps IngestorDeps) *Ingestor {
	in := &Ingestor{
		blogs:     deps.Blogs,
		products:  deps.Products,
		articles:  deps.Articles,
		news:      deps.News,
		scraper:   deps.Scraper,
		searcher:  deps.Searcher,
		generator: deps.Generator,
		dedup:     NewDedup(deps.Products, deps.News),
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		pacing:    deps.Pacing,
		sweep:     deps.Sweep,
		parseID:   deps.ParseProductID,
		newPacer:  deps.NewPacer,
		now:       deps.Clock,
	}
	if in.parseID == nil {
		in.parseID = func(raw string) (string, bool) {
			id := strings.ToUpper(strings.TrimSpace(raw))
			return id, id != ""
		}
	}
	if in.newPacer == nil {
		in.newPacer = newPacer
	}
	if in.now == nil {
		in.now = time.Now
	}
	if in.sweep.MaxResults <= 0 {
		in.sweep.MaxResults = 15
	}
	if in.sweep.MaxItemsPerBlog <= 0 {
		in.sweep.MaxItemsPerBlog = 5
	}
	return in
}

// WithPacing returns a copy of the driver whose non-zero delays replace the
// configured ones. The copy shares every dependency with the original.
func (in *Ingestor) WithPacing(p Pacing) *Ingestor {
	clone := *in
	if p.Product > 0 {
		clone.pacing.Product = p.Product
	}
	if p.NewsItem > 0 {
		clone.pacing.NewsItem = p.NewsItem
	}
	if p.SweepItem > 0 {
		clone.pacing.SweepItem = p.SweepItem
	}
	if p.Blog > 0 {
		clone.pacing.Blog = p.Blog
	}
	return &clone
}

// ArticleInput is a single article generation request.
type ArticleInput struct {
	BlogID     string
	Type       domain.ArticleType
	Subject    string
	ProductIDs []string
	Keywords   []string
	Tone       domain.Tone
	Publish    bool
}

// NewsInput is one on-demand news generation request.
type NewsInput struct {
	BlogID   string
	MaxItems int
	Keywords []string
}

// BlogSweep is the sweep outcome for one blog. Error is set when the blog
// could not be searched at all.
type BlogSweep struct {
	BlogID   string                      `json:"blogId"`
	BlogName string                      `json:"blogName"`
	Report   *domain.Report[domain.News] `json:"report"`
	Error    string                      `json:"error,omitempty"`
}

// ScrapeProducts scrapes and stores each input (raw id or product URL) for
// the blog. Inputs already stored are skipped without a fetch.
func (in *Ingestor) ScrapeProducts(ctx context.Context, blogID string, inputs []string) (*domain.Report[domain.Product], error) {
	blog, err := in.blogs.Blog(ctx, blogID)
	if err != nil {
		return nil, fmt.Errorf("load blog %s: %w", blogID, err)
	}

	report := domain.NewReport[domain.Product]()
	pacer := in.newPacer(in.pacing.Product)

	for i, input := range inputs {
		if err := pacer.Wait(ctx); err != nil {
			in.abandon(workflowScrape, inputs[i:], err, report.Fail)
			break
		}

		id, ok := in.parseID(input)
		if !ok {
			in.record(workflowScrape, outcomeFailed)
			report.Fail(input, reasonInvalidID)
			continue
		}

		product, outcome, reason := in.scrapeOne(ctx, blog, id)
		in.record(workflowScrape, outcome)
		switch outcome {
		case outcomeSucceeded:
			report.Succeed(id, product)
		case outcomeSkipped:
			report.Skip(id, reason)
		default:
			in.warn("product scrape failed", "blog_id", blog.ID, "asin", id, "reason", reason)
			report.Fail(id, reason)
		}
	}

	in.info("scrape batch finished", "blog_id", blog.ID,
		"succeeded", len(report.Succeeded), "skipped", len(report.Skipped), "failed", len(report.Failed))
	return report, nil
}

func (in *Ingestor) scrapeOne(ctx context.Context, blog domain.Blog, id string) (domain.Product, string, string) {
	seen, err := in.dedup.ProductSeen(ctx, blog.ID, id)
	if err != nil {
		return domain.Product{}, outcomeFailed, err.Error()
	}
	if seen {
		return domain.Product{}, outcomeSkipped, reasonAlreadyExists
	}

	scraped, err := in.scraper.Scrape(ctx, id)
	if err != nil {
		return domain.Product{}, outcomeFailed, err.Error()
	}
	if scraped == nil {
		return domain.Product{}, outcomeFailed, reasonNoProduct
	}

	saved, err := in.products.SaveProduct(ctx, domain.Product{
		BlogID:         blog.ID,
		PartnerID:      domain.PartnerAmazon,
		ScrapedAt:      in.now().UTC(),
		ScrapedProduct: *scraped,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return domain.Product{}, outcomeSkipped, reasonAlreadyExists
	}
	if err != nil {
		return domain.Product{}, outcomeFailed, err.Error()
	}
	return saved, outcomeSucceeded, ""
}

// GenerateArticle writes one article grounded on the blog's products and
// stores it as a draft, or published when requested.
func (in *Ingestor) GenerateArticle(ctx context.Context, input ArticleInput) (domain.Article, error) {
	blog, err := in.blogs.Blog(ctx, input.BlogID)
	if err != nil {
		return domain.Article{}, fmt.Errorf("load blog %s: %w", input.BlogID, err)
	}

	var products []domain.Product
	if len(input.ProductIDs) > 0 {
		products, err = in.products.ProductsByIDs(ctx, blog.ID, input.ProductIDs)
		if err != nil {
			return domain.Article{}, fmt.Errorf("load products: %w", err)
		}
	}

	article, err := in.writeArticle(ctx, ArticleRequest{
		Blog:     blog,
		Type:     input.Type,
		Subject:  input.Subject,
		Products: products,
		Keywords: input.Keywords,
		Tone:     input.Tone,
	}, input.Publish)
	in.record(workflowArticles, lo.Ternary(err == nil, outcomeSucceeded, outcomeFailed))
	return article, err
}

// GenerateArticleSet writes the four article types around a main product:
// review and guide on the main product alone, comparatif with up to two of
// the others, top with all of them. Every type is attempted; the report
// carries partial success.
func (in *Ingestor) GenerateArticleSet(ctx context.Context, blogID, mainProductID string, otherProductIDs []string) (*domain.Report[domain.Article], error) {
	blog, err := in.blogs.Blog(ctx, blogID)
	if err != nil {
		return nil, fmt.Errorf("load blog %s: %w", blogID, err)
	}

	found, err := in.products.ProductsByIDs(ctx, blog.ID, []string{mainProductID})
	if err != nil {
		return nil, fmt.Errorf("load main product: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("main product %s: %w", mainProductID, domain.ErrNotFound)
	}
	mainProduct := found[0]

	var others []domain.Product
	if len(otherProductIDs) > 0 {
		others, err = in.products.ProductsByIDs(ctx, blog.ID, otherProductIDs)
		if err != nil {
			return nil, fmt.Errorf("load other products: %w", err)
		}
		others = lo.Filter(others, func(p domain.Product, _ int) bool { return p.ID != mainProduct.ID })
	}

	plans := map[domain.ArticleType][]domain.Product{
		domain.ArticleReview:     {mainProduct},
		domain.ArticleGuide:      {mainProduct},
		domain.ArticleComparison: append([]domain.Product{mainProduct}, leading(others, comparisonExtras)...),
		domain.ArticleTop:        append([]domain.Product{mainProduct}, others...),
	}

	report := domain.NewReport[domain.Article]()
	for _, typ := range domain.ArticleTypes {
		article, err := in.writeArticle(ctx, ArticleRequest{
			Blog:     blog,
			Type:     typ,
			Subject:  mainProduct.Title,
			Products: plans[typ],
			Keywords: leading(mainProduct.Features, articleSetKeyword),
			Tone:     domain.ToneEnthusiastic,
		}, false)

		switch {
		case err == nil:
			in.record(workflowArticles, outcomeSucceeded)
			report.Succeed(string(typ), article)
		default:
			in.record(workflowArticles, outcomeFailed)
			in.warn("article generation failed", "blog_id", blog.ID, "type", typ, "err", err)
			report.Fail(string(typ), err.Error())
		}
	}
	return report, nil
}

// ArticleIdeas asks the oracle for article subjects suited to the blog.
func (in *Ingestor) ArticleIdeas(ctx context.Context, blogID string, count int) ([]string, error) {
	if !in.generator.Available() {
		return nil, domain.ErrOracleUnavailable
	}
	blog, err := in.blogs.Blog(ctx, blogID)
	if err != nil {
		return nil, fmt.Errorf("load blog %s: %w", blogID, err)
	}
	return in.generator.ArticleIdeas(ctx, blog, count)
}

func (in *Ingestor) writeArticle(ctx context.Context, req ArticleRequest, publish bool) (domain.Article, error) {
	generated, err := in.generator.GenerateArticle(ctx, req)
	if err != nil {
		return domain.Article{}, err
	}

	article := domain.Article{
		BlogID:           req.Blog.ID,
		Type:             req.Type,
		Status:           domain.StatusDraft,
		ProductIDs:       lo.Map(req.Products, func(p domain.Product, _ int) string { return p.ID }),
		GeneratedArticle: generated,
	}
	if publish {
		now := in.now().UTC()
		article.Status = domain.StatusPublished
		article.PublishedAt = &now
	}

	saved, err := in.articles.SaveArticle(ctx, article)
	if errors.Is(err, domain.ErrAlreadyExists) {
		// the slug was taken after the generator checked it
		in.debug("article slug taken at save, retrying", "blog_id", req.Blog.ID, "slug", article.Slug)
		article.Slug, err = in.generator.UniqueSlug(ctx, req.Blog.ID, article.Slug)
		if err == nil {
			saved, err = in.articles.SaveArticle(ctx, article)
		}
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("save %s article: %w", req.Type, err)
	}
	return saved, nil
}

// GenerateNews searches news for the blog's niche, drops items already
// ingested and summarises up to MaxItems of the rest.
func (in *Ingestor) GenerateNews(ctx context.Context, input NewsInput) (*domain.Report[domain.News], error) {
	if !in.generator.Available() {
		return nil, domain.ErrOracleUnavailable
	}
	blog, err := in.blogs.Blog(ctx, input.BlogID)
	if err != nil {
		return nil, fmt.Errorf("load blog %s: %w", input.BlogID, err)
	}

	maxItems := input.MaxItems
	if maxItems <= 0 {
		maxItems = defaultNewsItems
	}

	items, err := in.freshNews(ctx, blog, input.Keywords, maxItems*2, maxItems)
	if err != nil {
		return nil, err
	}
	return in.summarizeAll(ctx, workflowNews, blog, items, in.newPacer(in.pacing.NewsItem)), nil
}

// SweepNews runs the news workflow over every active blog with the sweep
// limits, pausing between blogs. A blog that cannot be searched is reported
// and the sweep moves on.
func (in *Ingestor) SweepNews(ctx context.Context) ([]BlogSweep, error) {
	if !in.generator.Available() {
		return nil, domain.ErrOracleUnavailable
	}
	blogs, err := in.blogs.ActiveBlogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active blogs: %w", err)
	}

	results := make([]BlogSweep, 0, len(blogs))
	blogPacer := in.newPacer(in.pacing.Blog)
	for _, blog := range blogs {
		if err := blogPacer.Wait(ctx); err != nil {
			return results, err
		}

		result := BlogSweep{BlogID: blog.ID, BlogName: blog.Name, Report: domain.NewReport[domain.News]()}
		items, err := in.freshNews(ctx, blog, nil, in.sweep.MaxResults, in.sweep.MaxItemsPerBlog)
		if err != nil {
			in.warn("news sweep failed for blog", "blog_id", blog.ID, "err", err)
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.Report = in.summarizeAll(ctx, workflowSweep, blog, items, in.newPacer(in.pacing.SweepItem))
		results = append(results, result)
	}

	in.info("news sweep finished", "blogs", len(results))
	return results, nil
}

func (in *Ingestor) freshNews(ctx context.Context, blog domain.Blog, keywords []string, maxResults, limit int) ([]domain.ScrapedNewsItem, error) {
	items, err := in.searcher.Search(ctx, blog.Niche, keywords, maxResults)
	if err != nil {
		return nil, fmt.Errorf("search news for %s: %w", blog.Niche, err)
	}
	fresh, err := in.dedup.FreshNews(ctx, blog.ID, items, limit)
	if err != nil {
		return nil, err
	}
	in.debug("news candidates", "blog_id", blog.ID, "found", len(items), "fresh", len(fresh))
	return fresh, nil
}

func (in *Ingestor) summarizeAll(ctx context.Context, workflow string, blog domain.Blog, items []domain.ScrapedNewsItem, pacer ports.Pacer) *domain.Report[domain.News] {
	report := domain.NewReport[domain.News]()
	for i, item := range items {
		if err := pacer.Wait(ctx); err != nil {
			in.abandon(workflow, lo.Map(items[i:], func(it domain.ScrapedNewsItem, _ int) string { return it.URL }), err, report.Fail)
			break
		}

		news, err := in.summarizeOne(ctx, blog, item)
		switch {
		case err == nil:
			in.record(workflow, outcomeSucceeded)
			report.Succeed(item.URL, news)
		case errors.Is(err, domain.ErrNotRelevant):
			in.record(workflow, outcomeSkipped)
			in.info("news item not relevant", "blog_id", blog.ID, "url", item.URL)
			report.Skip(item.URL, reasonNotRelevant)
		case errors.Is(err, domain.ErrAlreadyExists):
			in.record(workflow, outcomeSkipped)
			report.Skip(item.URL, reasonAlreadyExists)
		default:
			in.record(workflow, outcomeFailed)
			in.warn("news item failed", "blog_id", blog.ID, "url", item.URL, "err", err)
			report.Fail(item.URL, err.Error())
		}
	}
	return report
}

func (in *Ingestor) summarizeOne(ctx context.Context, blog domain.Blog, item domain.ScrapedNewsItem) (domain.News, error) {
	summary, err := in.generator.SummarizeNews(ctx, item, blog.Niche)
	if err != nil {
		return domain.News{}, err
	}

	news := domain.News{
		BlogID:               blog.ID,
		SourceTitle:          item.Title,
		SourceURL:            item.URL,
		SourceDomain:         orDefault(textutil.SourceDomain(item.URL), item.Source),
		SourcePublishedAt:    publishedAt(item.PublishedAt),
		FeaturedImage:        in.generator.FeaturedImage(ctx, summary.ImageKeyword),
		IsPublished:          true,
		GeneratedNewsSummary: summary,
	}

	saved, err := in.news.SaveNews(ctx, news)
	if err != nil {
		return domain.News{}, fmt.Errorf("save news: %w", err)
	}
	return saved, nil
}

func publishedAt(raw string) *time.Time {
	t, ok := textutil.ParseFeedDate(raw)
	if !ok {
		return nil
	}
	t = t.UTC()
	return &t
}

// abandon fails every remaining key once the batch context is done.
func (in *Ingestor) abandon(workflow string, keys []string, cause error, fail func(key, reason string)) {
	for _, key := range keys {
		in.record(workflow, outcomeFailed)
		fail(key, cause.Error())
	}
}

func (in *Ingestor) record(workflow, outcome string) {
	if in.metrics != nil {
		in.metrics.ObserveItem(workflow, outcome)
	}
}

func (in *Ingestor) debug(msg string, args ...interface{}) {
	if in.logger != nil {
		in.logger.Debug(msg, args...)
	}
}

func (in *Ingestor) info(msg string, args ...interface{}) {
	if in.logger != nil {
		in.logger.Info(msg, args...)
	}
}

func (in *Ingestor) warn(msg string, args ...interface{}) {
	if in.logger != nil {
		in.logger.Warn(msg, args...)
	}
}

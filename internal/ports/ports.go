package ports

import (
	"context"
	"net/http"
	"time"

	"SeoForge/internal/domain"
)

// PageFetcher retrieves a remote document body.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPDoer is the subset of *http.Client used by outbound adapters.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProductScraper turns a product id into a scraped product. A nil product
// with a nil error means the page did not look like a product page.
type ProductScraper interface {
	Scrape(ctx context.Context, externalID string) (*domain.ScrapedProduct, error)
}

// NewsSearcher collects news candidates for a niche.
type NewsSearcher interface {
	Search(ctx context.Context, niche string, extraKeywords []string, maxResults int) ([]domain.ScrapedNewsItem, error)
}

// Prompt is one request to the text oracle.
type Prompt struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// TextGenerator is the LLM oracle. Implementations return the raw
// completion text; callers decide how to parse it.
type TextGenerator interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// ImageSearcher returns an illustrative image URL for a keyword,
// or "" when nothing suitable is found.
type ImageSearcher interface {
	SearchImage(ctx context.Context, keyword string) (string, error)
}

// BlogStore resolves tenants.
type BlogStore interface {
	Blog(ctx context.Context, id string) (domain.Blog, error)
	ActiveBlogs(ctx context.Context) ([]domain.Blog, error)
}

// ProductStore persists scraped products per blog.
type ProductStore interface {
	ProductExists(ctx context.Context, blogID, externalID string) (bool, error)
	SaveProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	ProductsByIDs(ctx context.Context, blogID string, ids []string) ([]domain.Product, error)
}

// ArticleStore persists generated articles.
type ArticleStore interface {
	ArticleSlugExists(ctx context.Context, blogID, slug string) (bool, error)
	SaveArticle(ctx context.Context, article domain.Article) (domain.Article, error)
}

// NewsStore persists generated news summaries.
type NewsStore interface {
	NewsExists(ctx context.Context, blogID, sourceURL string) (bool, error)
	SaveNews(ctx context.Context, news domain.News) (domain.News, error)
	ListNews(ctx context.Context, blogID string, limit, offset int) ([]domain.News, error)
}

// Pacer enforces the minimum spacing between consecutive batch items.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Metrics receives ingestion counters.
type Metrics interface {
	ObserveItem(workflow, outcome string)
	ObserveOracleCall(kind, status string)
	ObserveScrape(elapsed time.Duration)
}

// Scheduler controls when background sweeps execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

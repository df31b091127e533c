package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SeoForge/internal/domain"
	"SeoForge/internal/ports"
)

type scriptedText struct {
	mu      sync.Mutex
	prompts []ports.Prompt
	respond func(call int, prompt ports.Prompt) (string, error)
}

func (s *scriptedText) Complete(_ context.Context, prompt ports.Prompt) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	call := len(s.prompts)
	s.mu.Unlock()
	return s.respond(call, prompt)
}

func (s *scriptedText) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

// byKind answers with canned replies chosen from the system prompt.
func byKind(content, meta, news string) func(int, ports.Prompt) (string, error) {
	return func(_ int, p ports.Prompt) (string, error) {
		switch p.System {
		case metaSystemPrompt:
			return meta, nil
		case newsSystemPrompt:
			return news, nil
		default:
			return content, nil
		}
	}
}

type memStore struct {
	mu       sync.Mutex
	seq      int
	blogs    []domain.Blog
	products []domain.Product
	articles []domain.Article
	news     []domain.News
}

var (
	_ ports.BlogStore    = (*memStore)(nil)
	_ ports.ProductStore = (*memStore)(nil)
	_ ports.ArticleStore = (*memStore)(nil)
	_ ports.NewsStore    = (*memStore)(nil)
)

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) Blog(_ context.Context, id string) (domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.blogs {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Blog{}, domain.ErrNotFound
}

func (m *memStore) ActiveBlogs(context.Context) ([]domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Blog
	for _, b := range m.blogs {
		if b.IsActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) ProductExists(_ context.Context, blogID, externalID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.BlogID == blogID && p.ExternalID == externalID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SaveProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if exists, _ := m.ProductExists(ctx, product.BlogID, product.ExternalID); exists {
		return domain.Product{}, domain.ErrAlreadyExists
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID == "" {
		product.ID = m.nextID("product")
	}
	m.products = append(m.products, product)
	return product, nil
}

func (m *memStore) ProductsByIDs(_ context.Context, blogID string, ids []string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Product{}
	for _, id := range ids {
		for _, p := range m.products {
			if p.ID == id && p.BlogID == blogID {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (m *memStore) ArticleSlugExists(_ context.Context, blogID, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.articles {
		if a.BlogID == blogID && a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SaveArticle(ctx context.Context, article domain.Article) (domain.Article, error) {
	if exists, _ := m.ArticleSlugExists(ctx, article.BlogID, article.Slug); exists {
		return domain.Article{}, domain.ErrAlreadyExists
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	article.ID = m.nextID("article")
	m.articles = append(m.articles, article)
	return article, nil
}

func (m *memStore) NewsExists(_ context.Context, blogID, sourceURL string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.news {
		if n.BlogID == blogID && n.SourceURL == sourceURL {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SaveNews(ctx context.Context, news domain.News) (domain.News, error) {
	if exists, _ := m.NewsExists(ctx, news.BlogID, news.SourceURL); exists {
		return domain.News{}, domain.ErrAlreadyExists
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	news.ID = m.nextID("news")
	m.news = append(m.news, news)
	return news, nil
}

func (m *memStore) ListNews(_ context.Context, blogID string, limit, offset int) ([]domain.News, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.News
	for _, n := range m.news {
		if n.BlogID == blogID {
			out = append(out, n)
		}
	}
	if offset >= len(out) {
		return []domain.News{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type stubScraper struct {
	products map[string]*domain.ScrapedProduct
	errs     map[string]error
	calls    []string
}

func (s *stubScraper) Scrape(_ context.Context, id string) (*domain.ScrapedProduct, error) {
	s.calls = append(s.calls, id)
	if err := s.errs[id]; err != nil {
		return nil, err
	}
	return s.products[id], nil
}

type stubSearcher struct {
	items    map[string][]domain.ScrapedNewsItem
	errs     map[string]error
	requests []int
}

func (s *stubSearcher) Search(_ context.Context, niche string, _ []string, maxResults int) ([]domain.ScrapedNewsItem, error) {
	s.requests = append(s.requests, maxResults)
	if err := s.errs[niche]; err != nil {
		return nil, err
	}
	return s.items[niche], nil
}

type countingPacer struct {
	waits int
}

func (p *countingPacer) Wait(context.Context) error {
	p.waits++
	return nil
}

type countingMetrics struct {
	mu      sync.Mutex
	items   map[string]int
	oracles map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{items: map[string]int{}, oracles: map[string]int{}}
}

func (c *countingMetrics) ObserveItem(workflow, outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[workflow+"/"+outcome]++
}

func (c *countingMetrics) ObserveOracleCall(kind, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.oracles[kind+"/"+status]++
}

func (c *countingMetrics) ObserveScrape(time.Duration) {}

func fixedClock() time.Time {
	return time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

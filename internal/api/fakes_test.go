package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"SeoForge/internal/domain"
	"SeoForge/internal/ports"
)

const (
	blogA = "11111111-1111-4111-8111-111111111111"
	blogB = "22222222-2222-4222-8222-222222222222"
)

// oracleReply satisfies both the article metadata and news summary decoders.
const oracleReply = `{"title":"Casque X1","seoTitle":"Casque X1","seoDescription":"d","excerpt":"e","summary":"Résumé","category":"produit","tags":["audio"],"imageKeyword":"headphones"}`

type replyText struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (r *replyText) Complete(context.Context, ports.Prompt) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.reply, r.err
}

type memStore struct {
	mu       sync.Mutex
	seq      int
	blogs    []domain.Blog
	products []domain.Product
	articles []domain.Article
	news     []domain.News
	listErr  error
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

func (m *memStore) SaveProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	product.ID = fmt.Sprintf("product-%d", m.seq)
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

func (m *memStore) SaveArticle(_ context.Context, article domain.Article) (domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	article.ID = uuid.NewString()
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

func (m *memStore) SaveNews(_ context.Context, news domain.News) (domain.News, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	news.ID = fmt.Sprintf("news-%d", m.seq)
	m.news = append(m.news, news)
	return news, nil
}

func (m *memStore) ListNews(_ context.Context, blogID string, limit, offset int) ([]domain.News, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []domain.News{}
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
}

func (s *stubScraper) Scrape(_ context.Context, id string) (*domain.ScrapedProduct, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("fetch %s: status 503", id)
}

type stubSearcher struct {
	items []domain.ScrapedNewsItem
}

func (s *stubSearcher) Search(context.Context, string, []string, int) ([]domain.ScrapedNewsItem, error) {
	return s.items, nil
}

func (m *memStore) ListArticles(_ context.Context, blogID string, limit, offset int) ([]domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Article{}
	for i := len(m.articles) - 1; i >= 0; i-- {
		if m.articles[i].BlogID == blogID {
			out = append(out, m.articles[i])
		}
	}
	if offset >= len(out) {
		return []domain.Article{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) article(id string) (int, bool) {
	for i, a := range m.articles {
		if a.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (m *memStore) Article(_ context.Context, id string) (domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.article(id); ok {
		return m.articles[i], nil
	}
	return domain.Article{}, domain.ErrNotFound
}

func (m *memStore) UpdateArticle(_ context.Context, id string, patch domain.ArticlePatch) (domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.article(id)
	if !ok {
		return domain.Article{}, domain.ErrNotFound
	}
	a := m.articles[i]
	if patch.Slug != nil {
		for _, other := range m.articles {
			if other.ID != id && other.BlogID == a.BlogID && other.Slug == *patch.Slug {
				return domain.Article{}, domain.ErrAlreadyExists
			}
		}
		a.Slug = *patch.Slug
	}
	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Content != nil {
		a.Content = *patch.Content
	}
	if patch.Category != nil {
		a.Category = *patch.Category
	}
	if patch.Tags != nil {
		a.Tags = *patch.Tags
	}
	if patch.Status != nil {
		a.Status = *patch.Status
		switch {
		case patch.PublishedAt != nil:
			a.PublishedAt = patch.PublishedAt
		case a.Status == domain.StatusPublished && a.PublishedAt == nil:
			now := time.Now().UTC()
			a.PublishedAt = &now
		case a.Status == domain.StatusDraft:
			a.PublishedAt = nil
		}
	}
	m.articles[i] = a
	return a, nil
}

func (m *memStore) DeleteArticle(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.article(id)
	if !ok {
		return domain.ErrNotFound
	}
	m.articles = append(m.articles[:i], m.articles[i+1:]...)
	return nil
}

func (m *memStore) ListBlogs(context.Context) ([]domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Blog{}, m.blogs...), nil
}

func (m *memStore) CreateBlog(_ context.Context, blog domain.Blog) (domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.blogs {
		if b.Slug == blog.Slug {
			return domain.Blog{}, fmt.Errorf("insert blog: %w", domain.ErrAlreadyExists)
		}
	}
	blog.ID = uuid.NewString()
	m.blogs = append(m.blogs, blog)
	return blog, nil
}

func (m *memStore) UpdateBlog(_ context.Context, id string, patch domain.BlogPatch) (domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.blogs {
		if b.ID != id {
			continue
		}
		if patch.Name != nil {
			b.Name = *patch.Name
		}
		if patch.Niche != nil {
			b.Niche = *patch.Niche
		}
		if patch.IsActive != nil {
			b.IsActive = *patch.IsActive
		}
		m.blogs[i] = b
		return b, nil
	}
	return domain.Blog{}, domain.ErrNotFound
}

func (m *memStore) DeleteBlog(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.blogs {
		if b.ID == id {
			m.blogs = append(m.blogs[:i], m.blogs[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) ListProducts(_ context.Context, blogID string, limit, offset int) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Product{}
	for i := len(m.products) - 1; i >= 0; i-- {
		if m.products[i].BlogID == blogID {
			out = append(out, m.products[i])
		}
	}
	if offset >= len(out) {
		return []domain.Product{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

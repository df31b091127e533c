package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"SeoForge/internal/domain"
	"SeoForge/internal/ports"
	"SeoForge/internal/usecase"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxBatchInputs   = 50
)

// ArticleAdmin reads and edits stored articles.
type ArticleAdmin interface {
	ListArticles(ctx context.Context, blogID string, limit, offset int) ([]domain.Article, error)
	Article(ctx context.Context, id string) (domain.Article, error)
	UpdateArticle(ctx context.Context, id string, patch domain.ArticlePatch) (domain.Article, error)
	DeleteArticle(ctx context.Context, id string) error
}

// BlogAdmin manages tenants.
type BlogAdmin interface {
	ListBlogs(ctx context.Context) ([]domain.Blog, error)
	Blog(ctx context.Context, id string) (domain.Blog, error)
	CreateBlog(ctx context.Context, blog domain.Blog) (domain.Blog, error)
	UpdateBlog(ctx context.Context, id string, patch domain.BlogPatch) (domain.Blog, error)
	DeleteBlog(ctx context.Context, id string) error
}

// ProductLister pages through a blog's stored products.
type ProductLister interface {
	ListProducts(ctx context.Context, blogID string, limit, offset int) ([]domain.Product, error)
}

// Handler serves the batch and admin endpoints.
type Handler struct {
	ingestor   *usecase.Ingestor
	news       ports.NewsStore
	articles   ArticleAdmin
	blogs      BlogAdmin
	products   ProductLister
	cronSecret string
	logger     *slog.Logger
}

type scrapeRequest struct {
	BlogID  string   `json:"blogId"`
	ASINs   []string `json:"asins"`
	DelayMs int      `json:"delayMs"`
}

type articleRequest struct {
	BlogID     string   `json:"blogId"`
	Type       string   `json:"type"`
	Subject    string   `json:"subject"`
	ProductIDs []string `json:"productIds"`
	Keywords   []string `json:"keywords"`
	Tone       string   `json:"tone"`
	Publish    bool     `json:"publish"`
}

type articleSetRequest struct {
	BlogID          string   `json:"blogId"`
	MainProductID   string   `json:"mainProductId"`
	OtherProductIDs []string `json:"otherProductIds"`
}

type ideasRequest struct {
	BlogID string `json:"blogId"`
	Count  int    `json:"count"`
}

type newsRequest struct {
	BlogID   string   `json:"blogId"`
	MaxItems int      `json:"maxItems"`
	Keywords []string `json:"keywords"`
	DelayMs  int      `json:"delayMs"`
}

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ScrapeProducts imports products for a blog.
// POST /api/products/scrape
func (h *Handler) ScrapeProducts(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if !decode(w, r, &req) || !validBlogID(w, req.BlogID) {
		return
	}
	if len(req.ASINs) == 0 {
		writeError(w, http.StatusBadRequest, "asins must not be empty")
		return
	}
	if len(req.ASINs) > maxBatchInputs {
		writeError(w, http.StatusBadRequest, "too many asins in one batch")
		return
	}

	ingestor := h.ingestor
	if req.DelayMs > 0 {
		ingestor = ingestor.WithPacing(usecase.Pacing{Product: millis(req.DelayMs)})
	}

	report, err := ingestor.ScrapeProducts(r.Context(), req.BlogID, req.ASINs)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GenerateArticle writes one article.
// POST /api/articles/generate
func (h *Handler) GenerateArticle(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if !decode(w, r, &req) || !validBlogID(w, req.BlogID) {
		return
	}
	typ, err := domain.ParseArticleType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Subject) == "" && len(req.ProductIDs) == 0 {
		writeError(w, http.StatusBadRequest, domain.ErrMissingSubject.Error())
		return
	}

	article, err := h.ingestor.GenerateArticle(r.Context(), usecase.ArticleInput{
		BlogID:     req.BlogID,
		Type:       typ,
		Subject:    req.Subject,
		ProductIDs: req.ProductIDs,
		Keywords:   req.Keywords,
		Tone:       domain.ParseTone(req.Tone),
		Publish:    req.Publish,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, article)
}

// GenerateArticleSet writes the four article types around a product.
// POST /api/articles/generate-batch
func (h *Handler) GenerateArticleSet(w http.ResponseWriter, r *http.Request) {
	var req articleSetRequest
	if !decode(w, r, &req) || !validBlogID(w, req.BlogID) {
		return
	}
	if strings.TrimSpace(req.MainProductID) == "" {
		writeError(w, http.StatusBadRequest, "mainProductId is required")
		return
	}

	report, err := h.ingestor.GenerateArticleSet(r.Context(), req.BlogID, req.MainProductID, req.OtherProductIDs)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ArticleIdeas suggests article subjects for a blog.
// POST /api/articles/ideas
func (h *Handler) ArticleIdeas(w http.ResponseWriter, r *http.Request) {
	var req ideasRequest
	if !decode(w, r, &req) || !validBlogID(w, req.BlogID) {
		return
	}

	ideas, err := h.ingestor.ArticleIdeas(r.Context(), req.BlogID, req.Count)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"ideas": ideas})
}

// GenerateNews summarises fresh news for one blog.
// POST /api/news/generate
func (h *Handler) GenerateNews(w http.ResponseWriter, r *http.Request) {
	var req newsRequest
	if !decode(w, r, &req) || !validBlogID(w, req.BlogID) {
		return
	}
	if req.MaxItems < 0 || req.MaxItems > maxBatchInputs {
		writeError(w, http.StatusBadRequest, "maxItems out of range")
		return
	}

	ingestor := h.ingestor
	if req.DelayMs > 0 {
		ingestor = ingestor.WithPacing(usecase.Pacing{NewsItem: millis(req.DelayMs)})
	}

	report, err := ingestor.GenerateNews(r.Context(), usecase.NewsInput{
		BlogID:   req.BlogID,
		MaxItems: req.MaxItems,
		Keywords: req.Keywords,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ListNews pages through a blog's stored news.
// GET /api/news?blog_id=&limit=&offset=
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	blogID, limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}

	news, err := h.news.ListNews(r.Context(), blogID, limit, offset)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"news": news, "limit": limit, "offset": offset})
}

// ListArticles pages through a blog's stored articles, newest first.
// GET /api/articles?blog_id=&limit=&offset=
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	if !available(w, h.articles != nil, "articles") {
		return
	}
	blogID, limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}

	articles, err := h.articles.ListArticles(r.Context(), blogID, limit, offset)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": articles, "limit": limit, "offset": offset})
}

// SweepNews runs the news sweep over every active blog.
// GET /api/cron/generate-news
func (h *Handler) SweepNews(w http.ResponseWriter, r *http.Request) {
	results, err := h.ingestor.SweepNews(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blogs": results})
}

func (h *Handler) requireCronSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.cronSecret != "" {
			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || subtle.ConstantTimeCompare([]byte(token), []byte(h.cronSecret)) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && h.logger != nil {
		h.logger.Error("request failed", "err", err)
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMissingSubject), errors.Is(err, domain.ErrInvalidProductID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOracleUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func available(w http.ResponseWriter, ok bool, what string) bool {
	if !ok {
		writeError(w, http.StatusNotFound, what+" are not available")
	}
	return ok
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func validBlogID(w http.ResponseWriter, id string) bool {
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "blog id must be a UUID")
		return false
	}
	return true
}

func pageParams(w http.ResponseWriter, r *http.Request) (string, int, int, bool) {
	query := r.URL.Query()
	blogID := query.Get("blog_id")
	if !validBlogID(w, blogID) {
		return "", 0, 0, false
	}
	limit, ok := intParam(w, query.Get("limit"), defaultListLimit)
	if !ok {
		return "", 0, 0, false
	}
	offset, ok := intParam(w, query.Get("offset"), 0)
	if !ok {
		return "", 0, 0, false
	}
	return blogID, min(max(limit, 1), maxListLimit), offset, true
}

func intParam(w http.ResponseWriter, raw string, fallback int) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, "invalid integer parameter "+strconv.Quote(raw))
		return 0, false
	}
	return n, true
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"SeoForge/internal/domain"
	"SeoForge/internal/textutil"
)

type blogRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Niche    string `json:"niche"`
	IsActive *bool  `json:"isActive"`
}

type blogPatchRequest struct {
	Name     *string `json:"name"`
	Niche    *string `json:"niche"`
	IsActive *bool   `json:"isActive"`
}

type articlePatchRequest struct {
	Title          *string    `json:"title"`
	Slug           *string    `json:"slug"`
	Excerpt        *string    `json:"excerpt"`
	Content        *string    `json:"content"`
	SEOTitle       *string    `json:"seoTitle"`
	SEODescription *string    `json:"seoDescription"`
	Category       *string    `json:"category"`
	Tags           *[]string  `json:"tags"`
	Status         *string    `json:"status"`
	PublishedAt    *time.Time `json:"publishedAt"`
}

// ListBlogs returns every tenant, newest first.
// GET /api/blogs
func (h *Handler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	if !available(w, h.blogs != nil, "blogs") {
		return
	}
	blogs, err := h.blogs.ListBlogs(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blogs": blogs})
}

// CreateBlog registers a tenant. The slug defaults to the slugified name.
// POST /api/blogs
func (h *Handler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	if !available(w, h.blogs != nil, "blogs") {
		return
	}
	var req blogRequest
	if !decode(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	niche := strings.TrimSpace(req.Niche)
	slug := textutil.Slugify(strings.TrimSpace(req.Slug))
	if slug == "" {
		slug = textutil.Slugify(name)
	}
	if name == "" || niche == "" || slug == "" {
		writeError(w, http.StatusBadRequest, "name, slug and niche are required")
		return
	}

	blog, err := h.blogs.CreateBlog(r.Context(), domain.Blog{
		Name:     name,
		Slug:     slug,
		Niche:    niche,
		IsActive: req.IsActive == nil || *req.IsActive,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, blog)
}

// GetBlog returns one tenant.
// GET /api/blogs/{id}
func (h *Handler) GetBlog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !available(w, h.blogs != nil, "blogs") || !validBlogID(w, id) {
		return
	}
	blog, err := h.blogs.Blog(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// UpdateBlog renames a tenant, changes its niche or toggles its sweep.
// PATCH /api/blogs/{id}
func (h *Handler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !available(w, h.blogs != nil, "blogs") || !validBlogID(w, id) {
		return
	}
	var req blogPatchRequest
	if !decode(w, r, &req) {
		return
	}
	if blank(req.Name) || blank(req.Niche) {
		writeError(w, http.StatusBadRequest, "name and niche must not be empty")
		return
	}

	blog, err := h.blogs.UpdateBlog(r.Context(), id, domain.BlogPatch{
		Name:     trimmed(req.Name),
		Niche:    trimmed(req.Niche),
		IsActive: req.IsActive,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// DeleteBlog removes a tenant with its products, articles and news.
// DELETE /api/blogs/{id}
func (h *Handler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !available(w, h.blogs != nil, "blogs") || !validBlogID(w, id) {
		return
	}
	if err := h.blogs.DeleteBlog(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListProducts pages through a blog's stored products, newest first.
// GET /api/products?blog_id=&limit=&offset=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if !available(w, h.products != nil, "products") {
		return
	}
	blogID, limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}

	products, err := h.products.ListProducts(r.Context(), blogID, limit, offset)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products, "limit": limit, "offset": offset})
}

// GetArticle returns one stored article.
// GET /api/articles/{id}
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !available(w, h.articles != nil, "articles") || !validArticleID(w, id) {
		return
	}
	article, err := h.articles.Article(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// UpdateArticle edits a stored article. Setting status to published
// stamps publishedAt unless the body carries one.
// PATCH /api/articles/{id}
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !available(w, h.articles != nil, "articles") || !validArticleID(w, id) {
		return
	}
	var req articlePatchRequest
	if !decode(w, r, &req) {
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.articles.UpdateArticle(r.Context(), id, patch)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// DeleteArticle removes a stored article.
// DELETE /api/articles/{id}
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !available(w, h.articles != nil, "articles") || !validArticleID(w, id) {
		return
	}
	if err := h.articles.DeleteArticle(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (req articlePatchRequest) toPatch() (domain.ArticlePatch, error) {
	if blank(req.Title) || blank(req.Content) {
		return domain.ArticlePatch{}, errors.New("title and content must not be empty")
	}

	patch := domain.ArticlePatch{
		Title:          trimmed(req.Title),
		Excerpt:        req.Excerpt,
		SEOTitle:       req.SEOTitle,
		SEODescription: req.SEODescription,
		Tags:           req.Tags,
		PublishedAt:    req.PublishedAt,
	}
	if req.Content != nil {
		content := textutil.SanitizeArticleHTML(*req.Content)
		patch.Content = &content
	}
	if req.Slug != nil {
		slug := textutil.Slugify(*req.Slug)
		if slug == "" {
			return domain.ArticlePatch{}, errors.New("slug must contain letters or digits")
		}
		patch.Slug = &slug
	}
	if req.Category != nil {
		category, err := domain.ParseArticleCategory(*req.Category)
		if err != nil {
			return domain.ArticlePatch{}, err
		}
		patch.Category = &category
	}
	if req.Status != nil {
		status, err := domain.ParseArticleStatus(*req.Status)
		if err != nil {
			return domain.ArticlePatch{}, err
		}
		patch.Status = &status
	}
	return patch, nil
}

func validArticleID(w http.ResponseWriter, id string) bool {
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "article id must be a UUID")
		return false
	}
	return true
}

func blank(v *string) bool {
	return v != nil && strings.TrimSpace(*v) == ""
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}

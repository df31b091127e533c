package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"SeoForge/internal/domain"
)

var articleColumns = []string{
	"id", "blog_id", "type", "title", "slug", "excerpt", "content", "seo_title", "seo_description",
	"category", "tags", "reading_time", "status", "published_at", "product_ids", "created_at",
}

type articleRow struct {
	ID             string         `db:"id"`
	BlogID         string         `db:"blog_id"`
	Type           string         `db:"type"`
	Title          string         `db:"title"`
	Slug           string         `db:"slug"`
	Excerpt        string         `db:"excerpt"`
	Content        string         `db:"content"`
	SEOTitle       string         `db:"seo_title"`
	SEODescription string         `db:"seo_description"`
	Category       string         `db:"category"`
	Tags           pq.StringArray `db:"tags"`
	ReadingTime    int            `db:"reading_time"`
	Status         string         `db:"status"`
	PublishedAt    *time.Time     `db:"published_at"`
	ProductIDs     pq.StringArray `db:"product_ids"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (a articleRow) toDomain() domain.Article {
	return domain.Article{
		ID:          a.ID,
		BlogID:      a.BlogID,
		Type:        domain.ArticleType(a.Type),
		Status:      domain.ArticleStatus(a.Status),
		PublishedAt: a.PublishedAt,
		ProductIDs:  []string(a.ProductIDs),
		CreatedAt:   a.CreatedAt,
		GeneratedArticle: domain.GeneratedArticle{
			Title:          a.Title,
			Slug:           a.Slug,
			Excerpt:        a.Excerpt,
			Content:        a.Content,
			SEOTitle:       a.SEOTitle,
			SEODescription: a.SEODescription,
			Category:       domain.ArticleCategory(a.Category),
			Tags:           []string(a.Tags),
			ReadingTime:    a.ReadingTime,
		},
	}
}

// ArticleSlugExists reports whether the tenant already has an article with slug.
func (r *PostgresRepository) ArticleSlugExists(ctx context.Context, blogID, slug string) (bool, error) {
	return r.exists(ctx, psql.Select("1").From("articles").Where(sq.Eq{"blog_id": blogID, "slug": slug}))
}

// SaveArticle inserts a generated article; a slug clash yields domain.ErrAlreadyExists.
func (r *PostgresRepository) SaveArticle(ctx context.Context, article domain.Article) (domain.Article, error) {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.Status == "" {
		article.Status = domain.StatusDraft
	}

	stmt, args, err := psql.Insert("articles").
		Columns(articleColumns[:len(articleColumns)-1]...).
		Values(article.ID, article.BlogID, string(article.Type), article.Title, article.Slug, article.Excerpt,
			article.Content, article.SEOTitle, article.SEODescription, string(article.Category),
			pq.StringArray(lo.Ternary(article.Tags == nil, []string{}, article.Tags)), article.ReadingTime,
			string(article.Status), article.PublishedAt,
			pq.StringArray(lo.Ternary(article.ProductIDs == nil, []string{}, article.ProductIDs))).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build article insert: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, stmt, args...).Scan(&article.CreatedAt); err != nil {
		return domain.Article{}, mapError(err)
	}
	return article, nil
}

// ListArticles pages through a tenant's articles, newest first.
func (r *PostgresRepository) ListArticles(ctx context.Context, blogID string, limit, offset int) ([]domain.Article, error) {
	stmt, args, err := psql.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"blog_id": blogID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build articles query: %w", err)
	}

	var rows []articleRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("select articles: %w", err)
	}
	return lo.Map(rows, func(row articleRow, _ int) domain.Article { return row.toDomain() }), nil
}

// Article loads one stored article by id.
func (r *PostgresRepository) Article(ctx context.Context, id string) (domain.Article, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Article{}, domain.ErrNotFound
	}

	stmt, args, err := psql.Select(articleColumns...).From("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build article query: %w", err)
	}

	var row articleRow
	if err := r.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return domain.Article{}, mapError(err)
	}
	return row.toDomain(), nil
}

// UpdateArticle applies patch and returns the stored article. A slug already
// used by the blog yields domain.ErrAlreadyExists.
func (r *PostgresRepository) UpdateArticle(ctx context.Context, id string, patch domain.ArticlePatch) (domain.Article, error) {
	if patch.Empty() {
		return r.Article(ctx, id)
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.Article{}, domain.ErrNotFound
	}

	stmt, args, err := articleUpdate(id, patch).ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build article update: %w", err)
	}

	var row articleRow
	if err := r.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return domain.Article{}, mapError(err)
	}
	return row.toDomain(), nil
}

func articleUpdate(id string, patch domain.ArticlePatch) sq.UpdateBuilder {
	update := psql.Update("articles").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(articleColumns, ", "))

	update = setIf(update, "title", patch.Title)
	update = setIf(update, "slug", patch.Slug)
	update = setIf(update, "excerpt", patch.Excerpt)
	update = setIf(update, "content", patch.Content)
	update = setIf(update, "seo_title", patch.SEOTitle)
	update = setIf(update, "seo_description", patch.SEODescription)
	if patch.Category != nil {
		update = update.Set("category", string(*patch.Category))
	}
	if patch.Tags != nil {
		update = update.Set("tags", pq.StringArray(lo.Ternary(*patch.Tags == nil, []string{}, *patch.Tags)))
	}
	if patch.Status != nil {
		update = update.Set("status", string(*patch.Status))
	}

	switch {
	case patch.PublishedAt != nil:
		update = update.Set("published_at", patch.PublishedAt.UTC())
	case patch.Status != nil && *patch.Status == domain.StatusPublished:
		update = update.Set("published_at", sq.Expr("COALESCE(published_at, NOW())"))
	case patch.Status != nil && *patch.Status == domain.StatusDraft:
		update = update.Set("published_at", nil)
	}
	return update
}

// DeleteArticle removes one article.
func (r *PostgresRepository) DeleteArticle(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "articles", id)
}

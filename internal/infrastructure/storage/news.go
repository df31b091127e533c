package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"SeoForge/internal/domain"
)

var newsColumns = []string{
	"id", "blog_id", "title", "slug", "summary", "source_title", "source_url", "source_domain",
	"source_published_at", "category", "tags", "image_keyword", "featured_image", "is_published", "created_at",
}

type newsRow struct {
	ID                string         `db:"id"`
	BlogID            string         `db:"blog_id"`
	Title             string         `db:"title"`
	Slug              string         `db:"slug"`
	Summary           string         `db:"summary"`
	SourceTitle       string         `db:"source_title"`
	SourceURL         string         `db:"source_url"`
	SourceDomain      string         `db:"source_domain"`
	SourcePublishedAt *time.Time     `db:"source_published_at"`
	Category          string         `db:"category"`
	Tags              pq.StringArray `db:"tags"`
	ImageKeyword      string         `db:"image_keyword"`
	FeaturedImage     *string        `db:"featured_image"`
	IsPublished       bool           `db:"is_published"`
	CreatedAt         time.Time      `db:"created_at"`
}

func (n newsRow) toDomain() domain.News {
	return domain.News{
		ID:                n.ID,
		BlogID:            n.BlogID,
		SourceTitle:       n.SourceTitle,
		SourceURL:         n.SourceURL,
		SourceDomain:      n.SourceDomain,
		SourcePublishedAt: n.SourcePublishedAt,
		FeaturedImage:     lo.FromPtr(n.FeaturedImage),
		IsPublished:       n.IsPublished,
		CreatedAt:         n.CreatedAt,
		GeneratedNewsSummary: domain.GeneratedNewsSummary{
			Title:        n.Title,
			Slug:         n.Slug,
			Summary:      n.Summary,
			Category:     domain.NewsCategory(n.Category),
			Tags:         []string(n.Tags),
			ImageKeyword: n.ImageKeyword,
		},
	}
}

// NewsExists reports whether the tenant already summarised this source URL.
func (r *PostgresRepository) NewsExists(ctx context.Context, blogID, sourceURL string) (bool, error) {
	return r.exists(ctx, psql.Select("1").From("news").Where(sq.Eq{"blog_id": blogID, "source_url": sourceURL}))
}

// SaveNews inserts a news summary. A repeated source URL or slug for the
// same tenant yields domain.ErrAlreadyExists.
func (r *PostgresRepository) SaveNews(ctx context.Context, news domain.News) (domain.News, error) {
	if news.ID == "" {
		news.ID = uuid.NewString()
	}

	stmt, args, err := psql.Insert("news").
		Columns(newsColumns[:len(newsColumns)-1]...).
		Values(news.ID, news.BlogID, news.Title, news.Slug, news.Summary, news.SourceTitle, news.SourceURL,
			news.SourceDomain, news.SourcePublishedAt, string(news.Category),
			pq.StringArray(lo.Ternary(news.Tags == nil, []string{}, news.Tags)), news.ImageKeyword,
			lo.EmptyableToPtr(news.FeaturedImage), news.IsPublished).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return domain.News{}, fmt.Errorf("build news insert: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, stmt, args...).Scan(&news.CreatedAt); err != nil {
		return domain.News{}, mapError(err)
	}
	return news, nil
}

// ListNews pages through a tenant's news, most recent source first.
func (r *PostgresRepository) ListNews(ctx context.Context, blogID string, limit, offset int) ([]domain.News, error) {
	stmt, args, err := psql.Select(newsColumns...).
		From("news").
		Where(sq.Eq{"blog_id": blogID}).
		OrderBy("source_published_at DESC NULLS LAST", "created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build news query: %w", err)
	}

	var rows []newsRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("select news: %w", err)
	}
	return lo.Map(rows, func(row newsRow, _ int) domain.News { return row.toDomain() }), nil
}

package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"SeoForge/internal/domain"
)

var blogColumns = []string{"id", "name", "slug", "niche", "is_active", "created_at"}

type blogRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	Niche     string    `db:"niche"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

func (b blogRow) toDomain() domain.Blog {
	return domain.Blog(b)
}

// Blog loads one tenant by id.
func (r *PostgresRepository) Blog(ctx context.Context, id string) (domain.Blog, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Blog{}, domain.ErrNotFound
	}

	stmt, args, err := psql.Select(blogColumns...).From("blogs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Blog{}, fmt.Errorf("build blog query: %w", err)
	}

	var row blogRow
	if err := r.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return domain.Blog{}, mapError(err)
	}
	return row.toDomain(), nil
}

// ActiveBlogs lists tenants with sweeping enabled, oldest first.
func (r *PostgresRepository) ActiveBlogs(ctx context.Context) ([]domain.Blog, error) {
	stmt, args, err := psql.Select(blogColumns...).
		From("blogs").
		Where(sq.Eq{"is_active": true}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active blogs query: %w", err)
	}

	var rows []blogRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("select active blogs: %w", err)
	}
	return lo.Map(rows, func(row blogRow, _ int) domain.Blog { return row.toDomain() }), nil
}

// CreateBlog inserts a tenant; a duplicate slug yields domain.ErrAlreadyExists.
func (r *PostgresRepository) CreateBlog(ctx context.Context, blog domain.Blog) (domain.Blog, error) {
	if blog.ID == "" {
		blog.ID = uuid.NewString()
	}

	stmt, args, err := psql.Insert("blogs").
		Columns("id", "name", "slug", "niche", "is_active").
		Values(blog.ID, blog.Name, blog.Slug, blog.Niche, blog.IsActive).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return domain.Blog{}, fmt.Errorf("build blog insert: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, stmt, args...).Scan(&blog.CreatedAt); err != nil {
		return domain.Blog{}, mapError(err)
	}
	return blog, nil
}

// ListBlogs lists every tenant, active or not, newest first.
func (r *PostgresRepository) ListBlogs(ctx context.Context) ([]domain.Blog, error) {
	stmt, args, err := psql.Select(blogColumns...).From("blogs").OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build blogs query: %w", err)
	}

	rows := []blogRow{}
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("select blogs: %w", err)
	}
	return lo.Map(rows, func(row blogRow, _ int) domain.Blog { return row.toDomain() }), nil
}

// UpdateBlog applies patch and returns the stored tenant.
func (r *PostgresRepository) UpdateBlog(ctx context.Context, id string, patch domain.BlogPatch) (domain.Blog, error) {
	if patch.Empty() {
		return r.Blog(ctx, id)
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.Blog{}, domain.ErrNotFound
	}

	update := psql.Update("blogs").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(blogColumns, ", "))
	update = setIf(update, "name", patch.Name)
	update = setIf(update, "niche", patch.Niche)
	update = setIf(update, "is_active", patch.IsActive)

	stmt, args, err := update.ToSql()
	if err != nil {
		return domain.Blog{}, fmt.Errorf("build blog update: %w", err)
	}

	var row blogRow
	if err := r.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return domain.Blog{}, mapError(err)
	}
	return row.toDomain(), nil
}

// DeleteBlog removes a tenant. Its products, articles and news go with it.
func (r *PostgresRepository) DeleteBlog(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "blogs", id)
}

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

var productColumns = []string{
	"id", "blog_id", "partner_id", "product_id", "title", "price", "currency", "images",
	"rating", "review_count", "features", "description", "availability", "scraped_at", "created_at",
}

type productRow struct {
	ID           string         `db:"id"`
	BlogID       string         `db:"blog_id"`
	PartnerID    string         `db:"partner_id"`
	ProductID    string         `db:"product_id"`
	Title        string         `db:"title"`
	Price        *float64       `db:"price"`
	Currency     string         `db:"currency"`
	Images       pq.StringArray `db:"images"`
	Rating       *float64       `db:"rating"`
	ReviewCount  *int           `db:"review_count"`
	Features     pq.StringArray `db:"features"`
	Description  string         `db:"description"`
	Availability string         `db:"availability"`
	ScrapedAt    time.Time      `db:"scraped_at"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (p productRow) toDomain() domain.Product {
	return domain.Product{
		ID:        p.ID,
		BlogID:    p.BlogID,
		PartnerID: p.PartnerID,
		ScrapedAt: p.ScrapedAt,
		CreatedAt: p.CreatedAt,
		ScrapedProduct: domain.ScrapedProduct{
			ExternalID:   p.ProductID,
			Title:        p.Title,
			Price:        p.Price,
			Currency:     p.Currency,
			Images:       []string(p.Images),
			Rating:       p.Rating,
			ReviewCount:  p.ReviewCount,
			Features:     []string(p.Features),
			Description:  p.Description,
			Availability: p.Availability,
		},
	}
}

// ProductExists reports whether the tenant already stores this external id.
func (r *PostgresRepository) ProductExists(ctx context.Context, blogID, externalID string) (bool, error) {
	return r.exists(ctx, psql.Select("1").From("products").Where(sq.Eq{"blog_id": blogID, "product_id": externalID}))
}

// SaveProduct inserts a scraped product. A duplicate (blog, external id)
// pair yields domain.ErrAlreadyExists.
func (r *PostgresRepository) SaveProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.PartnerID == "" {
		product.PartnerID = domain.PartnerAmazon
	}
	if product.ScrapedAt.IsZero() {
		product.ScrapedAt = time.Now().UTC()
	}

	stmt, args, err := psql.Insert("products").
		Columns("id", "blog_id", "partner_id", "product_id", "title", "price", "currency", "images",
			"rating", "review_count", "features", "description", "availability", "scraped_at").
		Values(product.ID, product.BlogID, product.PartnerID, product.ExternalID, product.Title, product.Price,
			product.Currency, pq.StringArray(lo.Ternary(product.Images == nil, []string{}, product.Images)),
			product.Rating, product.ReviewCount,
			pq.StringArray(lo.Ternary(product.Features == nil, []string{}, product.Features)),
			product.Description, product.Availability, product.ScrapedAt).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return domain.Product{}, fmt.Errorf("build product insert: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, stmt, args...).Scan(&product.CreatedAt); err != nil {
		return domain.Product{}, mapError(err)
	}
	return product, nil
}

// ProductsByIDs loads the tenant's products with the given record ids,
// preserving the order of ids. Unknown ids are skipped.
func (r *PostgresRepository) ProductsByIDs(ctx context.Context, blogID string, ids []string) ([]domain.Product, error) {
	ids = lo.Uniq(lo.FilterMap(ids, func(id string, _ int) (string, bool) {
		parsed, err := uuid.Parse(id)
		return parsed.String(), err == nil
	}))
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	stmt, args, err := psql.Select(productColumns...).
		From("products").
		Where(sq.Eq{"blog_id": blogID}).
		Where("id = ANY(?::uuid[])", pq.StringArray(ids)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build products query: %w", err)
	}

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	byID := lo.KeyBy(rows, func(row productRow) string { return row.ID })
	return lo.FilterMap(ids, func(id string, _ int) (domain.Product, bool) {
		row, ok := byID[id]
		if !ok {
			return domain.Product{}, false
		}
		return row.toDomain(), true
	}), nil
}

// ListProducts pages through a tenant's products, newest first.
func (r *PostgresRepository) ListProducts(ctx context.Context, blogID string, limit, offset int) ([]domain.Product, error) {
	stmt, args, err := psql.Select(productColumns...).
		From("products").
		Where(sq.Eq{"blog_id": blogID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build products list query: %w", err)
	}

	rows := []productRow{}
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	return lo.Map(rows, func(row productRow, _ int) domain.Product { return row.toDomain() }), nil
}

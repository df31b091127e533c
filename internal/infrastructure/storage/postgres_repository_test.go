package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"SeoForge/internal/domain"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	if !errors.Is(mapError(sql.ErrNoRows), domain.ErrNotFound) {
		t.Fatal("sql.ErrNoRows should map to ErrNotFound")
	}

	dup := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Message: "duplicate key"})
	if !errors.Is(mapError(dup), domain.ErrAlreadyExists) {
		t.Fatal("unique violation should map to ErrAlreadyExists")
	}

	other := &pq.Error{Code: "23503"}
	if errors.Is(mapError(other), domain.ErrAlreadyExists) {
		t.Fatal("foreign key violation is not a duplicate")
	}
	if mapError(nil) != nil {
		t.Fatal("nil should stay nil")
	}
}

func TestExistsQueryShape(t *testing.T) {
	t.Parallel()

	query := psql.Select("1").From("news").Where(sq.Eq{"blog_id": "b", "source_url": "u"})
	stmt, args, err := query.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	want := "SELECT EXISTS ( SELECT 1 FROM news WHERE blog_id = $1 AND source_url = $2 )"
	if stmt != want {
		t.Fatalf("unexpected sql:\n got %s\nwant %s", stmt, want)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args %v", args)
	}
}

// openTestRepository connects to TEST_DATABASE_URL, applies migrations and
// skips the test when no database is reachable.
func openTestRepository(t *testing.T) *PostgresRepository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Open(ctx, dsn)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := RunMigrations(dsn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return NewPostgresRepository(db)
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := openTestRepository(t)
	ctx := context.Background()

	blog, err := repo.CreateBlog(ctx, domain.Blog{
		Name:     "Test",
		Slug:     "test-" + strings.ToLower(uuid.NewString()[:8]),
		Niche:    "audio",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateBlog: %v", err)
	}

	price := 19.99
	saved, err := repo.SaveProduct(ctx, domain.Product{
		BlogID:         blog.ID,
		ScrapedProduct: domain.ScrapedProduct{ExternalID: "B084TSLMC6", Title: "Casque", Price: &price, Currency: "EUR"},
	})
	if err != nil {
		t.Fatalf("SaveProduct: %v", err)
	}

	exists, err := repo.ProductExists(ctx, blog.ID, "B084TSLMC6")
	if err != nil || !exists {
		t.Fatalf("ProductExists = %v, %v", exists, err)
	}

	_, err = repo.SaveProduct(ctx, domain.Product{
		BlogID:         blog.ID,
		ScrapedProduct: domain.ScrapedProduct{ExternalID: "B084TSLMC6", Title: "Casque", Currency: "EUR"},
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	products, err := repo.ProductsByIDs(ctx, blog.ID, []string{saved.ID, uuid.NewString(), "not-a-uuid"})
	if err != nil {
		t.Fatalf("ProductsByIDs: %v", err)
	}
	if len(products) != 1 || products[0].Price == nil || *products[0].Price != price {
		t.Fatalf("unexpected products %+v", products)
	}

	news := domain.News{
		BlogID:               blog.ID,
		SourceTitle:          "Source",
		SourceURL:            "https://news.test/a",
		GeneratedNewsSummary: domain.GeneratedNewsSummary{Title: "T", Slug: "t-1", Summary: "S", Category: domain.NewsTech},
		IsPublished:          true,
	}
	if _, err := repo.SaveNews(ctx, news); err != nil {
		t.Fatalf("SaveNews: %v", err)
	}
	news.Slug = "t-2"
	if _, err := repo.SaveNews(ctx, news); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected duplicate source url to conflict, got %v", err)
	}

	listed, err := repo.ListNews(ctx, blog.ID, 20, 0)
	if err != nil || len(listed) != 1 {
		t.Fatalf("ListNews = %d, %v", len(listed), err)
	}
}

func TestArticleUpdatePublishStampsOnce(t *testing.T) {
	t.Parallel()

	published := domain.StatusPublished
	title := "Nouveau titre"
	stmt, args, err := articleUpdate("id-1", domain.ArticlePatch{Title: &title, Status: &published}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	wantPrefix := "UPDATE articles SET title = $1, status = $2, published_at = COALESCE(published_at, NOW()) WHERE id = $3 RETURNING id,"
	if !strings.HasPrefix(stmt, wantPrefix) {
		t.Fatalf("unexpected sql:\n got %s\nwant prefix %s", stmt, wantPrefix)
	}
	if len(args) != 3 || args[0] != title || args[1] != "published" || args[2] != "id-1" {
		t.Fatalf("unexpected args %v", args)
	}

	draft := domain.StatusDraft
	stmt, _, err = articleUpdate("id-1", domain.ArticlePatch{Status: &draft}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(stmt, "published_at = $2") {
		t.Fatalf("draft must clear published_at:\n%s", stmt)
	}
}

func TestRepositoryAdminOperations(t *testing.T) {
	repo := openTestRepository(t)
	ctx := context.Background()

	blog, err := repo.CreateBlog(ctx, domain.Blog{
		Name:  "Admin",
		Slug:  "admin-" + strings.ToLower(uuid.NewString()[:8]),
		Niche: "audio",
	})
	if err != nil {
		t.Fatalf("CreateBlog: %v", err)
	}

	active := true
	name := "Admin renamed"
	updated, err := repo.UpdateBlog(ctx, blog.ID, domain.BlogPatch{Name: &name, IsActive: &active})
	if err != nil {
		t.Fatalf("UpdateBlog: %v", err)
	}
	if updated.Name != name || !updated.IsActive || updated.Slug != blog.Slug {
		t.Fatalf("unexpected blog %+v", updated)
	}

	blogs, err := repo.ListBlogs(ctx)
	if err != nil {
		t.Fatalf("ListBlogs: %v", err)
	}
	if _, found := lo.Find(blogs, func(b domain.Blog) bool { return b.ID == blog.ID }); !found {
		t.Fatalf("blog %s missing from ListBlogs", blog.ID)
	}

	if _, err := repo.SaveProduct(ctx, domain.Product{
		BlogID:         blog.ID,
		ScrapedProduct: domain.ScrapedProduct{ExternalID: "B000000001", Title: "Casque", Currency: "EUR"},
	}); err != nil {
		t.Fatalf("SaveProduct: %v", err)
	}
	products, err := repo.ListProducts(ctx, blog.ID, 10, 0)
	if err != nil || len(products) != 1 || products[0].ExternalID != "B000000001" {
		t.Fatalf("ListProducts = %+v, %v", products, err)
	}

	article, err := repo.SaveArticle(ctx, domain.Article{
		BlogID:           blog.ID,
		Type:             domain.ArticleGuide,
		GeneratedArticle: domain.GeneratedArticle{Title: "Guide", Slug: "guide", Content: "<p>x</p>", Category: domain.CategoryGuides},
	})
	if err != nil {
		t.Fatalf("SaveArticle: %v", err)
	}

	published := domain.StatusPublished
	got, err := repo.UpdateArticle(ctx, article.ID, domain.ArticlePatch{Status: &published})
	if err != nil {
		t.Fatalf("UpdateArticle: %v", err)
	}
	if got.Status != domain.StatusPublished || got.PublishedAt == nil {
		t.Fatalf("publishing must stamp published_at, got %+v", got)
	}

	loaded, err := repo.Article(ctx, article.ID)
	if err != nil || loaded.Status != domain.StatusPublished {
		t.Fatalf("Article = %+v, %v", loaded, err)
	}

	if err := repo.DeleteArticle(ctx, article.ID); err != nil {
		t.Fatalf("DeleteArticle: %v", err)
	}
	if err := repo.DeleteArticle(ctx, article.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}

	if err := repo.DeleteBlog(ctx, blog.ID); err != nil {
		t.Fatalf("DeleteBlog: %v", err)
	}
	if _, err := repo.Blog(ctx, blog.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted blog should be gone, got %v", err)
	}
}

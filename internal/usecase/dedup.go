package usecase

import (
	"context"
	"fmt"

	"SeoForge/internal/domain"
	"SeoForge/internal/ports"
)

// Dedup answers "was this natural key already ingested for the blog?"
// It runs before any oracle call so known items never cost a generation.
type Dedup struct {
	products ports.ProductStore
	news     ports.NewsStore
}

// NewDedup builds the gate over the product and news stores.
func NewDedup(products ports.ProductStore, news ports.NewsStore) *Dedup {
	return &Dedup{products: products, news: news}
}

// ProductSeen reports whether the blog already stores externalID.
func (d *Dedup) ProductSeen(ctx context.Context, blogID, externalID string) (bool, error) {
	if d.products == nil {
		return false, nil
	}
	return d.products.ProductExists(ctx, blogID, externalID)
}

// NewsSeen reports whether the blog already summarised sourceURL.
func (d *Dedup) NewsSeen(ctx context.Context, blogID, sourceURL string) (bool, error) {
	if d.news == nil {
		return false, nil
	}
	return d.news.NewsExists(ctx, blogID, sourceURL)
}

// FreshNews keeps candidates not yet ingested, in order, stopping once
// limit items are collected. A non-positive limit keeps every fresh item.
func (d *Dedup) FreshNews(ctx context.Context, blogID string, items []domain.ScrapedNewsItem, limit int) ([]domain.ScrapedNewsItem, error) {
	fresh := make([]domain.ScrapedNewsItem, 0, len(items))
	for _, item := range items {
		if limit > 0 && len(fresh) >= limit {
			break
		}
		seen, err := d.NewsSeen(ctx, blogID, item.URL)
		if err != nil {
			return nil, fmt.Errorf("check news %s: %w", item.URL, err)
		}
		if !seen {
			fresh = append(fresh, item)
		}
	}
	return fresh, nil
}

package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

const productPage = `
<html><body>
  <span id="productTitle">
     Casque Bluetooth Pro X
  </span>
  <span class="a-price"><span class="a-price-whole">1 299,</span><span class="a-price-fraction">99</span></span>
  <span class="a-price"><span class="a-price-whole">5,</span><span class="a-price-fraction">00</span></span>
  <div id="imageBlock">
    <img id="landingImage" src="https://m.media-amazon.com/images/I/main._AC_SX300_.jpg">
  </div>
  <div id="altImages">
    <img src="https://m.media-amazon.com/images/I/alt1._AC_US40_.jpg">
    <img src="https://m.media-amazon.com/images/I/alt1._SS40_.jpg">
    <img src="https://m.media-amazon.com/images/G/sprite._CB_.png">
    <img data-old-hires="https://m.media-amazon.com/images/I/alt2.jpg">
    <img src="https://cdn.example/other.jpg">
  </div>
  <span id="acrPopover" title="4,6 sur 5 étoiles"></span>
  <span id="acrCustomerReviewText">12 345 évaluations</span>
  <div id="feature-bullets"><ul>
    <li><span class="a-list-item"> Réduction de bruit active hybride </span></li>
    <li><span class="a-list-item">Court</span></li>
    <li><span class="a-list-item">Cliquez ici pour vérifier la compatibilité</span></li>
    <li><span class="a-list-item">Autonomie de 40 heures</span></li>
  </ul></div>
  <div id="productDescription"><p>Premier paragraphe.</p><p> Second paragraphe. </p></div>
  <div id="availability"><span> En stock </span><span>ignored</span></div>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestParseProductPage(t *testing.T) {
	t.Parallel()

	product := ParseProductPage(mustDoc(t, productPage), "B084TSLMC6")
	if product == nil {
		t.Fatal("expected product")
	}

	if product.Title != "Casque Bluetooth Pro X" {
		t.Fatalf("unexpected title %q", product.Title)
	}
	if product.Price == nil || *product.Price != 1299.99 {
		t.Fatalf("unexpected price %v", product.Price)
	}
	if product.Rating == nil || *product.Rating != 4.6 {
		t.Fatalf("unexpected rating %v", product.Rating)
	}
	if product.ReviewCount == nil || *product.ReviewCount != 12345 {
		t.Fatalf("unexpected review count %v", product.ReviewCount)
	}
	if product.Currency != "EUR" {
		t.Fatalf("unexpected currency %q", product.Currency)
	}

	wantImages := []string{
		"https://m.media-amazon.com/images/I/main._AC_SX300_.jpg",
		"https://m.media-amazon.com/images/I/main.jpg",
		"https://m.media-amazon.com/images/I/alt1.jpg",
		"https://m.media-amazon.com/images/I/alt2.jpg",
	}
	if diff := cmp.Diff(wantImages, product.Images); diff != "" {
		t.Fatalf("images mismatch (-want +got):\n%s", diff)
	}

	wantFeatures := []string{"Réduction de bruit active hybride", "Autonomie de 40 heures"}
	if diff := cmp.Diff(wantFeatures, product.Features); diff != "" {
		t.Fatalf("features mismatch (-want +got):\n%s", diff)
	}

	if product.Description != "Premier paragraphe.\nSecond paragraphe." {
		t.Fatalf("unexpected description %q", product.Description)
	}
	if product.Availability != "En stock" {
		t.Fatalf("unexpected availability %q", product.Availability)
	}
}

func TestParseProductPageWithoutTitle(t *testing.T) {
	t.Parallel()

	if product := ParseProductPage(mustDoc(t, `<html><body><span class="a-price-whole">10</span></body></html>`), "B084TSLMC6"); product != nil {
		t.Fatalf("expected nil product, got %+v", product)
	}
}

func TestParseProductPageTitleOnly(t *testing.T) {
	t.Parallel()

	product := ParseProductPage(mustDoc(t, `<html><body><h1 class="a-size-large"> Produit minimal </h1></body></html>`), "B084TSLMC6")
	if product == nil {
		t.Fatal("expected product")
	}
	if product.Title != "Produit minimal" {
		t.Fatalf("unexpected title %q", product.Title)
	}
	if product.Price != nil || product.Rating != nil || product.ReviewCount != nil {
		t.Fatalf("expected absent numeric fields, got %+v", product)
	}
	if len(product.Images) != 0 || len(product.Features) != 0 || product.Description != "" {
		t.Fatalf("expected empty collections, got %+v", product)
	}
	if product.Availability != "Disponibilité inconnue" {
		t.Fatalf("unexpected availability %q", product.Availability)
	}
}

func TestParseRatingFallsBackToStars(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `<i class="a-icon-star"><span>3.5 out of 5</span></i>`)
	rating := parseRating(doc)
	if rating == nil || *rating != 3.5 {
		t.Fatalf("unexpected rating %v", rating)
	}
}

func TestParseImagesCapsAtFive(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString(`<div id="altImages">`)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		b.WriteString(`<img src="https://m.media-amazon.com/images/I/` + name + `._SS40_.jpg">`)
	}
	b.WriteString(`</div>`)

	images := parseImages(mustDoc(t, b.String()))
	if len(images) != 5 {
		t.Fatalf("expected 5 images, got %d", len(images))
	}
}

func TestParseDescriptionFallsBackToAplus(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `<div id="aplus_feature_div">`+strings.Repeat("a", 700)+`</div>`)
	if got := parseDescription(doc); len(got) != 500 {
		t.Fatalf("expected 500 chars, got %d", len(got))
	}
}

type stubFetcher struct {
	body []byte
	err  error
	urls []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	s.urls = append(s.urls, url)
	return s.body, s.err
}

func TestMarketplaceScrape(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{body: []byte(productPage)}
	m := NewMarketplace(fetcher, "https://shop.test/", nil, nil)

	product, err := m.Scrape(context.Background(), "B084TSLMC6")
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if product == nil || product.ExternalID != "B084TSLMC6" {
		t.Fatalf("unexpected product %+v", product)
	}
	if fetcher.urls[0] != "https://shop.test/dp/B084TSLMC6" {
		t.Fatalf("unexpected url %s", fetcher.urls[0])
	}
}

func TestMarketplaceScrapeFetchError(t *testing.T) {
	t.Parallel()

	m := NewMarketplace(&stubFetcher{err: errors.New("503")}, "", nil, nil)
	product, err := m.Scrape(context.Background(), "B084TSLMC6")
	if err == nil || product != nil {
		t.Fatalf("expected error and nil product, got %+v, %v", product, err)
	}
}

func TestParseAvailabilityCapsRunes(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `<div id="availability"><span>`+strings.Repeat("é", maxAvailabilityRunes+50)+`</span></div>`)
	got := parseAvailability(doc)
	if n := len([]rune(got)); n != maxAvailabilityRunes {
		t.Fatalf("expected %d runes, got %d", maxAvailabilityRunes, n)
	}
}

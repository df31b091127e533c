package domain

import "time"

const (
	// DefaultCurrency is the marketplace currency; pages never state another.
	DefaultCurrency = "EUR"
	// UnknownAvailability is used when the page carries no stock message.
	UnknownAvailability = "Disponibilité inconnue"
	// PartnerAmazon is the only affiliate partner scraped today.
	PartnerAmazon = "amazon"
)

// ScrapedProduct is the ephemeral result of one product page extraction.
// Optional numeric fields are nil when the page does not expose them.
type ScrapedProduct struct {
	ExternalID   string   `json:"externalId"`
	Title        string   `json:"title"`
	Price        *float64 `json:"price,omitempty"`
	Currency     string   `json:"currency"`
	Images       []string `json:"images"`
	Rating       *float64 `json:"rating,omitempty"`
	ReviewCount  *int     `json:"reviewCount,omitempty"`
	Features     []string `json:"features"`
	Description  string   `json:"description"`
	Availability string   `json:"availability"`
}

// Product is a scraped product persisted for one blog.
type Product struct {
	ID        string    `json:"id"`
	BlogID    string    `json:"blogId"`
	PartnerID string    `json:"partnerId"`
	ScrapedAt time.Time `json:"scrapedAt"`
	CreatedAt time.Time `json:"createdAt"`

	ScrapedProduct
}

// Package metrics exposes ingestion counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SeoForge/internal/ports"
)

// Collector records batch outcomes, oracle calls and scrape latency.
type Collector struct {
	items          *prometheus.CounterVec
	oracleCalls    *prometheus.CounterVec
	scrapeDuration prometheus.Histogram
}

var _ ports.Metrics = (*Collector)(nil)

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seoforge_ingest_items_total",
			Help: "Batch items by workflow and outcome.",
		}, []string{"workflow", "outcome"}),
		oracleCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seoforge_oracle_calls_total",
			Help: "Text generation calls by kind and status.",
		}, []string{"kind", "status"}),
		scrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seoforge_scrape_duration_seconds",
			Help:    "Product page fetch and extraction latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.items, c.oracleCalls, c.scrapeDuration)
	return c
}

// ObserveItem counts one terminal batch outcome.
func (c *Collector) ObserveItem(workflow, outcome string) {
	c.items.WithLabelValues(workflow, outcome).Inc()
}

// ObserveOracleCall counts one text generation call.
func (c *Collector) ObserveOracleCall(kind, status string) {
	c.oracleCalls.WithLabelValues(kind, status).Inc()
}

// ObserveScrape records how long one product scrape took.
func (c *Collector) ObserveScrape(elapsed time.Duration) {
	c.scrapeDuration.Observe(elapsed.Seconds())
}

// Handler serves the Prometheus scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

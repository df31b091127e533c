package fetch

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/doyensec/safeurl"
	"golang.org/x/net/html/charset"

	"SeoForge/internal/ports"
)

const (
	AcceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	AcceptFeed = "application/rss+xml, application/xml, text/xml"

	defaultMaxBodyBytes = 5 << 20
)

// DefaultUserAgents is the browser pool requests rotate through.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// Options tunes an HTTPFetcher.
type Options struct {
	Accept         string
	AcceptLanguage string
	UserAgents     []string
	MaxBodyBytes   int64
}

// HTTPFetcher downloads pages with browser-like headers and decodes
// gzip, deflate and brotli bodies itself.
type HTTPFetcher struct {
	client     ports.HTTPDoer
	opts       Options
	userAgents []string
	logger     *slog.Logger
}

var _ ports.PageFetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher wires an HTTP client; a nil client gets a safe default.
func NewHTTPFetcher(client ports.HTTPDoer, opts Options, logger *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = NewSafeClient(20 * time.Second)
	}
	if opts.Accept == "" {
		opts.Accept = AcceptHTML
	}
	if opts.AcceptLanguage == "" {
		opts.AcceptLanguage = "fr-FR,fr;q=0.9,en;q=0.8"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	agents := opts.UserAgents
	if len(agents) == 0 {
		agents = DefaultUserAgents
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HTTPFetcher{
		client:     client,
		opts:       opts,
		userAgents: agents,
		logger:     logger.With("component", "http_fetcher"),
	}
}

// NewSafeClient returns an HTTP client that refuses private, loopback and
// link-local destinations and anything but http(s) on ports 80 and 443.
func NewSafeClient(timeout time.Duration) *http.Client {
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return safeurl.Client(cfg).Client
}

// Fetch GETs url and returns the decoded body. Non-2xx statuses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent())
	req.Header.Set("Accept", f.opts.Accept)
	req.Header.Set("Accept-Language", f.opts.AcceptLanguage)
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	reader, err := decompressReader(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}

	// Feeds carry their own encoding declaration for the XML parser.
	if contentType := resp.Header.Get("Content-Type"); strings.HasPrefix(contentType, "text/html") {
		if utf8Reader, err := charset.NewReader(reader, contentType); err == nil {
			reader = utf8Reader
		}
	}

	body, err := io.ReadAll(io.LimitReader(reader, f.opts.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	f.logger.Debug("fetch complete", "url", url, "status", resp.StatusCode, "size", len(body), "duration", time.Since(start))
	return body, nil
}

// UserAgent picks one agent from the pool at random.
func (f *HTTPFetcher) UserAgent() string {
	return f.userAgents[rand.IntN(len(f.userAgents))]
}

func decompressReader(encoding string, reader io.Reader) (io.Reader, error) {
	switch encoding {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		return flate.NewReader(reader), nil
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"SeoForge/internal/api"
	"SeoForge/internal/config"
	"SeoForge/internal/infrastructure/fetch"
	"SeoForge/internal/infrastructure/imagesearch"
	"SeoForge/internal/infrastructure/llm"
	"SeoForge/internal/infrastructure/parser"
	"SeoForge/internal/infrastructure/scheduler"
	"SeoForge/internal/infrastructure/storage"
	"SeoForge/internal/logging"
	"SeoForge/internal/metrics"
	"SeoForge/internal/ports"
	"SeoForge/internal/usecase"
)

const shutdownTimeout = 15 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sqlx.DB
	repo      *storage.PostgresRepository
	registry  *prometheus.Registry
	ingestor  *usecase.Ingestor
	scheduler *usecase.Scheduler
}

// New connects to Postgres and builds every adapter and use case.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	repo := storage.NewPostgresRepository(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	pageFetcher := fetch.NewHTTPFetcher(fetch.NewSafeClient(cfg.Scraper.Timeout), fetch.Options{
		Accept:       fetch.AcceptHTML,
		UserAgents:   cfg.Scraper.UserAgents,
		MaxBodyBytes: cfg.Scraper.MaxBodyBytes,
	}, logging.Component(baseLogger, "fetch.page"))
	feedFetcher := fetch.NewHTTPFetcher(fetch.NewSafeClient(cfg.Scraper.Timeout), fetch.Options{
		Accept:       fetch.AcceptFeed,
		UserAgents:   cfg.Scraper.UserAgents,
		MaxBodyBytes: cfg.Scraper.MaxBodyBytes,
	}, logging.Component(baseLogger, "fetch.feed"))

	marketplace := parser.NewMarketplace(pageFetcher, cfg.Scraper.MarketplaceURL, collector,
		logging.Component(baseLogger, "scraper.amazon"))
	news := parser.NewGoogleNews(feedFetcher, usecase.NewPacer(cfg.Pacing.NewsFetchDelay), parser.FeedOptions{
		FeedURL:     cfg.News.FeedURL,
		Language:    cfg.News.Language,
		Region:      cfg.News.Region,
		MaxKeywords: cfg.News.MaxKeywords,
	}, logging.Component(baseLogger, "news.google"))

	var text ports.TextGenerator
	if client := llm.NewOpenAIClient(cfg.OpenAI); client != nil {
		text = client
	} else {
		baseLogger.Warn("OPENAI_API_KEY not set, generation endpoints are disabled")
	}

	var images ports.ImageSearcher
	if client := imagesearch.NewUnsplash(cfg.Unsplash.Endpoint, cfg.Unsplash.AccessKey, nil); client != nil {
		images = client
	}

	generator := usecase.NewGenerator(usecase.GeneratorDeps{
		Text:     text,
		Images:   images,
		Articles: repo,
		Metrics:  collector,
		Logger:   logging.Component(baseLogger, "generator"),
	})

	ingestor := usecase.NewIngestor(usecase.IngestorDeps{
		Blogs:     repo,
		Products:  repo,
		Articles:  repo,
		News:      repo,
		Scraper:   marketplace,
		Searcher:  news,
		Generator: generator,
		Metrics:   collector,
		Logger:    logging.Component(baseLogger, "ingest"),
		Pacing: usecase.Pacing{
			Product:   cfg.Pacing.ProductDelay,
			NewsItem:  cfg.Pacing.NewsItemDelay,
			SweepItem: cfg.Pacing.SweepItemDelay,
			Blog:      cfg.Pacing.BlogDelay,
		},
		Sweep: usecase.SweepLimits{
			MaxResults:      cfg.Sweep.MaxResults,
			MaxItemsPerBlog: cfg.Sweep.MaxItemsPerBlog,
		},
		ParseProductID: parser.ExtractProductID,
	})

	sched := usecase.NewScheduler(
		scheduler.NewIntervalScheduler(cfg.Sweep.Interval, cfg.Sweep.RunAtStart),
		ingestor,
		logging.Component(baseLogger, "scheduler"),
	)

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		db:        db,
		repo:      repo,
		registry:  registry,
		ingestor:  ingestor,
		scheduler: sched,
	}, nil
}

// Ingestor exposes the batch driver to one-shot commands.
func (a *Application) Ingestor() *usecase.Ingestor {
	return a.ingestor
}

// Repository exposes the Postgres store to administrative commands.
func (a *Application) Repository() *storage.PostgresRepository {
	return a.repo
}

// Handler builds the HTTP surface.
func (a *Application) Handler() http.Handler {
	return api.NewRouter(api.RouterDeps{
		Ingestor:   a.ingestor,
		News:       a.repo,
		Articles:   a.repo,
		Blogs:      a.repo,
		Products:   a.repo,
		CronSecret: a.cfg.Server.CronSecret,
		Metrics:    metrics.Handler(a.registry),
		Logger:     logging.Component(a.logger, "http"),
	})
}

// Serve runs the HTTP server, and the sweep scheduler when enabled, until
// ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	if a.cfg.Sweep.Enabled {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
	}

	server := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.cfg.Sweep.Enabled {
		if err := a.scheduler.Stop(shutdownCtx); err != nil {
			a.logger.Warn("scheduler stop failed", "err", err)
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("http shutdown failed", "err", err)
	}
	return serveErr
}

// Close releases the database pool.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"SeoForge/internal/ports"
	"SeoForge/internal/usecase"
)

// RouterDeps groups what NewRouter needs.
type RouterDeps struct {
	Ingestor   *usecase.Ingestor
	News       ports.NewsStore
	Articles   ArticleAdmin
	Blogs      BlogAdmin
	Products   ProductLister
	CronSecret string
	Metrics    http.Handler
	Logger     *slog.Logger
}

// NewRouter builds the batch invocation surface.
func NewRouter(deps RouterDeps) http.Handler {
	h := &Handler{
		ingestor:   deps.Ingestor,
		news:       deps.News,
		articles:   deps.Articles,
		blogs:      deps.Blogs,
		products:   deps.Products,
		cronSecret: deps.CronSecret,
		logger:     deps.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(deps.Logger))

	r.Get("/healthz", h.Health)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", h.ListBlogs)
			r.Post("/", h.CreateBlog)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetBlog)
				r.Patch("/", h.UpdateBlog)
				r.Delete("/", h.DeleteBlog)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/scrape", h.ScrapeProducts)
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", h.ListArticles)
			r.Post("/generate", h.GenerateArticle)
			r.Post("/generate-batch", h.GenerateArticleSet)
			r.Post("/ideas", h.ArticleIdeas)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetArticle)
				r.Patch("/", h.UpdateArticle)
				r.Delete("/", h.DeleteArticle)
			})
		})

		r.Get("/news", h.ListNews)
		r.Post("/news/generate", h.GenerateNews)

		// GET so that hosted cron triggers can call it directly.
		r.With(h.requireCronSecret).Get("/cron/generate-news", h.SweepNews)
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logger == nil {
				next.ServeHTTP(w, r)
				return
			}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"elapsed", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

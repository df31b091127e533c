package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"SeoForge/internal/app"
	"SeoForge/internal/config"
	"SeoForge/internal/domain"
	"SeoForge/internal/infrastructure/storage"
	"SeoForge/internal/textutil"
	"SeoForge/internal/usecase"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when enabled, the scheduled news sweep",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app.Application) error {
				return a.Serve(cmd.Context())
			})
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if err := storage.RunMigrations(cfg.Database.DSN); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func scrapeCmd() *cobra.Command {
	var (
		blogID string
		ids    []string
	)
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape marketplace products (ASINs or product URLs) into a blog",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := append(ids, args...)
			if len(inputs) == 0 {
				return fmt.Errorf("at least one --id or argument is required")
			}
			return withApp(cmd.Context(), func(a *app.Application) error {
				report, err := a.Ingestor().ScrapeProducts(cmd.Context(), blogID, inputs)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
	cmd.Flags().StringVar(&blogID, "blog", "", "blog id")
	cmd.Flags().StringSliceVar(&ids, "id", nil, "ASIN or product URL (repeatable)")
	cmd.MarkFlagRequired("blog")
	return cmd
}

func articleCmd() *cobra.Command {
	var (
		blogID     string
		typ        string
		subject    string
		productIDs []string
		keywords   []string
		tone       string
		publish    bool
	)
	cmd := &cobra.Command{
		Use:   "article",
		Short: "Generate one article from a subject or a set of products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			articleType, err := domain.ParseArticleType(typ)
			if err != nil {
				return err
			}
			if strings.TrimSpace(subject) == "" && len(productIDs) == 0 {
				return errors.New("--subject or at least one --product is required")
			}
			return withApp(cmd.Context(), func(a *app.Application) error {
				article, err := a.Ingestor().GenerateArticle(cmd.Context(), usecase.ArticleInput{
					BlogID:     blogID,
					Type:       articleType,
					Subject:    subject,
					ProductIDs: productIDs,
					Keywords:   keywords,
					Tone:       domain.ParseTone(tone),
					Publish:    publish,
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), article)
			})
		},
	}
	cmd.Flags().StringVar(&blogID, "blog", "", "blog id")
	cmd.Flags().StringVar(&typ, "type", "", "review, guide, comparatif or top")
	cmd.Flags().StringVar(&subject, "subject", "", "article subject (defaults to the first product title)")
	cmd.Flags().StringSliceVar(&productIDs, "product", nil, "product id to ground the article on (repeatable)")
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "SEO keyword (repeatable)")
	cmd.Flags().StringVar(&tone, "tone", string(domain.ToneProfessional), "professional, casual or enthusiastic")
	cmd.Flags().BoolVar(&publish, "publish", false, "store the article as published instead of draft")
	cmd.MarkFlagRequired("blog")
	cmd.MarkFlagRequired("type")
	return cmd
}

func ideasCmd() *cobra.Command {
	var (
		blogID string
		count  int
	)
	cmd := &cobra.Command{
		Use:   "ideas",
		Short: "Suggest article subjects for a blog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app.Application) error {
				ideas, err := a.Ingestor().ArticleIdeas(cmd.Context(), blogID, count)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string][]string{"ideas": ideas})
			})
		},
	}
	cmd.Flags().StringVar(&blogID, "blog", "", "blog id")
	cmd.Flags().IntVar(&count, "count", 5, "number of subjects to suggest")
	cmd.MarkFlagRequired("blog")
	return cmd
}

func articlesCmd() *cobra.Command {
	var (
		blogID    string
		productID string
		others    []string
	)
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Generate review, guide, comparatif and top articles around a product",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app.Application) error {
				report, err := a.Ingestor().GenerateArticleSet(cmd.Context(), blogID, productID, others)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
	cmd.Flags().StringVar(&blogID, "blog", "", "blog id")
	cmd.Flags().StringVar(&productID, "product", "", "main product id")
	cmd.Flags().StringSliceVar(&others, "other", nil, "additional product ids for comparatif and top")
	cmd.MarkFlagRequired("blog")
	cmd.MarkFlagRequired("product")
	return cmd
}

func newsCmd() *cobra.Command {
	var (
		blogID   string
		maxItems int
		keywords []string
	)
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Summarise fresh niche news for one blog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app.Application) error {
				report, err := a.Ingestor().GenerateNews(cmd.Context(), usecase.NewsInput{
					BlogID:   blogID,
					MaxItems: maxItems,
					Keywords: keywords,
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
	cmd.Flags().StringVar(&blogID, "blog", "", "blog id")
	cmd.Flags().IntVar(&maxItems, "max", 10, "maximum news items to summarise")
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "extra search keyword (repeatable)")
	cmd.MarkFlagRequired("blog")
	return cmd
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run the news sweep over every active blog once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app.Application) error {
				results, err := a.Ingestor().SweepNews(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), results)
			})
		},
	}
}

func blogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blogs",
		Short: "Manage tenant blogs",
	}

	var (
		name     string
		slug     string
		niche    string
		inactive bool
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a new blog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if slug == "" {
				slug = textutil.Slugify(name)
			}
			return withApp(cmd.Context(), func(a *app.Application) error {
				blog, err := a.Repository().CreateBlog(cmd.Context(), domain.Blog{
					Name:     name,
					Slug:     slug,
					Niche:    niche,
					IsActive: !inactive,
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), blog)
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "display name")
	create.Flags().StringVar(&slug, "slug", "", "url slug (derived from the name when empty)")
	create.Flags().StringVar(&niche, "niche", "", "niche used for news keywords and prompts")
	create.Flags().BoolVar(&inactive, "inactive", false, "exclude the blog from scheduled sweeps")
	create.MarkFlagRequired("name")
	create.MarkFlagRequired("niche")

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List active blogs, or every blog with --all",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app.Application) error {
				var (
					blogs []domain.Blog
					err   error
				)
				if all {
					blogs, err = a.Repository().ListBlogs(cmd.Context())
				} else {
					blogs, err = a.Repository().ActiveBlogs(cmd.Context())
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), blogs)
			})
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include inactive blogs")

	cmd.AddCommand(create, list)
	return cmd
}

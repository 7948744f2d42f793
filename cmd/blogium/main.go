// Command blogium runs a blogium site with the built-in theme. All site
// branding and secrets come from environment variables.
package main

import (
	"log"
	"strconv"

	"github.com/eringen/blogium"
	"github.com/eringen/blogium/views"
)

func main() {
	cfg := blogium.SiteConfig{
		Name:          blogium.EnvOr("SITE_NAME", "Blogium"),
		URL:           blogium.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:   blogium.EnvOr("SITE_DESCRIPTION", ""),
		Addr:          blogium.EnvOr("ADDR", ":3000"),
		DatabasePath:  blogium.EnvOr("DATABASE_PATH", "data/blog.db"),
		SessionSecret: blogium.MustEnv("SESSION_SECRET"),
		CookieSecure:  blogium.EnvOr("COOKIE_SECURE", "") != "",
	}
	if v := blogium.EnvOr("PAGE_SIZE", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}

	app := blogium.New(cfg, views.Default(), blogium.WithCustomRoutes(seedDefaults))
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// seedDefaults makes a fresh database usable by ensuring at least one
// published category exists for the post form.
func seedDefaults(a *blogium.App) {
	categories, err := a.Store.ListCategories()
	if err != nil {
		log.Fatalf("seed categories: %v", err)
	}
	if len(categories) > 0 {
		return
	}
	title := blogium.EnvOr("DEFAULT_CATEGORY", "General")
	if _, err := a.Store.SaveCategory(blogium.Category{
		Title:     title,
		Slug:      blogium.Slugify(title),
		Published: true,
	}); err != nil {
		log.Fatalf("seed categories: %v", err)
	}
}

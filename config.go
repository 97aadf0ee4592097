package pubsitemap

import (
	"github.com/eringen/pubsitemap/seo"
	"github.com/eringen/pubsitemap/sitemap"
	"github.com/eringen/pubsitemap/store"
)

// SiteConfig holds all configuration for a site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for the front page
	Author      string // Default author name
	Locale      string // Site locale such as "en_US" (default "en_US")

	Addr           string // Listen address (default ":3000")
	DatabaseDriver string // "sqlite" or "postgres" (default "sqlite")
	DatabaseDSN    string // SQLite path or PostgreSQL connection string (default "data/site.db")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	StaticDir    string // User static assets served under /public (default "public")
	PingEndpoint string // Search engine ping endpoint
	ArchiveSize  int    // Items per front and term archive page (default 10)

	Sitemap sitemap.Settings
	SEO     seo.Settings
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Locale == "" {
		c.Locale = "en_US"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabaseDriver == "" {
		c.DatabaseDriver = "sqlite"
	}
	if c.DatabaseDSN == "" {
		c.DatabaseDSN = "data/site.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.PingEndpoint == "" {
		c.PingEndpoint = sitemap.DefaultPingEndpoint
	}
	if c.ArchiveSize <= 0 {
		c.ArchiveSize = 10
	}
	if c.Sitemap.SiteURL == "" {
		c.Sitemap.SiteURL = c.URL
	}
	if len(c.Sitemap.PostTypes) == 0 && len(c.Sitemap.NewsPostTypes) == 0 && len(c.Sitemap.Taxonomies) == 0 {
		c.Sitemap.PostTypes = []string{"post"}
	}
	c.Sitemap.Normalize(c.Name, c.Locale)
	if c.SEO.FrontDesc == "" {
		c.SEO.FrontDesc = c.Description
	}
	c.SEO.Normalize(c.Name, c.URL, c.Locale)
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithStore uses an already opened store instead of opening one from the
// database settings. The App still closes it.
func WithStore(s *store.Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

// WithSitemapOptions passes options to the sitemap engine, such as result
// filters and render hooks.
func WithSitemapOptions(opts ...sitemap.Option) Option {
	return func(a *App) {
		a.sitemapOpts = append(a.sitemapOpts, opts...)
	}
}

// Package pubsitemap serves a content site built with Go, Echo, and templ
// together with its paginated XML sitemaps and SEO metadata.
//
// Sitemap documents are answered by the sitemap engine before routing
// reaches the host pages; everything else is rendered through the
// ViewFuncs, which default to the components in package views.
package pubsitemap

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubsitemap/sitemap"
	"github.com/eringen/pubsitemap/store"
	"github.com/eringen/pubsitemap/views"
)

// ViewFuncs holds the templ components the App renders pages with.
type ViewFuncs struct {
	Front          func(site views.Site, l views.Listing) templ.Component
	Post           func(site views.Site, item sitemap.Item, terms []sitemap.Term, image string) templ.Component
	Term           func(site views.Site, term sitemap.Term, l views.Listing) templ.Component
	NotFound       func(site views.Site, path string) templ.Component
	ServerError    func(site views.Site) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(d views.Dashboard) templ.Component
	AdminItem      func(item sitemap.Item, csrfToken string) templ.Component
}

// DefaultViews returns the components of package views.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Front:          views.Front,
		Post:           views.Post,
		Term:           views.Term,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
		AdminItem:      views.AdminItem,
	}
}

// App wires together the store, the sitemap engine, handlers, middleware
// and templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *store.Store
	Sitemap *sitemap.Engine
	Pinger  *sitemap.Pinger
	Views   ViewFuncs

	loginLimiter *Limiter
	pingLimiter  *Limiter
	sitemapOpts  []sitemap.Option
	customRoutes []func(*App)
	ready        bool
}

// New creates an App with the given configuration and views.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup checks the secrets, calls Open and registers middleware and
// routes. Start calls it; tests call it to serve requests
// without listening.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("pubsitemap: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("pubsitemap: SessionSecret is required")
	}
	if err := a.Open(); err != nil {
		return err
	}

	a.loginLimiter = NewLimiter(5, time.Minute)
	a.pingLimiter = NewLimiter(1, time.Hour)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Open opens the store and builds the sitemap engine and pinger without
// registering any HTTP handlers.
func (a *App) Open() error {
	if a.Sitemap != nil {
		return nil
	}
	if a.Store == nil {
		st, err := store.Open(a.Config.DatabaseDriver, a.Config.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("pubsitemap: init store: %w", err)
		}
		a.Store = st
	}

	opts := append([]sitemap.Option{sitemap.WithLogger(a.Echo.Logger)}, a.sitemapOpts...)
	a.Sitemap = sitemap.New(a.Config.Sitemap, a.Store, opts...)
	a.Pinger = sitemap.NewPinger(a.Config.PingEndpoint)
	return nil
}

// Start sets the App up and starts the server.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/sitemap.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.Config.StaticDir)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/", a.handleFront)
	e.GET("/page/:paged/", a.handleFront)
	e.GET("/blog/:slug/", a.handleItem("post"))
	e.GET("/attachment/:slug/", a.handleItem(sitemap.AttachmentType))
	e.GET("/:taxonomy/:term/", a.handleTerm)
	e.GET("/:taxonomy/:term/page/:paged/", a.handleTerm)

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/items/:id/", a.handleAdminItem)
	e.POST("/admin/items/:id/", a.handleAdminItemSave)
	e.POST("/admin/ping/", a.handleAdminPing)
	e.POST("/admin/attachments/", a.handleAttachmentUpload)
}

// Close stops background work and closes the store.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	if a.pingLimiter != nil {
		a.pingLimiter.Close()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

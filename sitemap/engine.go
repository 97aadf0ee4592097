// Package sitemap generates paginated XML sitemaps for large content sets.
//
// Documents are addressed by a Coordinate (kind, target, year, month, page)
// that the Router maps to and from URLs. Each request renders exactly one
// bounded document straight from the content store; nothing is cached.
package sitemap

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/labstack/gommon/log"
)

// Engine is the composition root of the sitemap subsystem.
type Engine struct {
	Settings   Settings
	Router     *Router
	Registry   *Registry
	Renderer   *Renderer
	Dispatcher *Dispatcher
}

type engineOptions struct {
	now     func() time.Time
	logger  Logger
	filters []ResultFilter
	hooks   []RenderHook
}

// Option configures an Engine.
type Option func(*engineOptions)

// WithClock sets the time source of the news window.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		o.now = now
	}
}

// WithLogger sets the logger for provider failures.
func WithLogger(l Logger) Option {
	return func(o *engineOptions) {
		o.logger = l
	}
}

// WithResultFilter appends a filter run on every item-based sitemap page.
func WithResultFilter(f ResultFilter) Option {
	return func(o *engineOptions) {
		o.filters = append(o.filters, f)
	}
}

// WithRenderHook appends a render hook.
func WithRenderHook(h RenderHook) Option {
	return func(o *engineOptions) {
		o.hooks = append(o.hooks, h)
	}
}

// New builds the providers, registers the active ones and wires the
// dispatcher.
func New(s Settings, store ContentStore, opts ...Option) *Engine {
	s.Normalize(s.NewsName, "")
	o := engineOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New("sitemap")
	}

	router := NewRouter(s.SiteURL, s.PrettyURLs)
	registry := NewRegistry()

	registry.RegisterIndex(NewPostIndex(&s, store, router))
	registry.RegisterIndex(NewNewsIndex(&s, store, router, o.now))
	registry.RegisterIndex(NewTaxonomyIndex(&s, store, router))
	registry.RegisterIndex(NewAttachmentIndex(&s, store, router))

	registry.RegisterMap(NewPostSitemap(&s, store, o.filters...))
	registry.RegisterMap(NewNewsSitemap(&s, store, o.now, o.filters...))
	registry.RegisterMap(NewTaxonomySitemap(&s, store))
	registry.RegisterMap(NewAttachmentSitemap(&s, store, o.filters...))

	styles := NewStylesheets(s.StylesheetCSS)
	for _, name := range styles.Names() {
		registry.RegisterStyle(name)
	}

	renderer := NewRenderer(o.hooks...)
	return &Engine{
		Settings: s,
		Router:   router,
		Registry: registry,
		Renderer: renderer,
		Dispatcher: &Dispatcher{
			router:      router,
			registry:    registry,
			renderer:    renderer,
			styles:      styles,
			stylesheets: s.Stylesheets,
			logger:      o.logger,
		},
	}
}

// Dispatch serves r when it addresses a sitemap document.
func (e *Engine) Dispatch(w http.ResponseWriter, r *http.Request) bool {
	return e.Dispatcher.Dispatch(w, r)
}

// Render writes the document addressed by c.
func (e *Engine) Render(ctx context.Context, w io.Writer, c Coordinate) error {
	return e.Dispatcher.Render(ctx, w, c)
}

// IndexURLs returns the URLs of all active sitemap indexes.
func (e *Engine) IndexURLs() []string {
	var urls []string
	for _, p := range e.Registry.Indexes() {
		urls = append(urls, e.Router.BuildURL(IndexOf(p.Target())))
	}
	return urls
}

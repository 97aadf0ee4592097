package sitemap

import (
	"context"
	"io"
	"net/http"
)

// ContentType is sent with every sitemap and stylesheet document.
const ContentType = "application/xml; charset=UTF-8"

// Logger receives store and render failures. echo.Logger satisfies it.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// Dispatcher serves sitemap requests. Requests it does not recognise are
// left to the caller.
type Dispatcher struct {
	router      *Router
	registry    *Registry
	renderer    *Renderer
	styles      *Stylesheets
	stylesheets bool
	logger      Logger
}

// Dispatch serves r if it addresses a registered sitemap document and
// reports whether it did. It never writes an error status; provider
// failures are logged and produce an empty document.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	c, ok := d.router.Match(r.URL.Path, r.URL.Query())
	if !ok {
		return false
	}
	route, ok := d.registry.Lookup(c)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return true
	}
	if err := d.serve(r.Context(), w, c, route); err != nil {
		d.logger.Errorf("sitemap %s: write: %v", c, err)
	}
	return true
}

// Render writes the document addressed by c to w.
func (d *Dispatcher) Render(ctx context.Context, w io.Writer, c Coordinate) error {
	route, ok := d.registry.Lookup(c)
	if !ok {
		return ErrNoRoute
	}
	return d.serve(ctx, w, c, route)
}

func (d *Dispatcher) serve(ctx context.Context, w io.Writer, c Coordinate, route Route) error {
	switch {
	case route.Style != "":
		return d.styles.Render(w, route.Style)
	case route.Index != nil:
		entries, err := route.Index.Entries(ctx)
		if err != nil {
			d.logger.Errorf("sitemap %s: %v", c, err)
			entries = nil
		}
		doc := Document{Coordinate: c, Stylesheet: d.stylesheetURL(StyleIndex)}
		return d.renderer.RenderIndex(w, doc, entries)
	default:
		entries, err := route.Map.URLs(ctx, c)
		if err != nil {
			d.logger.Errorf("sitemap %s: %v", c, err)
			entries = nil
		}
		doc := Document{
			Coordinate: c,
			Namespaces: route.Map.Namespaces(),
			Stylesheet: d.stylesheetURL(route.Map.Style()),
		}
		return d.renderer.RenderURLSet(w, doc, entries)
	}
}

func (d *Dispatcher) stylesheetURL(name string) string {
	if !d.stylesheets || name == "" {
		return ""
	}
	return d.router.BuildURL(StyleOf(name))
}

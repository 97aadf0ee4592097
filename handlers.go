package pubsitemap

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubsitemap/sitemap"
	"github.com/eringen/pubsitemap/store"
	"github.com/eringen/pubsitemap/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// Site returns the view settings of the App.
func (a *App) Site() views.Site {
	return views.Site{
		Name:        a.Config.Name,
		URL:         strings.TrimRight(a.Config.URL, "/"),
		Description: a.Config.Description,
		Lang:        strings.ReplaceAll(a.Config.Locale, "_", "-"),
		SEO:         a.Config.SEO,
	}
}

// paged parses the :paged route parameter. It reports false for values
// that are not positive integers.
func paged(c echo.Context) (int, bool) {
	raw := c.Param("paged")
	if raw == "" {
		return 1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func (a *App) listing(total, page int, base string) (views.Listing, int) {
	size := a.Config.ArchiveSize
	pages := (total + size - 1) / size
	return views.Listing{Paged: page, TotalPages: pages, BaseURL: base}, (page - 1) * size
}

func (a *App) handleFront(c echo.Context) error {
	page, ok := paged(c)
	if !ok {
		return echo.ErrNotFound
	}
	ctx := c.Request().Context()
	types := a.Config.Sitemap.PostTypes
	total, err := a.Store.CountItems(ctx, sitemap.ItemQuery{Types: types})
	if err != nil {
		return err
	}
	l, offset := a.listing(total, page, a.Site().URL+"/")
	if page > 1 && page > l.TotalPages {
		return echo.ErrNotFound
	}
	l.Items, err = a.Store.ListPublished(ctx, types, offset, a.Config.ArchiveSize)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Front(a.Site(), l))
}

func (a *App) handleItem(typ string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		item, err := a.Store.GetPublished(ctx, typ, c.Param("slug"))
		if err != nil {
			if store.IsNotFound(err) {
				return echo.ErrNotFound
			}
			return err
		}
		terms, err := a.Store.ItemTerms(ctx, item.ID)
		if err != nil {
			return err
		}
		image := ""
		if item.IsImage() {
			image = item.FileURL
		} else {
			images, err := a.Store.FetchChildImages(ctx, []int64{item.ID})
			if err != nil {
				return err
			}
			if len(images) > 0 {
				image = images[0].FileURL
			}
		}
		return Render(c, a.Views.Post(a.Site(), item, terms, image))
	}
}

func (a *App) handleTerm(c echo.Context) error {
	taxonomy := c.Param("taxonomy")
	if !a.hasTaxonomy(taxonomy) {
		return echo.ErrNotFound
	}
	page, ok := paged(c)
	if !ok {
		return echo.ErrNotFound
	}
	ctx := c.Request().Context()
	term, err := a.Store.GetTerm(ctx, taxonomy, c.Param("term"))
	if err != nil {
		if store.IsNotFound(err) {
			return echo.ErrNotFound
		}
		return err
	}
	l, offset := a.listing(term.Count, page, sitemap.TermLink(a.Site().URL, term.Taxonomy, term.Slug))
	if page > 1 && page > l.TotalPages {
		return echo.ErrNotFound
	}
	l.Items, err = a.Store.ListTermItems(ctx, term.ID, offset, a.Config.ArchiveSize)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Term(a.Site(), term, l))
}

func (a *App) hasTaxonomy(name string) bool {
	for _, t := range a.Config.Sitemap.Taxonomies {
		if t == name {
			return true
		}
	}
	return false
}

// handleRobots lists every active sitemap index.
func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\nDisallow: /admin/\n")
	if urls := a.Sitemap.IndexURLs(); len(urls) > 0 {
		b.WriteString("\n")
		for _, u := range urls {
			b.WriteString("Sitemap: " + u + "\n")
		}
	}
	return c.String(http.StatusOK, b.String())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Site(), c.Request().URL.Path))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.Site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// Package views holds the default page components of a site. Every page is
// a templ.Component; the host app may replace any of them.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/pubsitemap/seo"
	"github.com/eringen/pubsitemap/sitemap"
)

// Site carries site-wide settings into every page.
type Site struct {
	Name        string
	URL         string
	Description string
	Lang        string
	SEO         seo.Settings
}

// Listing is one page of an item archive.
type Listing struct {
	Items      []sitemap.Item
	Paged      int
	TotalPages int
	BaseURL    string
}

// Layout wraps body in the document shell with the SEO head of page.
func Layout(site Site, page seo.Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := newWriter(out)
		w.raw(`<!DOCTYPE html>`, "\n", `<html lang="`, esc(site.Lang), `"`)
		if site.SEO.OGP {
			w.raw(` prefix="`, esc(seo.Prefix(page)), `"`)
		}
		w.raw(">\n<head>\n", `<meta charset="utf-8"/>`, "\n",
			`<meta name="viewport" content="width=device-width, initial-scale=1"/>`, "\n")
		w.component(ctx, seo.Head(page, site.SEO))
		w.raw(`<link rel="stylesheet" href="/public/style.css"/>`, "\n</head>\n<body>\n")
		w.raw(`<header><a href="/">`)
		w.text(site.Name)
		w.raw("</a></header>\n<main>\n")
		w.component(ctx, body)
		w.raw("\n</main>\n</body>\n</html>\n")
		return w.flush()
	})
}

func listing(l Listing) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := newWriter(out)
		w.raw(`<ul class="items">`)
		for _, it := range l.Items {
			w.raw(`<li><a href="`, esc(it.Permalink), `">`)
			w.text(it.Title)
			w.raw(`</a> <time datetime="`, sitemap.FormatTime(it.Published), `">`)
			w.text(FormatDate(it.Published))
			w.raw("</time></li>")
		}
		w.raw("</ul>\n")
		if l.TotalPages > 1 {
			w.raw(`<nav class="pagination">`)
			if l.Paged > 1 {
				w.raw(`<a rel="prev" href="`, esc(PageURL(l.BaseURL, l.Paged-1)), `">Newer</a>`)
			}
			if l.Paged < l.TotalPages {
				w.raw(`<a rel="next" href="`, esc(PageURL(l.BaseURL, l.Paged+1)), `">Older</a>`)
			}
			w.raw("</nav>\n")
		}
		return w.flush()
	})
}

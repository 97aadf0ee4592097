package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/pubsitemap/markdown"
	"github.com/eringen/pubsitemap/seo"
	"github.com/eringen/pubsitemap/sitemap"
)

// Front renders the front page with the latest items.
func Front(site Site, l Listing) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := newWriter(out)
		w.raw("<h1>")
		w.text(site.Name)
		w.raw("</h1>\n")
		if site.Description != "" {
			w.raw(`<p class="tagline">`)
			w.text(site.Description)
			w.raw("</p>\n")
		}
		w.component(ctx, listing(l))
		return w.flush()
	})
	return Layout(site, seo.Page{Kind: seo.KindFront, Paged: l.Paged}, body)
}

// Post renders a single item with its terms. image is the item's first
// image attachment, used for social previews.
func Post(site Site, item sitemap.Item, terms []sitemap.Term, image string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := newWriter(out)
		w.raw("<article>\n<h1>")
		w.text(item.Title)
		w.raw(`</h1>`, "\n", `<p class="meta"><time datetime="`, sitemap.FormatTime(item.Published), `">`)
		w.text(FormatDate(item.Published))
		w.raw("</time>")
		if item.Author != "" {
			w.raw(" by ")
			w.text(item.Author)
		}
		w.raw("</p>\n")
		if item.Type == sitemap.AttachmentType && item.IsImage() {
			w.raw(`<img src="`, esc(item.FileURL), `" alt="`, esc(item.Title), `"/>`)
		}
		w.component(ctx, markdown.Component(item.Content))
		if len(terms) > 0 {
			w.raw("\n<ul class=\"terms\">")
			for _, t := range terms {
				w.raw(`<li><a href="`, esc(sitemap.TermLink(site.URL, t.Taxonomy, t.Slug)), `">`)
				w.text(t.Name)
				w.raw("</a></li>")
			}
			w.raw("</ul>")
		}
		w.raw("\n</article>\n")
		return w.flush()
	})
	return Layout(site, seo.Page{Kind: seo.KindSingular, Item: &item, Image: image}, body)
}

// Term renders one page of a term archive.
func Term(site Site, term sitemap.Term, l Listing) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := newWriter(out)
		w.raw("<h1>")
		w.text(term.Name)
		w.raw("</h1>\n")
		if term.Description != "" {
			w.raw("<p>")
			w.text(term.Description)
			w.raw("</p>\n")
		}
		w.component(ctx, listing(l))
		return w.flush()
	})
	return Layout(site, seo.Page{Kind: seo.KindTerm, Term: &term, Paged: l.Paged}, body)
}

// NotFound renders the 404 page for path.
func NotFound(site Site, path string) templ.Component {
	return Layout(site, seo.Page{Kind: seo.KindNotFound, Path: path}, message("Page not found", "The page you requested does not exist."))
}

// ServerError renders the 500 page.
func ServerError(site Site) templ.Component {
	return Layout(site, seo.Page{Kind: seo.KindNotFound}, message("Something went wrong", "Please try again later."))
}

func message(title, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := newWriter(out)
		w.raw("<h1>")
		w.text(title)
		w.raw("</h1>\n<p>")
		w.text(text)
		w.raw("</p>\n")
		return w.flush()
	})
}

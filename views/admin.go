package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/pubsitemap/sitemap"
)

// Dashboard is the data of the admin dashboard.
type Dashboard struct {
	Items       []sitemap.Item
	SitemapURLs []string
	Message     string
	CSRFToken   string
}

// AdminLogin renders the admin login form.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := newWriter(out)
		w.raw(adminHead("Admin login"))
		if showError {
			w.raw(`<p class="error">Invalid password.</p>`, "\n")
		}
		w.raw(`<form method="post" action="/admin/login/">`,
			`<input type="hidden" name="_csrf" value="`, esc(csrfToken), `"/>`,
			`<input type="password" name="password" autofocus/>`,
			`<button type="submit">Log in</button></form>`, "\n", adminFoot)
		return w.flush()
	})
}

// AdminDashboard lists sitemap indexes and recent items with their flags.
func AdminDashboard(d Dashboard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := newWriter(out)
		w.raw(adminHead("Dashboard"))
		if d.Message != "" {
			w.raw(`<p class="message">`)
			w.text(d.Message)
			w.raw("</p>\n")
		}
		w.raw("<h2>Sitemaps</h2>\n<ul class=\"sitemaps\">")
		for _, u := range d.SitemapURLs {
			w.raw(`<li><a href="`, esc(u), `">`)
			w.text(u)
			w.raw("</a></li>")
		}
		w.raw("</ul>\n", `<form method="post" action="/admin/ping/">`, csrfField(d.CSRFToken),
			`<button type="submit">Ping search engines</button></form>`, "\n")

		w.raw(`<h2>Upload image</h2>`, "\n",
			`<form method="post" action="/admin/attachments/" enctype="multipart/form-data">`, csrfField(d.CSRFToken),
			`<input type="file" name="image" accept="image/*"/>`,
			`<input type="number" name="parent" placeholder="Parent ID"/>`,
			`<button type="submit">Upload</button></form>`, "\n")

		w.raw("<h2>Items</h2>\n<table class=\"items\"><thead><tr><th>Title</th><th>Type</th><th>Status</th><th>Flags</th><th></th></tr></thead><tbody>")
		for _, it := range d.Items {
			w.raw("<tr><td>")
			w.text(it.Title)
			w.raw("</td><td>")
			w.text(it.Type)
			w.raw("</td><td>")
			w.text(it.Status)
			w.raw("</td><td>")
			for i, name := range it.Flags.Names() {
				if i > 0 {
					w.raw(", ")
				}
				w.text(name)
			}
			w.raw(`</td><td><a href="/admin/items/`, strconv.FormatInt(it.ID, 10), `/">Edit</a></td></tr>`)
		}
		w.raw("</tbody></table>\n", `<form method="post" action="/admin/logout/">`, csrfField(d.CSRFToken),
			`<button type="submit">Log out</button></form>`, "\n", adminFoot)
		return w.flush()
	})
}

// AdminItem renders the SEO settings form of one item.
func AdminItem(item sitemap.Item, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := newWriter(out)
		w.raw(adminHead("Edit item"))
		w.raw("<h2>")
		w.text(item.Title)
		w.raw("</h2>\n", `<form method="post" action="/admin/items/`, strconv.FormatInt(item.ID, 10), `/">`, csrfField(csrfToken))
		for _, f := range []struct {
			flag  sitemap.Flags
			label string
		}{
			{sitemap.FlagSitemapExclude, "Exclude from sitemap"},
			{sitemap.FlagNewsExclude, "Exclude from news sitemap"},
			{sitemap.FlagNoindex, "Hide from search engines"},
		} {
			name := f.flag.Names()[0]
			w.raw(`<label><input type="checkbox" name="flag" value="`, name, `"`)
			if item.Flags.Has(f.flag) {
				w.raw(" checked")
			}
			w.raw("/> ", esc(f.label), "</label>\n")
		}
		w.raw(`<label>Description <textarea name="description" rows="3">`)
		w.text(item.Description)
		w.raw("</textarea></label>\n", `<button type="submit">Save</button></form>`, "\n", adminFoot)
		return w.flush()
	})
}

func adminHead(title string) string {
	return "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"/><meta name=\"robots\" content=\"noindex, nofollow\"/><title>" +
		esc(title) + "</title></head>\n<body>\n<h1>" + esc(title) + "</h1>\n"
}

const adminFoot = "</body></html>\n"

func csrfField(token string) string {
	return `<input type="hidden" name="_csrf" value="` + esc(token) + `"/>`
}

package sitemap

import (
	"bufio"
	"io"
	"time"
)

// XML namespaces.
const (
	XMLNSSitemap = "http://www.sitemaps.org/schemas/sitemap/0.9"
	XMLNSImage   = "http://www.google.com/schemas/sitemap-image/1.1"
	XMLNSNews    = "http://www.google.com/schemas/sitemap-news/0.9"
)

// Namespace is a set of sitemap extension namespaces.
type Namespace uint8

const (
	NSImage Namespace = 1 << iota
	NSNews
)

// Root element names.
const (
	RootURLSet       = "urlset"
	RootSitemapIndex = "sitemapindex"
)

// Entry is one <url> of a leaf sitemap.
type Entry struct {
	Link    string
	LastMod time.Time
	Images  []string
	News    *News
}

// News is the news:news block of an entry.
type News struct {
	Publication string
	Language    string
	Title       string
	Published   time.Time
}

// IndexEntry is one <sitemap> of a sitemap index.
type IndexEntry struct {
	Loc string
}

// Document describes the frame of one rendered sitemap.
type Document struct {
	Coordinate Coordinate
	Root       string
	Namespaces Namespace
	Stylesheet string
}

// RenderHook observes rendering at fixed points of the document. Hooks may
// write extra markup to w. Item runs inside each <url> or <sitemap> element
// after its standard children.
type RenderHook interface {
	BeforeRoot(w io.Writer, doc Document)
	AfterRootOpen(w io.Writer, doc Document)
	Item(w io.Writer, doc Document, e Entry)
	AfterItems(w io.Writer, doc Document)
}

// BaseHook implements RenderHook with no-ops, for embedding.
type BaseHook struct{}

func (BaseHook) BeforeRoot(io.Writer, Document)   {}
func (BaseHook) AfterRootOpen(io.Writer, Document) {}
func (BaseHook) Item(io.Writer, Document, Entry)   {}
func (BaseHook) AfterItems(io.Writer, Document)    {}

// Renderer streams sitemap documents.
type Renderer struct {
	hooks []RenderHook
}

// NewRenderer returns a Renderer invoking hooks in the given order.
func NewRenderer(hooks ...RenderHook) *Renderer {
	return &Renderer{hooks: hooks}
}

// AddHook appends a hook.
func (r *Renderer) AddHook(h RenderHook) {
	r.hooks = append(r.hooks, h)
}

// FormatTime returns the W3C datetime used for lastmod values.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// RenderURLSet writes a <urlset> document.
func (r *Renderer) RenderURLSet(w io.Writer, doc Document, entries []Entry) error {
	doc.Root = RootURLSet
	bw := bufio.NewWriter(w)
	r.open(bw, doc)
	for _, e := range entries {
		bw.WriteString("\t<url>\n")
		element(bw, "\t\t", "loc", e.Link)
		if !e.LastMod.IsZero() {
			element(bw, "\t\t", "lastmod", FormatTime(e.LastMod))
		}
		if doc.Namespaces&NSImage != 0 {
			for _, img := range e.Images {
				bw.WriteString("\t\t<image:image>\n")
				element(bw, "\t\t\t", "image:loc", img)
				bw.WriteString("\t\t</image:image>\n")
			}
		}
		if doc.Namespaces&NSNews != 0 && e.News != nil {
			writeNews(bw, e.News)
		}
		for _, h := range r.hooks {
			h.Item(bw, doc, e)
		}
		bw.WriteString("\t</url>\n")
	}
	r.close(bw, doc)
	return bw.Flush()
}

// RenderIndex writes a <sitemapindex> document.
func (r *Renderer) RenderIndex(w io.Writer, doc Document, entries []IndexEntry) error {
	doc.Root = RootSitemapIndex
	doc.Namespaces = 0
	bw := bufio.NewWriter(w)
	r.open(bw, doc)
	for _, e := range entries {
		bw.WriteString("\t<sitemap>\n")
		element(bw, "\t\t", "loc", e.Loc)
		for _, h := range r.hooks {
			h.Item(bw, doc, Entry{Link: e.Loc})
		}
		bw.WriteString("\t</sitemap>\n")
	}
	r.close(bw, doc)
	return bw.Flush()
}

func (r *Renderer) open(bw *bufio.Writer, doc Document) {
	bw.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if doc.Stylesheet != "" {
		bw.WriteString(`<?xml-stylesheet type="text/xsl" href="` + EscapeXML(doc.Stylesheet) + `"?>` + "\n")
	}
	for _, h := range r.hooks {
		h.BeforeRoot(bw, doc)
	}
	bw.WriteString("<" + doc.Root + ` xmlns="` + XMLNSSitemap + `"`)
	if doc.Namespaces&NSImage != 0 {
		bw.WriteString(` xmlns:image="` + XMLNSImage + `"`)
	}
	if doc.Namespaces&NSNews != 0 {
		bw.WriteString(` xmlns:news="` + XMLNSNews + `"`)
	}
	bw.WriteString(">\n")
	for _, h := range r.hooks {
		h.AfterRootOpen(bw, doc)
	}
}

func (r *Renderer) close(bw *bufio.Writer, doc Document) {
	for _, h := range r.hooks {
		h.AfterItems(bw, doc)
	}
	bw.WriteString("</" + doc.Root + ">\n")
}

func writeNews(bw *bufio.Writer, n *News) {
	bw.WriteString("\t\t<news:news>\n")
	bw.WriteString("\t\t\t<news:publication>\n")
	element(bw, "\t\t\t\t", "news:name", n.Publication)
	element(bw, "\t\t\t\t", "news:language", n.Language)
	bw.WriteString("\t\t\t</news:publication>\n")
	element(bw, "\t\t\t", "news:publication_date", FormatTime(n.Published))
	element(bw, "\t\t\t", "news:title", n.Title)
	bw.WriteString("\t\t</news:news>\n")
}

func element(bw *bufio.Writer, indent, name, text string) {
	bw.WriteString(indent + "<" + name + ">")
	bw.WriteString(EscapeXML(text))
	bw.WriteString("</" + name + ">\n")
}

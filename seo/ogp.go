package seo

import (
	"strings"

	"github.com/eringen/pubsitemap/sitemap"
)

// Meta is one <meta> tag. Attr is "property" or "name".
type Meta struct {
	Attr    string
	Key     string
	Content string
}

// OGP returns the Open Graph and Twitter tags of p in render order, or nil
// when OGP is off.
func OGP(p Page, s Settings) []Meta {
	if !s.OGP {
		return nil
	}
	typ := "article"
	if p.Kind == KindFront {
		typ = "website"
	}
	tags := [][2]string{
		{"og:title", DocumentTitle(p, s)},
		{"og:type", typ},
		{"og:locale", s.Locale},
		{"og:site_name", s.SiteName},
		{"og:url", pageURL(p, s)},
	}
	image := s.DefaultImage
	if p.Kind == KindSingular && p.Image != "" {
		image = p.Image
	}
	if image != "" {
		tags = append(tags, [2]string{"og:image", image})
	}
	tags = append(tags, [2]string{"og:description", Trim(rawDescription(p, s), s.DescLength)})
	if s.FBPageURL != "" {
		tags = append(tags, [2]string{"article:publisher", s.FBPageURL})
	}
	tags = append(tags, [2]string{"twitter:card", s.TwitterSize})
	if s.TwitterAccount != "" {
		tags = append(tags, [2]string{"twitter:site", s.TwitterAccount})
	}

	out := make([]Meta, 0, len(tags))
	for _, t := range tags {
		attr := "name"
		if strings.HasPrefix(t[0], "og:") || strings.HasPrefix(t[0], "fb:") || strings.HasPrefix(t[0], "article:") {
			attr = "property"
		}
		out = append(out, Meta{Attr: attr, Key: t[0], Content: t[1]})
	}
	return out
}

// Prefix returns the RDFa prefix attribute value for the <html> element.
func Prefix(p Page) string {
	ns := "article: http://ogp.me/ns/article#"
	if p.Kind == KindFront {
		ns = "website: http://ogp.me/ns/website#"
	}
	return ns + " og: http://ogp.me/ns# fb: http://ogp.me/ns/fb#"
}

func pageURL(p Page, s Settings) string {
	switch p.Kind {
	case KindFront:
		return s.SiteURL
	case KindSingular, KindHome:
		if p.Item != nil {
			return p.Item.Permalink
		}
	case KindTerm:
		if p.Term != nil {
			return sitemap.TermLink(s.SiteURL, p.Term.Taxonomy, p.Term.Slug)
		}
	case KindAuthor:
		if p.Author != nil {
			return p.Author.URL
		}
	}
	return s.SiteURL + "/" + strings.TrimLeft(p.Path, "/")
}

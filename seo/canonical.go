package seo

import (
	"strconv"
	"strings"

	"github.com/eringen/pubsitemap/sitemap"
)

// Canonical returns the canonical URL of p, or "" when none applies.
// Singular and front pages use their own URL. Archives get one only when
// their kind is enabled in CanonicalArchive, with a page/N/ suffix past
// the first page.
func Canonical(p Page, s Settings) string {
	switch p.Kind {
	case KindFront:
		return s.SiteURL + "/"
	case KindSingular:
		if p.Item != nil {
			return p.Item.Permalink
		}
		return ""
	}

	var canonical string
	switch p.Kind {
	case KindAuthor:
		if has(s.CanonicalArchive, ArchiveAuthor) && p.Author != nil {
			canonical = p.Author.URL
		}
	case KindTerm:
		if has(s.CanonicalArchive, ArchiveTaxonomies) && p.Term != nil {
			canonical = sitemap.TermLink(s.SiteURL, p.Term.Taxonomy, p.Term.Slug)
		}
	case KindPostTypeArchive:
		if has(s.CanonicalArchive, ArchivePostType) && p.PostType != "" {
			canonical = s.SiteURL + "/" + p.PostType + "/"
		}
	case KindHome:
		if has(s.CanonicalArchive, ArchiveHome) && p.Item != nil {
			canonical = p.Item.Permalink
		}
	}
	if canonical == "" || p.Paged <= 1 {
		return canonical
	}
	suffix := "page/" + strconv.Itoa(p.Paged)
	if strings.HasSuffix(canonical, "/") {
		suffix += "/"
	}
	return strings.TrimRight(canonical, "/") + "/" + suffix
}

package seo

import (
	"strings"

	"github.com/eringen/pubsitemap/sitemap"
)

// Robots returns the robots directives of p: "noindex", "nofollow", both,
// or none.
func Robots(p Page, s Settings) []string {
	noindex, nofollow := false, false

	if s.NoindexArchiveLimit > 0 && p.Paged > s.NoindexArchiveLimit {
		noindex = true
	}

	switch {
	case p.Kind == KindSearch:
		if has(s.NoindexOther, OtherSearch) {
			noindex, nofollow = true, true
		}
	case p.Kind == KindNotFound:
		if has(s.NoindexOther, OtherNotFound) {
			noindex = true
		}
	case p.isAttachment():
		if has(s.NoindexOther, OtherAttachment) {
			noindex = true
		}
	}

	if p.Kind == KindSingular && p.Item != nil &&
		has(s.NoindexPosts, p.Item.Type) && p.Item.Flags.Has(sitemap.FlagNoindex) {
		noindex = true
	}
	if p.Kind == KindTerm && p.Term != nil &&
		has(s.NoindexTerms, p.Term.Taxonomy) && p.Term.Flags.Has(sitemap.FlagNoindex) {
		noindex = true
	}

	var out []string
	if noindex {
		out = append(out, "noindex")
	}
	if nofollow {
		out = append(out, "nofollow")
	}
	return out
}

// RobotsContent joins the directives of p for a robots meta tag.
func RobotsContent(p Page, s Settings) string {
	return strings.Join(Robots(p, s), ", ")
}

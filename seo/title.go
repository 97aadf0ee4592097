package seo

import (
	"strconv"
	"strings"
)

// DocumentTitle returns the <title> text of p: the page title, then the
// page number past the first page, then the site name, joined by the
// separator.
func DocumentTitle(p Page, s Settings) string {
	var parts []string
	switch p.Kind {
	case KindFront:
		parts = append(parts, s.SiteName)
		if s.Tagline != "" {
			parts = append(parts, s.Tagline)
		}
		return join(parts, s.Separator)
	case KindSingular, KindHome:
		if p.Item != nil {
			parts = append(parts, p.Item.Title)
		}
	case KindTerm:
		if p.Term != nil {
			parts = append(parts, p.Term.Name)
		}
	case KindAuthor:
		if p.Author != nil {
			parts = append(parts, p.Author.Name)
		}
	case KindPostTypeArchive:
		parts = append(parts, p.PostType)
	case KindSearch:
		parts = append(parts, "Search Results for “"+p.Query+"”")
	case KindNotFound:
		parts = append(parts, "Page not found")
	}
	if p.Paged > 1 {
		parts = append(parts, "Page "+strconv.Itoa(p.Paged))
	}
	parts = append(parts, s.SiteName)
	return join(parts, s.Separator)
}

func join(parts []string, sep string) string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " "+sep+" ")
}

package seo

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/eringen/pubsitemap/markdown"
)

var (
	reTags   = regexp.MustCompile(`<[^>]*>`)
	reSpaces = regexp.MustCompile(`[\n\r\t ]+`)
)

// Description returns the meta description of p, or "" when descriptions
// are off or nothing applies.
func Description(p Page, s Settings) string {
	if s.AutoDesc == DescOff {
		return ""
	}
	return Trim(rawDescription(p, s), s.DescLength)
}

func rawDescription(p Page, s Settings) string {
	var desc string
	switch p.Kind {
	case KindFront:
		desc = s.FrontDesc
		if desc == "" && p.Item != nil {
			desc = itemDescription(p, s)
		}
	case KindSingular, KindHome:
		if p.Item != nil {
			desc = itemDescription(p, s)
		}
	case KindTerm:
		if p.Term != nil {
			desc = p.Term.Description
		}
	case KindAuthor:
		if p.Author != nil {
			desc = p.Author.Description
		}
	case KindSearch:
		desc = fmt.Sprintf("Search results for: %s", p.Query)
	case KindNotFound:
		desc = "Page not found."
	}
	return reTags.ReplaceAllString(desc, "")
}

func itemDescription(p Page, s Settings) string {
	switch {
	case p.Item.Description != "":
		return p.Item.Description
	case p.Item.Excerpt != "":
		return p.Item.Excerpt
	case s.AutoDesc == DescAuto:
		return markdown.PlainText(p.Item.Content)
	}
	return ""
}

// Trim collapses whitespace in text and cuts it to at most n runes. A cut
// text ends with "…".
func Trim(text string, n int) string {
	if n <= 0 {
		n = DefaultDescLength
	}
	text = strings.Trim(reSpaces.ReplaceAllString(text, " "), " ")
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n-1]) + "…"
}

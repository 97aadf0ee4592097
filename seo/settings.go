// Package seo derives the head metadata of a page: title, meta description,
// canonical link, robots directives, Open Graph tags and JSON-LD.
package seo

import (
	"strings"
)

// Description modes.
const (
	DescOff    = ""
	DescManual = "manual"
	DescAuto   = "auto"
)

// Canonical archive kinds.
const (
	ArchiveAuthor     = "author"
	ArchiveTaxonomies = "taxonomies"
	ArchivePostType   = "post_type"
	ArchiveHome       = "home"
)

// Noindex targets for NoindexOther.
const (
	OtherSearch     = "search"
	OtherNotFound   = "404"
	OtherAttachment = "attachment"
)

// DefaultDescLength is the rune limit of generated descriptions.
const DefaultDescLength = 140

// Settings configures the head metadata of the site.
type Settings struct {
	SiteName string
	SiteURL  string
	Locale   string
	Tagline  string

	Separator  string
	AutoDesc   string
	FrontDesc  string
	DescLength int

	CanonicalArchive    []string
	NoindexArchiveLimit int
	NoindexOther        []string
	NoindexPosts        []string
	NoindexTerms        []string

	OGP            bool
	DefaultImage   string
	FBPageURL      string
	TwitterSize    string
	TwitterAccount string

	ArticleTypes  []string
	PublisherName string
	PublisherURL  string
	PublisherLogo string
}

// Normalize fills unset site fields and defaults.
func (s *Settings) Normalize(siteName, siteURL, locale string) {
	if s.SiteName == "" {
		s.SiteName = siteName
	}
	if s.SiteURL == "" {
		s.SiteURL = siteURL
	}
	s.SiteURL = strings.TrimRight(s.SiteURL, "/")
	if s.Locale == "" {
		s.Locale = locale
	}
	if s.Separator == "" {
		s.Separator = "-"
	}
	if s.DescLength <= 0 {
		s.DescLength = DefaultDescLength
	}
	if s.TwitterSize != "summary_large_image" {
		s.TwitterSize = "summary"
	}
}

func has(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

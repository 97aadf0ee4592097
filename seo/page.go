package seo

import (
	"github.com/eringen/pubsitemap/sitemap"
)

// Kind identifies what a page shows.
type Kind int

const (
	KindFront Kind = iota
	KindSingular
	KindHome
	KindTerm
	KindAuthor
	KindPostTypeArchive
	KindSearch
	KindNotFound
)

// Author is the subject of an author archive.
type Author struct {
	Name        string
	Description string
	URL         string
}

// Page is what the head is rendered for. Item is set for singular pages and
// for a static front or posts page; Term for term archives.
type Page struct {
	Kind     Kind
	Item     *sitemap.Item
	Term     *sitemap.Term
	Author   *Author
	PostType string
	Query    string
	Paged    int
	Path     string
	Image    string
}

func (p Page) isAttachment() bool {
	return p.Kind == KindSingular && p.Item != nil && p.Item.Type == sitemap.AttachmentType
}

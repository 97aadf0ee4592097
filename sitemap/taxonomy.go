package sitemap

import (
	"context"
	"fmt"
	"net/url"
)

// TermLink returns the archive URL of a term.
func TermLink(siteURL, taxonomy, slug string) string {
	return fmt.Sprintf("%s/%s/%s/", siteURL, url.PathEscape(taxonomy), url.PathEscape(slug))
}

// TaxonomySitemap lists terms that have published items, by term ID.
type TaxonomySitemap struct {
	siteURL    string
	taxonomies []string
	store      ContentStore
	part       Partitioner
}

// NewTaxonomySitemap returns the taxonomy sitemap provider.
func NewTaxonomySitemap(s *Settings, store ContentStore) *TaxonomySitemap {
	return &TaxonomySitemap{
		siteURL:    s.SiteURL,
		taxonomies: s.Taxonomies,
		store:      store,
		part:       NewPartitioner(s.PerPage),
	}
}

// NewTaxonomyIndex returns the index of taxonomy sitemap pages.
func NewTaxonomyIndex(s *Settings, store ContentStore, router *Router) IndexProvider {
	taxonomies := s.Taxonomies
	return &flatIndex{
		target: TargetTaxonomy,
		active: len(taxonomies) > 0,
		count: func(ctx context.Context) (int, error) {
			n, err := store.CountTerms(ctx, taxonomies)
			if err != nil {
				return 0, fmt.Errorf("count terms: %w", err)
			}
			return n, nil
		},
		part:   NewPartitioner(s.PerPage),
		router: router,
	}
}

func (p *TaxonomySitemap) Target() string        { return TargetTaxonomy }
func (p *TaxonomySitemap) Active() bool          { return len(p.taxonomies) > 0 }
func (p *TaxonomySitemap) Style() string         { return StyleMap }
func (p *TaxonomySitemap) Namespaces() Namespace { return 0 }

func (p *TaxonomySitemap) URLs(ctx context.Context, c Coordinate) ([]Entry, error) {
	w := p.part.Window(c.Page)
	terms, err := p.store.FetchTerms(ctx, p.taxonomies, w.Offset, w.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch terms: %w", err)
	}
	entries := make([]Entry, 0, len(terms))
	for _, t := range terms {
		entries = append(entries, Entry{Link: TermLink(p.siteURL, t.Taxonomy, t.Slug)})
	}
	return entries, nil
}

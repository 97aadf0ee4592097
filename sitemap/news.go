package sitemap

import (
	"context"
	"time"
)

// NewsWindow is how far back the news sitemap reaches.
const NewsWindow = 48 * time.Hour

// NewsSitemap lists items published within NewsWindow, with news:news
// blocks.
type NewsSitemap struct {
	types       []string
	publication string
	language    string
	adapter     *Adapter
	part        Partitioner
	filters     []ResultFilter
	now         func() time.Time
}

func newsPredicates(s *Settings) []Predicate {
	return []Predicate{SameHost(s.SiteURL), NotFlagged(FlagNewsExclude)}
}

func newsQuery(types []string, now time.Time) ItemQuery {
	return ItemQuery{Types: types, From: now.Add(-NewsWindow)}
}

// NewNewsSitemap returns the news sitemap provider. now supplies the
// reference time of the rolling window.
func NewNewsSitemap(s *Settings, store ContentStore, now func() time.Time, filters ...ResultFilter) *NewsSitemap {
	return &NewsSitemap{
		types:       s.NewsPostTypes,
		publication: s.NewsName,
		language:    s.NewsLanguage,
		adapter:     NewAdapter(store, newsPredicates(s)...),
		part:        newsPartitioner(s.NewsPerPage),
		filters:     filters,
		now:         now,
	}
}

// NewNewsIndex returns the index of news sitemap pages.
func NewNewsIndex(s *Settings, store ContentStore, router *Router, now func() time.Time) IndexProvider {
	adapter := NewAdapter(store, newsPredicates(s)...)
	types := s.NewsPostTypes
	return &flatIndex{
		target: TargetNews,
		active: len(types) > 0,
		count: func(ctx context.Context) (int, error) {
			return adapter.Count(ctx, newsQuery(types, now()))
		},
		part:   newsPartitioner(s.NewsPerPage),
		router: router,
	}
}

// newsPartitioner bounds news pages to [1, MaxNewsPageSize], defaulting to
// the maximum.
func newsPartitioner(size int) Partitioner {
	if size < 1 || size > MaxNewsPageSize {
		size = MaxNewsPageSize
	}
	return Partitioner{size: size}
}

func (p *NewsSitemap) Target() string        { return TargetNews }
func (p *NewsSitemap) Active() bool          { return len(p.types) > 0 }
func (p *NewsSitemap) Style() string         { return StyleNews }
func (p *NewsSitemap) Namespaces() Namespace { return NSNews }

func (p *NewsSitemap) URLs(ctx context.Context, c Coordinate) ([]Entry, error) {
	items, err := p.adapter.Window(ctx, newsQuery(p.types, p.now()), p.part.Window(c.Page))
	if err != nil {
		return nil, err
	}
	items = applyFilters(ctx, p.filters, c, items)
	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		entries = append(entries, Entry{
			Link:    it.Permalink,
			LastMod: it.Modified,
			News: &News{
				Publication: p.publication,
				Language:    p.language,
				Title:       it.Title,
				Published:   it.Published,
			},
		})
	}
	return entries, nil
}

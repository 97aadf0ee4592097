package sitemap

import (
	"context"
)

// MapProvider produces the entries of leaf sitemap pages for one target.
type MapProvider interface {
	Target() string
	Active() bool
	Namespaces() Namespace
	Style() string
	URLs(ctx context.Context, c Coordinate) ([]Entry, error)
}

// IndexProvider produces the sitemap index for one target.
type IndexProvider interface {
	Target() string
	Active() bool
	Entries(ctx context.Context) ([]IndexEntry, error)
}

// ResultFilter rewrites the items of one page after store predicates ran
// and before entries are built. Filters run in registration order.
type ResultFilter interface {
	FilterResults(ctx context.Context, c Coordinate, items []Item) []Item
}

// ResultFilterFunc adapts a function to ResultFilter.
type ResultFilterFunc func(ctx context.Context, c Coordinate, items []Item) []Item

func (f ResultFilterFunc) FilterResults(ctx context.Context, c Coordinate, items []Item) []Item {
	return f(ctx, c, items)
}

func applyFilters(ctx context.Context, filters []ResultFilter, c Coordinate, items []Item) []Item {
	for _, f := range filters {
		items = f.FilterResults(ctx, c, items)
	}
	return items
}

// monthlyIndex lists one page per month of eligible items.
type monthlyIndex struct {
	target  string
	active  bool
	adapter *Adapter
	query   ItemQuery
	part    Partitioner
	router  *Router
}

func (p *monthlyIndex) Target() string { return p.target }
func (p *monthlyIndex) Active() bool   { return p.active }

func (p *monthlyIndex) Entries(ctx context.Context) ([]IndexEntry, error) {
	buckets, err := p.adapter.Buckets(ctx, p.query)
	if err != nil {
		return nil, err
	}
	var entries []IndexEntry
	for _, pd := range p.part.Partition(buckets) {
		c := MapOf(p.target, pd.Bucket.Year, pd.Bucket.Month, pd.Page)
		entries = append(entries, IndexEntry{Loc: p.router.BuildURL(c)})
	}
	return entries, nil
}

// flatIndex lists ceil(total/size) pages of an undated target.
type flatIndex struct {
	target string
	active bool
	count  func(ctx context.Context) (int, error)
	part   Partitioner
	router *Router
}

func (p *flatIndex) Target() string { return p.target }
func (p *flatIndex) Active() bool   { return p.active }

func (p *flatIndex) Entries(ctx context.Context) ([]IndexEntry, error) {
	total, err := p.count(ctx)
	if err != nil {
		return nil, err
	}
	n := p.part.PageCount(total)
	entries := make([]IndexEntry, 0, n)
	for i := 1; i <= n; i++ {
		entries = append(entries, IndexEntry{Loc: p.router.BuildURL(PageOf(p.target, i))})
	}
	return entries, nil
}

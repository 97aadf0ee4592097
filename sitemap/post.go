package sitemap

import (
	"context"
	"fmt"
)

// PostSitemap lists published items of the configured types, one calendar
// month per document series.
type PostSitemap struct {
	types   []string
	policy  AttachmentPolicy
	adapter *Adapter
	part    Partitioner
	filters []ResultFilter
}

func postPredicates(s *Settings) []Predicate {
	preds := []Predicate{SameHost(s.SiteURL)}
	if s.ExclusionPerPost {
		preds = append(preds, NotFlagged(FlagSitemapExclude))
	}
	return preds
}

// NewPostSitemap returns the post sitemap provider.
func NewPostSitemap(s *Settings, store ContentStore, filters ...ResultFilter) *PostSitemap {
	return &PostSitemap{
		types:   s.PostTypes,
		policy:  s.Attachments,
		adapter: NewAdapter(store, postPredicates(s)...),
		part:    NewPartitioner(s.PerPage),
		filters: filters,
	}
}

// NewPostIndex returns the index of post sitemap pages.
func NewPostIndex(s *Settings, store ContentStore, router *Router) IndexProvider {
	return &monthlyIndex{
		target:  TargetPost,
		active:  len(s.PostTypes) > 0,
		adapter: NewAdapter(store, postPredicates(s)...),
		query:   ItemQuery{Types: s.PostTypes},
		part:    NewPartitioner(s.PerPage),
		router:  router,
	}
}

func (p *PostSitemap) Target() string { return TargetPost }
func (p *PostSitemap) Active() bool   { return len(p.types) > 0 }
func (p *PostSitemap) Style() string  { return StyleMap }

func (p *PostSitemap) Namespaces() Namespace {
	if p.policy == AttachmentsInline {
		return NSImage
	}
	return 0
}

func (p *PostSitemap) URLs(ctx context.Context, c Coordinate) ([]Entry, error) {
	from, to, err := MonthRange(c.Year, c.Month)
	if err != nil {
		return nil, err
	}
	q := ItemQuery{Types: p.types, From: from, To: to}
	items, err := p.adapter.Window(ctx, q, p.part.Window(c.Page))
	if err != nil {
		return nil, err
	}
	items = applyFilters(ctx, p.filters, c, items)
	if len(items) == 0 {
		return nil, nil
	}
	var images map[int64][]string
	if p.policy == AttachmentsInline {
		images, err = p.childImages(ctx, items)
		if err != nil {
			return nil, err
		}
	}
	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		entries = append(entries, Entry{
			Link:    it.Permalink,
			LastMod: it.Modified,
			Images:  images[it.ID],
		})
	}
	return entries, nil
}

// childImages loads the image attachments of all items with one query,
// grouped by parent.
func (p *PostSitemap) childImages(ctx context.Context, items []Item) (map[int64][]string, error) {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	children, err := p.adapter.Store().FetchChildImages(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch child images: %w", err)
	}
	images := make(map[int64][]string, len(children))
	for _, ch := range children {
		if !ch.IsImage() || ch.FileURL == "" {
			continue
		}
		images[ch.ParentID] = append(images[ch.ParentID], ch.FileURL)
	}
	return images, nil
}

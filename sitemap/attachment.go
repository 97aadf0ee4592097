package sitemap

import "context"

// AttachmentType is the item type of uploaded media.
const AttachmentType = "attachment"

// AttachmentSitemap lists image attachments of published items in a sitemap
// series of their own.
type AttachmentSitemap struct {
	active  bool
	adapter *Adapter
	part    Partitioner
	filters []ResultFilter
}

func attachmentQuery() ItemQuery {
	return ItemQuery{Types: []string{AttachmentType}, ImagesOnly: true}
}

// NewAttachmentSitemap returns the attachment sitemap provider.
func NewAttachmentSitemap(s *Settings, store ContentStore, filters ...ResultFilter) *AttachmentSitemap {
	return &AttachmentSitemap{
		active:  s.Attachments == AttachmentsSeparate,
		adapter: NewAdapter(store, SameHost(s.SiteURL)),
		part:    NewPartitioner(s.PerPage),
		filters: filters,
	}
}

// NewAttachmentIndex returns the index of attachment sitemap pages.
func NewAttachmentIndex(s *Settings, store ContentStore, router *Router) IndexProvider {
	return &monthlyIndex{
		target:  TargetAttachment,
		active:  s.Attachments == AttachmentsSeparate,
		adapter: NewAdapter(store, SameHost(s.SiteURL)),
		query:   attachmentQuery(),
		part:    NewPartitioner(s.PerPage),
		router:  router,
	}
}

func (p *AttachmentSitemap) Target() string        { return TargetAttachment }
func (p *AttachmentSitemap) Active() bool          { return p.active }
func (p *AttachmentSitemap) Style() string         { return StyleMap }
func (p *AttachmentSitemap) Namespaces() Namespace { return NSImage }

func (p *AttachmentSitemap) URLs(ctx context.Context, c Coordinate) ([]Entry, error) {
	from, to, err := MonthRange(c.Year, c.Month)
	if err != nil {
		return nil, err
	}
	q := attachmentQuery()
	q.From, q.To = from, to
	items, err := p.adapter.Window(ctx, q, p.part.Window(c.Page))
	if err != nil {
		return nil, err
	}
	items = applyFilters(ctx, p.filters, c, items)
	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		e := Entry{Link: it.Permalink, LastMod: it.Modified}
		if it.FileURL != "" {
			e.Images = []string{it.FileURL}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

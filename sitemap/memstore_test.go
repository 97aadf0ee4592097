package sitemap

import (
	"context"
	"sort"
	"strconv"
	"time"
)

// memStore is an in-memory ContentStore. With caps it evaluates host and
// flag filters itself, otherwise it ignores them like a limited backend.
type memStore struct {
	items   []Item
	terms   []Term
	caps    Capability
	err     error
	queries int
}

func (m *memStore) Capabilities() Capability { return m.caps }

func (m *memStore) byID(id int64) (Item, bool) {
	for _, it := range m.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func (m *memStore) published(it Item) bool {
	if it.Type == AttachmentType {
		parent, ok := m.byID(it.ParentID)
		return it.Status == "inherit" && ok && parent.Status == "publish"
	}
	return it.Status == "publish"
}

func (m *memStore) match(q ItemQuery) []Item {
	var out []Item
	for _, it := range m.items {
		if !contains(q.Types, it.Type) || !m.published(it) {
			continue
		}
		if q.ImagesOnly && !it.IsImage() {
			continue
		}
		if !q.From.IsZero() && it.Published.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && !it.Published.Before(q.To) {
			continue
		}
		if m.caps.Has(CapHostFilter) && q.Host != "" {
			if h := NormalizeHost(it.Permalink); h != "" && h != q.Host {
				continue
			}
		}
		if m.caps.Has(CapFlagFilter) && it.Flags.Has(q.ExcludeFlags) {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Published.Equal(out[j].Published) {
			return out[i].Published.After(out[j].Published)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *memStore) CountByMonth(ctx context.Context, q ItemQuery) ([]Bucket, error) {
	m.queries++
	if m.err != nil {
		return nil, m.err
	}
	counts := map[[2]int]int{}
	for _, it := range m.match(q) {
		t := it.Published.UTC()
		counts[[2]int{t.Year(), int(t.Month())}]++
	}
	var buckets []Bucket
	for k, n := range counts {
		buckets = append(buckets, Bucket{Year: k[0], Month: k[1], Count: n})
	}
	return buckets, nil
}

func (m *memStore) CountItems(ctx context.Context, q ItemQuery) (int, error) {
	m.queries++
	if m.err != nil {
		return 0, m.err
	}
	return len(m.match(q)), nil
}

func (m *memStore) FetchItems(ctx context.Context, q ItemQuery) ([]Item, error) {
	m.queries++
	if m.err != nil {
		return nil, m.err
	}
	all := m.match(q)
	if q.Offset >= len(all) {
		return nil, nil
	}
	all = all[q.Offset:]
	if q.Limit > 0 && q.Limit < len(all) {
		all = all[:q.Limit]
	}
	return all, nil
}

func (m *memStore) EachItem(ctx context.Context, q ItemQuery, fn func(Item) error) error {
	m.queries++
	if m.err != nil {
		return m.err
	}
	for _, it := range m.match(q) {
		if err := fn(it); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) FetchChildImages(ctx context.Context, parentIDs []int64) ([]Item, error) {
	m.queries++
	if m.err != nil {
		return nil, m.err
	}
	var out []Item
	for _, it := range m.items {
		if it.Type == AttachmentType && it.IsImage() && containsID(parentIDs, it.ParentID) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memStore) activeTerms(taxonomies []string) []Term {
	var out []Term
	for _, t := range m.terms {
		if contains(taxonomies, t.Taxonomy) && t.Count > 0 {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) CountTerms(ctx context.Context, taxonomies []string) (int, error) {
	m.queries++
	if m.err != nil {
		return 0, m.err
	}
	return len(m.activeTerms(taxonomies)), nil
}

func (m *memStore) FetchTerms(ctx context.Context, taxonomies []string, offset, limit int) ([]Term, error) {
	m.queries++
	if m.err != nil {
		return nil, m.err
	}
	all := m.activeTerms(taxonomies)
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func contains(vals []string, v string) bool {
	for _, s := range vals {
		if s == v {
			return true
		}
	}
	return false
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

const testSite = "https://example.com"

// post returns a published post on testSite.
func post(id int64, published time.Time) Item {
	return Item{
		ID:        id,
		Type:      "post",
		Status:    "publish",
		Title:     "Post",
		Permalink: testSite + "/blog/p" + itoa(id) + "/",
		Published: published,
		Modified:  published,
	}
}

func image(id, parent int64, published time.Time) Item {
	return Item{
		ID:        id,
		Type:      AttachmentType,
		Status:    "inherit",
		ParentID:  parent,
		MIMEType:  "image/jpeg",
		Permalink: testSite + "/attachment/" + itoa(id) + "/",
		FileURL:   testSite + "/public/uploads/" + itoa(id) + ".jpg",
		Published: published,
		Modified:  published,
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

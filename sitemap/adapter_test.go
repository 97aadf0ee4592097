package sitemap

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 12, 0, 0, 0, time.UTC)
}

func external(it Item) Item {
	it.Permalink = "https://elsewhere.example.org/p/" + itoa(it.ID) + "/"
	return it
}

func mixedStore(caps Capability) *memStore {
	s := &memStore{caps: caps}
	// January: 3 local posts, one flagged.
	s.items = append(s.items, post(1, date(2024, 1, 3)), post(2, date(2024, 1, 5)), post(3, date(2024, 1, 9)))
	s.items[2].Flags = FlagSitemapExclude
	// February: all external.
	for i := int64(10); i < 15; i++ {
		s.items = append(s.items, external(post(i, date(2024, 2, int(i)))))
	}
	// March: 4 local, 2 external interleaved.
	s.items = append(s.items,
		post(20, date(2024, 3, 1)),
		external(post(21, date(2024, 3, 2))),
		post(22, date(2024, 3, 3)),
		external(post(23, date(2024, 3, 4))),
		post(24, date(2024, 3, 5)),
		post(25, date(2024, 3, 6)),
	)
	return s
}

func TestNormalizeHost(t *testing.T) {
	c := qt.New(t)

	c.Assert(NormalizeHost("https://Example.COM:8443/path"), qt.Equals, "example.com")
	c.Assert(NormalizeHost("https://bücher.example/"), qt.Equals, "xn--bcher-kva.example")
	c.Assert(NormalizeHost("/relative/path"), qt.Equals, "")
	c.Assert(NormalizeHost("https://example.com./"), qt.Equals, "example.com")
}

func TestAdapterPushdownMatchesResidual(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	preds := []Predicate{SameHost(testSite), NotFlagged(FlagSitemapExclude)}
	q := ItemQuery{Types: []string{"post"}}

	pushed := NewAdapter(mixedStore(CapHostFilter|CapFlagFilter), preds...)
	residual := NewAdapter(mixedStore(0), preds...)
	partial := NewAdapter(mixedStore(CapFlagFilter), preds...)

	want := []Bucket{{Year: 2024, Month: 1, Count: 2}, {Year: 2024, Month: 3, Count: 4}}
	for _, a := range []*Adapter{pushed, residual, partial} {
		got, err := a.Buckets(ctx, q)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.DeepEquals, want)

		n, err := a.Count(ctx, q)
		c.Assert(err, qt.IsNil)
		c.Assert(n, qt.Equals, 6)
	}

	from, to, _ := MonthRange(2024, 3)
	mq := ItemQuery{Types: []string{"post"}, From: from, To: to}
	var pages [][]int64
	for _, a := range []*Adapter{pushed, residual} {
		var ids []int64
		for page := 1; page <= 3; page++ {
			items, err := a.Window(ctx, mq, NewPartitioner(3).Window(page))
			c.Assert(err, qt.IsNil)
			for _, it := range items {
				ids = append(ids, it.ID)
			}
			if page == 2 {
				c.Assert(items, qt.HasLen, 1)
			}
			if page == 3 {
				c.Assert(items, qt.HasLen, 0)
			}
		}
		pages = append(pages, ids)
	}
	c.Assert(pages[0], qt.DeepEquals, []int64{25, 24, 22, 20})
	c.Assert(pages[1], qt.DeepEquals, pages[0])
}

func TestAdapterPushdownUsesOneQuery(t *testing.T) {
	c := qt.New(t)

	store := mixedStore(CapHostFilter | CapFlagFilter)
	a := NewAdapter(store, SameHost(testSite), NotFlagged(FlagSitemapExclude))
	_, err := a.Buckets(context.Background(), ItemQuery{Types: []string{"post"}})
	c.Assert(err, qt.IsNil)
	c.Assert(store.queries, qt.Equals, 1)
}

func TestAdapterInvalidRange(t *testing.T) {
	c := qt.New(t)

	a := NewAdapter(&memStore{})
	_, err := a.Window(context.Background(), ItemQuery{From: date(2024, 2, 1), To: date(2024, 1, 1)}, Window{Limit: 10})
	c.Assert(err, qt.ErrorIs, ErrInvalidRange)
}

func TestAdapterEmptyResultIsValid(t *testing.T) {
	c := qt.New(t)

	a := NewAdapter(&memStore{}, SameHost(testSite))
	buckets, err := a.Buckets(context.Background(), ItemQuery{Types: []string{"post"}})
	c.Assert(err, qt.IsNil)
	c.Assert(buckets, qt.HasLen, 0)
}

package sitemap

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeHost returns the lower-case ASCII host of a URL, or "" when the
// URL has none.
func NormalizeHost(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	return host
}

// Predicate is one eligibility rule. Push moves the rule into q when the
// store advertises the needed capability and reports whether it did so.
type Predicate interface {
	Keep(it Item) bool
	Push(q *ItemQuery, caps Capability) bool
}

type sameHost struct {
	host string
}

// SameHost keeps items whose permalink host equals the host of siteURL.
// Items without an absolute permalink are kept.
func SameHost(siteURL string) Predicate {
	return sameHost{host: NormalizeHost(siteURL)}
}

func (p sameHost) Keep(it Item) bool {
	h := NormalizeHost(it.Permalink)
	return h == "" || h == p.host
}

func (p sameHost) Push(q *ItemQuery, caps Capability) bool {
	if !caps.Has(CapHostFilter) {
		return false
	}
	q.Host = p.host
	return true
}

type notFlagged struct {
	flags Flags
}

// NotFlagged drops items carrying any of flags.
func NotFlagged(flags Flags) Predicate {
	return notFlagged{flags: flags}
}

func (p notFlagged) Keep(it Item) bool {
	return !it.Flags.Has(p.flags)
}

func (p notFlagged) Push(q *ItemQuery, caps Capability) bool {
	if !caps.Has(CapFlagFilter) {
		return false
	}
	q.ExcludeFlags |= p.flags
	return true
}

var errWindowFull = errors.New("window full")

// Adapter runs item queries through an eligibility pipeline. Predicates the
// store cannot evaluate are applied here, and counts and windows are then
// taken over the filtered stream.
type Adapter struct {
	store ContentStore
	preds []Predicate
}

// NewAdapter returns an Adapter applying preds to every query.
func NewAdapter(store ContentStore, preds ...Predicate) *Adapter {
	return &Adapter{store: store, preds: preds}
}

// Store returns the underlying content store.
func (a *Adapter) Store() ContentStore {
	return a.store
}

func (a *Adapter) plan(q ItemQuery) (ItemQuery, []Predicate) {
	caps := a.store.Capabilities()
	var residual []Predicate
	for _, p := range a.preds {
		if !p.Push(&q, caps) {
			residual = append(residual, p)
		}
	}
	return q, residual
}

func keepAll(it Item, preds []Predicate) bool {
	for _, p := range preds {
		if !p.Keep(it) {
			return false
		}
	}
	return true
}

// Buckets returns non-empty monthly counts of eligible items, oldest first.
func (a *Adapter) Buckets(ctx context.Context, q ItemQuery) ([]Bucket, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q, residual := a.plan(q)
	q.Offset, q.Limit = 0, 0
	buckets, err := a.store.CountByMonth(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count by month: %w", err)
	}
	if len(residual) > 0 {
		for i, b := range buckets {
			from, to, err := MonthRange(b.Year, b.Month)
			if err != nil {
				return nil, err
			}
			mq := q
			mq.From, mq.To = from, to
			n, err := a.countStream(ctx, mq, residual)
			if err != nil {
				return nil, err
			}
			buckets[i].Count = n
		}
	}
	out := buckets[:0]
	for _, b := range buckets {
		if b.Count > 0 {
			out = append(out, b)
		}
	}
	SortBuckets(out)
	return out, nil
}

// Count returns the number of eligible items.
func (a *Adapter) Count(ctx context.Context, q ItemQuery) (int, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	q, residual := a.plan(q)
	q.Offset, q.Limit = 0, 0
	if len(residual) == 0 {
		n, err := a.store.CountItems(ctx, q)
		if err != nil {
			return 0, fmt.Errorf("count items: %w", err)
		}
		return n, nil
	}
	return a.countStream(ctx, q, residual)
}

func (a *Adapter) countStream(ctx context.Context, q ItemQuery, preds []Predicate) (int, error) {
	n := 0
	err := a.store.EachItem(ctx, q, func(it Item) error {
		if keepAll(it, preds) {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan items: %w", err)
	}
	return n, nil
}

// Window returns one page of eligible items.
func (a *Adapter) Window(ctx context.Context, q ItemQuery, w Window) ([]Item, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q, residual := a.plan(q)
	if len(residual) == 0 {
		q.Offset, q.Limit = w.Offset, w.Limit
		items, err := a.store.FetchItems(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("fetch items: %w", err)
		}
		return items, nil
	}
	q.Offset, q.Limit = 0, 0
	skip := w.Offset
	var items []Item
	err := a.store.EachItem(ctx, q, func(it Item) error {
		if !keepAll(it, residual) {
			return nil
		}
		if skip > 0 {
			skip--
			return nil
		}
		items = append(items, it)
		if w.Limit > 0 && len(items) >= w.Limit {
			return errWindowFull
		}
		return nil
	})
	if err != nil && !errors.Is(err, errWindowFull) {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	return items, nil
}

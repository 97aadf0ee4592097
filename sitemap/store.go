package sitemap

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Flags are per-item boolean annotations.
type Flags uint8

const (
	FlagNewsExclude Flags = 1 << iota
	FlagSitemapExclude
	FlagNoindex
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagNewsExclude, "news_exclude"},
	{FlagSitemapExclude, "sitemap_exclude"},
	{FlagNoindex, "noindex"},
}

// Has reports whether any bit of o is set in f.
func (f Flags) Has(o Flags) bool {
	return f&o != 0
}

// Names returns the storage names of the set flags.
func (f Flags) Names() []string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return names
}

// ParseFlag returns the flag stored under name.
func ParseFlag(name string) (Flags, bool) {
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.flag, true
		}
	}
	return 0, false
}

// Item is one content row as seen by the sitemap engine.
type Item struct {
	ID          int64
	Type        string
	Status      string
	ParentID    int64
	Slug        string
	Title       string
	Permalink   string
	FileURL     string
	MIMEType    string
	Excerpt     string
	Content     string
	Description string
	Author      string
	Published   time.Time
	Modified    time.Time
	Flags       Flags
}

// IsImage reports whether the item is an image attachment.
func (it Item) IsImage() bool {
	return strings.HasPrefix(it.MIMEType, "image/")
}

// Term is a taxonomy term with its count of published items.
type Term struct {
	ID          int64
	Taxonomy    string
	Slug        string
	Name        string
	Description string
	Count       int
	Flags       Flags
}

// Capability describes which eligibility predicates a store evaluates itself.
type Capability uint8

const (
	CapHostFilter Capability = 1 << iota
	CapFlagFilter
)

// Has reports whether c includes o.
func (c Capability) Has(o Capability) bool {
	return c&o == o
}

// ItemQuery selects published items. From is inclusive and To exclusive;
// zero times leave the range open.
type ItemQuery struct {
	Types        []string
	From         time.Time
	To           time.Time
	Host         string
	ExcludeFlags Flags
	ImagesOnly   bool
	Offset       int
	Limit        int
}

// Validate checks the date range.
func (q ItemQuery) Validate() error {
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return fmt.Errorf("%w: %s after %s", ErrInvalidRange,
			q.From.Format(time.RFC3339), q.To.Format(time.RFC3339))
	}
	return nil
}

// ContentStore is the read side of a content database. Items come back
// ordered by publication date descending, then ID descending.
type ContentStore interface {
	Capabilities() Capability
	CountByMonth(ctx context.Context, q ItemQuery) ([]Bucket, error)
	CountItems(ctx context.Context, q ItemQuery) (int, error)
	FetchItems(ctx context.Context, q ItemQuery) ([]Item, error)
	EachItem(ctx context.Context, q ItemQuery, fn func(Item) error) error
	FetchChildImages(ctx context.Context, parentIDs []int64) ([]Item, error)
	CountTerms(ctx context.Context, taxonomies []string) (int, error)
	FetchTerms(ctx context.Context, taxonomies []string, offset, limit int) ([]Term, error)
}

// SortBuckets orders buckets by month ascending.
func SortBuckets(buckets []Bucket) {
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year < buckets[j].Year
		}
		return buckets[i].Month < buckets[j].Month
	})
}

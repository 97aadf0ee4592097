package sitemap

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultPageSize is used when no page size is configured.
	DefaultPageSize = 1000
	// MaxPageSize bounds the number of entries in one sitemap document.
	MaxPageSize = 5000
	// MaxNewsPageSize bounds news sitemap documents.
	MaxNewsPageSize = 1000
)

// ErrInvalidRange is returned for date ranges whose start is after their end
// and for impossible year/month pairs.
var ErrInvalidRange = errors.New("sitemap: invalid range")

// ClampPageSize bounds n to [1, MaxPageSize]. Zero and negative values fall
// back to DefaultPageSize.
func ClampPageSize(n int) int {
	switch {
	case n < 1:
		return DefaultPageSize
	case n > MaxPageSize:
		return MaxPageSize
	}
	return n
}

// Bucket is the number of eligible items published in one calendar month.
type Bucket struct {
	Year  int
	Month int
	Count int
}

// PageDescriptor addresses one page of a bucket.
type PageDescriptor struct {
	Bucket Bucket
	Page   int
	Size   int
}

// Window is the offset/limit pair of one page.
type Window struct {
	Offset int
	Limit  int
}

// Partitioner turns item counts into page boundaries.
type Partitioner struct {
	size int
}

// NewPartitioner returns a Partitioner for the clamped page size.
func NewPartitioner(size int) Partitioner {
	return Partitioner{size: ClampPageSize(size)}
}

// Size returns the page size.
func (p Partitioner) Size() int {
	if p.size == 0 {
		return DefaultPageSize
	}
	return p.size
}

// PageCount returns ceil(total/size), or 0 for an empty set.
func (p Partitioner) PageCount(total int) int {
	if total <= 0 {
		return 0
	}
	size := p.Size()
	return (total + size - 1) / size
}

// LastPageSize returns the number of items on the final page.
func (p Partitioner) LastPageSize(total int) int {
	pages := p.PageCount(total)
	if pages == 0 {
		return 0
	}
	return total - (pages-1)*p.Size()
}

// Pages returns the contiguous page descriptors of b, starting at 1.
func (p Partitioner) Pages(b Bucket) []PageDescriptor {
	n := p.PageCount(b.Count)
	pages := make([]PageDescriptor, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, PageDescriptor{Bucket: b, Page: i, Size: p.Size()})
	}
	return pages
}

// Partition expands buckets into pages. Empty buckets are dropped.
func (p Partitioner) Partition(buckets []Bucket) []PageDescriptor {
	var pages []PageDescriptor
	for _, b := range buckets {
		pages = append(pages, p.Pages(b)...)
	}
	return pages
}

// Window returns the fetch window for a 1-based page number.
func (p Partitioner) Window(page int) Window {
	if page < 1 {
		page = 1
	}
	size := p.Size()
	return Window{Offset: (page - 1) * size, Limit: size}
}

// MonthRange returns the UTC bounds of a calendar month as [from, to).
func MonthRange(year, month int) (time.Time, time.Time, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %04d-%02d", ErrInvalidRange, year, month)
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

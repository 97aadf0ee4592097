package sitemap

import "fmt"

// Kind is the document kind addressed by a Coordinate.
type Kind string

const (
	KindIndex Kind = "index"
	KindMap   Kind = "map"
	KindStyle Kind = "style"
)

// Sitemap targets.
const (
	TargetPost       = "post"
	TargetNews       = "news"
	TargetTaxonomy   = "taxonomy"
	TargetAttachment = "attachment"
)

// Stylesheet names.
const (
	StyleIndex = "index"
	StyleMap   = "map"
	StyleNews  = "news"
)

// Coordinate identifies exactly one renderable document.
type Coordinate struct {
	Kind   Kind
	Target string
	Year   int
	Month  int
	Page   int
}

// Dated reports whether documents of target are partitioned by month.
func Dated(target string) bool {
	return target == TargetPost || target == TargetAttachment
}

// IndexOf returns the coordinate of the index document for target.
func IndexOf(target string) Coordinate {
	return Coordinate{Kind: KindIndex, Target: target, Page: 1}
}

// MapOf returns the coordinate of one page of a month-partitioned sitemap.
func MapOf(target string, year, month, page int) Coordinate {
	return Coordinate{Kind: KindMap, Target: target, Year: year, Month: month, Page: page}
}

// PageOf returns the coordinate of one page of an undated sitemap.
func PageOf(target string, page int) Coordinate {
	return Coordinate{Kind: KindMap, Target: target, Page: page}
}

// StyleOf returns the coordinate of a stylesheet.
func StyleOf(name string) Coordinate {
	return Coordinate{Kind: KindStyle, Target: name, Page: 1}
}

// Valid reports whether the coordinate is structurally well formed.
func (c Coordinate) Valid() bool {
	if c.Target == "" || c.Page < 1 {
		return false
	}
	switch c.Kind {
	case KindIndex, KindStyle:
		return c.Page == 1 && c.Year == 0 && c.Month == 0
	case KindMap:
		if Dated(c.Target) {
			return c.Year >= 1 && c.Year <= 9999 && c.Month >= 1 && c.Month <= 12
		}
		return c.Year == 0 && c.Month == 0
	}
	return false
}

func (c Coordinate) String() string {
	switch {
	case c.Kind == KindMap && Dated(c.Target):
		return fmt.Sprintf("%s/%s/%04d-%02d/%d", c.Kind, c.Target, c.Year, c.Month, c.Page)
	case c.Kind == KindMap:
		return fmt.Sprintf("%s/%s/%d", c.Kind, c.Target, c.Page)
	}
	return fmt.Sprintf("%s/%s", c.Kind, c.Target)
}

type routeKey struct {
	kind   Kind
	target string
}

func (c Coordinate) key() routeKey {
	return routeKey{kind: c.Kind, target: c.Target}
}

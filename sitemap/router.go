package sitemap

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Query parameter names of the non-pretty URL form.
const (
	QueryType   = "sitemap_type"
	QueryTarget = "sitemap_target"
	QueryYear   = "year"
	QueryMonth  = "monthnum"
	QueryPage   = "paged"
)

var (
	reIndex    = regexp.MustCompile(`^sitemap_index_([^/]+)\.xml$`)
	reDated    = regexp.MustCompile(`^sitemap_([^/]+)_(\d{4})(\d{2})_([1-9]\d*)\.xml$`)
	reNews     = regexp.MustCompile(`^sitemap_news_([1-9]\d*)\.xml$`)
	reTaxonomy = regexp.MustCompile(`^sitemap_taxonomy_([1-9]\d*)\.xml$`)
	reStyle    = regexp.MustCompile(`^sitemap_style_([^/]+)\.xsl$`)
)

// Router maps coordinates to URLs and back. Both URL forms are always
// accepted; BuildURL emits the configured one.
type Router struct {
	siteURL  string
	basePath string
	pretty   bool
}

// NewRouter returns a Router for the site rooted at siteURL.
func NewRouter(siteURL string, pretty bool) *Router {
	siteURL = strings.TrimRight(siteURL, "/")
	basePath := ""
	if u, err := url.Parse(siteURL); err == nil {
		basePath = strings.TrimRight(u.Path, "/")
	}
	return &Router{siteURL: siteURL, basePath: basePath, pretty: pretty}
}

// SiteURL returns the site root without a trailing slash.
func (r *Router) SiteURL() string {
	return r.siteURL
}

// BuildURL returns the absolute URL of c.
func (r *Router) BuildURL(c Coordinate) string {
	if r.pretty {
		return r.siteURL + "/" + r.fileName(c)
	}
	v := url.Values{}
	v.Set(QueryType, string(c.Kind))
	v.Set(QueryTarget, c.Target)
	if c.Kind == KindMap {
		if Dated(c.Target) {
			v.Set(QueryYear, strconv.Itoa(c.Year))
			v.Set(QueryMonth, strconv.Itoa(c.Month))
		}
		v.Set(QueryPage, strconv.Itoa(c.Page))
	}
	return r.siteURL + "/?" + v.Encode()
}

func (r *Router) fileName(c Coordinate) string {
	switch c.Kind {
	case KindIndex:
		return fmt.Sprintf("sitemap_index_%s.xml", c.Target)
	case KindStyle:
		return fmt.Sprintf("sitemap_style_%s.xsl", c.Target)
	}
	if Dated(c.Target) {
		return fmt.Sprintf("sitemap_%s_%04d%02d_%d.xml", c.Target, c.Year, c.Month, c.Page)
	}
	return fmt.Sprintf("sitemap_%s_%d.xml", c.Target, c.Page)
}

// Match decodes a request path and query into a coordinate. It reports false
// for anything that is not a well-formed sitemap address.
func (r *Router) Match(path string, query url.Values) (Coordinate, bool) {
	rel, ok := r.relative(path)
	if !ok {
		return Coordinate{}, false
	}
	if rel == "" {
		return matchQuery(query)
	}
	return matchFile(rel)
}

// relative strips the site base path and returns the remaining file name,
// or "" for the site root.
func (r *Router) relative(path string) (string, bool) {
	if r.basePath != "" {
		if path != r.basePath && !strings.HasPrefix(path, r.basePath+"/") {
			return "", false
		}
		path = strings.TrimPrefix(path, r.basePath)
	}
	path = strings.TrimPrefix(path, "/")
	if strings.Contains(path, "/") {
		return "", false
	}
	return path, true
}

func matchFile(name string) (Coordinate, bool) {
	if m := reIndex.FindStringSubmatch(name); m != nil {
		return valid(IndexOf(m[1]))
	}
	if m := reDated.FindStringSubmatch(name); m != nil {
		year, _ := strconv.Atoi(m[2])
		month, _ := strconv.Atoi(m[3])
		page, err := strconv.Atoi(m[4])
		if err != nil {
			return Coordinate{}, false
		}
		return valid(MapOf(m[1], year, month, page))
	}
	if m := reNews.FindStringSubmatch(name); m != nil {
		return pageMatch(TargetNews, m[1])
	}
	if m := reTaxonomy.FindStringSubmatch(name); m != nil {
		return pageMatch(TargetTaxonomy, m[1])
	}
	if m := reStyle.FindStringSubmatch(name); m != nil {
		return valid(StyleOf(m[1]))
	}
	return Coordinate{}, false
}

func pageMatch(target, raw string) (Coordinate, bool) {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return Coordinate{}, false
	}
	return valid(PageOf(target, page))
}

func matchQuery(q url.Values) (Coordinate, bool) {
	kind := q.Get(QueryType)
	target := q.Get(QueryTarget)
	if kind == "" {
		return Coordinate{}, false
	}
	switch Kind(kind) {
	case KindIndex:
		return valid(IndexOf(target))
	case KindStyle:
		return valid(StyleOf(target))
	case KindMap:
	case Kind(TargetNews):
		// News pages were historically addressed by type.
		if target == "" {
			target = TargetNews
		}
		if target != TargetNews {
			return Coordinate{}, false
		}
	default:
		return Coordinate{}, false
	}
	page := 1
	if raw := q.Get(QueryPage); raw != "" {
		n, ok := canonicalInt(raw)
		if !ok {
			return Coordinate{}, false
		}
		page = n
	}
	if !Dated(target) {
		return valid(PageOf(target, page))
	}
	year, err := strconv.Atoi(q.Get(QueryYear))
	if err != nil {
		return Coordinate{}, false
	}
	month, err := strconv.Atoi(q.Get(QueryMonth))
	if err != nil {
		return Coordinate{}, false
	}
	return valid(MapOf(target, year, month, page))
}

// canonicalInt parses a page number written the way BuildURL writes it, so
// "01" and "+1" do not alias "1".
func canonicalInt(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || strconv.Itoa(n) != raw {
		return 0, false
	}
	return n, true
}

func valid(c Coordinate) (Coordinate, bool) {
	if !c.Valid() {
		return Coordinate{}, false
	}
	return c, true
}

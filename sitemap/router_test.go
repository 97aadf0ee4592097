package sitemap

import (
	"net/url"
	"testing"

	qt "github.com/frankban/quicktest"
)

func splitURL(c *qt.C, raw string) (string, url.Values) {
	u, err := url.Parse(raw)
	c.Assert(err, qt.IsNil)
	return u.Path, u.Query()
}

func TestRouterRoundTrip(t *testing.T) {
	c := qt.New(t)

	coords := []Coordinate{
		IndexOf(TargetPost),
		IndexOf(TargetNews),
		IndexOf(TargetTaxonomy),
		IndexOf(TargetAttachment),
		MapOf(TargetPost, 2024, 1, 1),
		MapOf(TargetPost, 2023, 12, 17),
		MapOf(TargetAttachment, 2019, 7, 2),
		PageOf(TargetNews, 1),
		PageOf(TargetNews, 3),
		PageOf(TargetTaxonomy, 4),
		StyleOf(StyleIndex),
		StyleOf(StyleMap),
		StyleOf(StyleNews),
	}
	for _, site := range []string{"https://example.com", "https://example.com/sub/"} {
		for _, pretty := range []bool{true, false} {
			r := NewRouter(site, pretty)
			for _, want := range coords {
				path, query := splitURL(c, r.BuildURL(want))
				got, ok := r.Match(path, query)
				c.Assert(ok, qt.IsTrue, qt.Commentf("%s pretty=%v %s", site, pretty, want))
				c.Assert(got, qt.Equals, want)
			}
		}
	}
}

func TestRouterBuildURL(t *testing.T) {
	c := qt.New(t)

	pretty := NewRouter("https://example.com/", true)
	c.Assert(pretty.BuildURL(IndexOf(TargetPost)), qt.Equals, "https://example.com/sitemap_index_post.xml")
	c.Assert(pretty.BuildURL(MapOf(TargetPost, 2024, 3, 2)), qt.Equals, "https://example.com/sitemap_post_202403_2.xml")
	c.Assert(pretty.BuildURL(PageOf(TargetNews, 1)), qt.Equals, "https://example.com/sitemap_news_1.xml")
	c.Assert(pretty.BuildURL(PageOf(TargetTaxonomy, 2)), qt.Equals, "https://example.com/sitemap_taxonomy_2.xml")
	c.Assert(pretty.BuildURL(StyleOf(StyleMap)), qt.Equals, "https://example.com/sitemap_style_map.xsl")

	plain := NewRouter("https://example.com", false)
	c.Assert(plain.BuildURL(MapOf(TargetPost, 2024, 3, 2)), qt.Equals,
		"https://example.com/?monthnum=3&paged=2&sitemap_target=post&sitemap_type=map&year=2024")
	c.Assert(plain.BuildURL(IndexOf(TargetNews)), qt.Equals,
		"https://example.com/?sitemap_target=news&sitemap_type=index")
}

func TestRouterAcceptsBothForms(t *testing.T) {
	c := qt.New(t)

	r := NewRouter("https://example.com", true)
	got, ok := r.Match("/", url.Values{
		QueryType:   {"map"},
		QueryTarget: {"post"},
		QueryYear:   {"2024"},
		QueryMonth:  {"02"},
		QueryPage:   {"5"},
	})
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, MapOf(TargetPost, 2024, 2, 5))

	got, ok = r.Match("/sitemap_post_202402_5.xml", nil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, MapOf(TargetPost, 2024, 2, 5))
}

func TestRouterQueryDefaults(t *testing.T) {
	c := qt.New(t)

	r := NewRouter("https://example.com", false)

	got, ok := r.Match("/", url.Values{QueryType: {"map"}, QueryTarget: {"taxonomy"}})
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, PageOf(TargetTaxonomy, 1))

	got, ok = r.Match("/", url.Values{QueryType: {"news"}, QueryPage: {"2"}})
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, PageOf(TargetNews, 2))

	got, ok = r.Match("/", url.Values{QueryType: {"index"}, QueryTarget: {"post"}, QueryPage: {"9"}})
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, IndexOf(TargetPost))
}

func TestRouterRejectsMalformed(t *testing.T) {
	c := qt.New(t)

	r := NewRouter("https://example.com/blog", true)
	for _, test := range []struct {
		path  string
		query url.Values
	}{
		{"/blog/sitemap_post_202413_1.xml", nil},
		{"/blog/sitemap_post_202400_1.xml", nil},
		{"/blog/sitemap_post_202401_0.xml", nil},
		{"/blog/sitemap_news_0.xml", nil},
		{"/blog/sitemap_news_001.xml", nil},
		{"/blog/sitemap_taxonomy_02.xml", nil},
		{"/blog/sitemap_post_202401_01.xml", nil},
		{"/blog/sitemap_news_202401_1.xml", nil},
		{"/blog/sitemap_taxonomy_x.xml", nil},
		{"/blog/sitemap_post_202401_99999999999999999999.xml", nil},
		{"/blog/nested/sitemap_index_post.xml", nil},
		{"/sitemap_index_post.xml", nil},
		{"/blog/sitemap_index_.xml", nil},
		{"/blog/feed.xml", nil},
		{"/blog/", url.Values{QueryType: {"map"}, QueryTarget: {"post"}, QueryPage: {"1"}}},
		{"/blog/", url.Values{QueryType: {"map"}, QueryTarget: {"post"}, QueryYear: {"2024"}, QueryMonth: {"1"}, QueryPage: {"x"}}},
		{"/blog/", url.Values{QueryType: {"map"}, QueryTarget: {"news"}, QueryPage: {"-1"}}},
		{"/blog/", url.Values{QueryType: {"map"}, QueryTarget: {"news"}, QueryPage: {"01"}}},
		{"/blog/", url.Values{QueryType: {"map"}, QueryTarget: {"news"}, QueryPage: {"+1"}}},
		{"/blog/", url.Values{QueryType: {"news"}, QueryTarget: {"post"}}},
		{"/blog/", url.Values{QueryType: {"bogus"}, QueryTarget: {"post"}}},
		{"/blog/", url.Values{}},
	} {
		_, ok := r.Match(test.path, test.query)
		c.Assert(ok, qt.IsFalse, qt.Commentf("%s %v", test.path, test.query))
	}
}

func TestRouterMatchesUnknownStyleNames(t *testing.T) {
	c := qt.New(t)

	r := NewRouter("https://example.com", true)
	got, ok := r.Match("/sitemap_style_bogus.xsl", nil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, StyleOf("bogus"))
}

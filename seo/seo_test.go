package seo

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/eringen/pubsitemap/sitemap"
)

func testSettings() Settings {
	s := Settings{
		AutoDesc:         DescAuto,
		CanonicalArchive: []string{ArchiveTaxonomies, ArchivePostType},
		NoindexOther:     []string{OtherSearch, OtherNotFound, OtherAttachment},
		NoindexPosts:     []string{"post"},
		NoindexTerms:     []string{"category"},
		OGP:              true,
		ArticleTypes:     []string{"post"},
		TwitterAccount:   "@example",
	}
	s.Normalize("Example", "https://example.com/", "en_US")
	return s
}

func testItem() *sitemap.Item {
	return &sitemap.Item{
		ID:        7,
		Type:      "post",
		Slug:      "hello",
		Title:     "Hello <World>",
		Permalink: "https://example.com/blog/hello/",
		Content:   "# Heading\n\nSome **bold** body text.",
		Author:    "Ada",
		Published: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Modified:  time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestTrim(t *testing.T) {
	long := strings.Repeat("あ", 141)
	got := Trim(long, 140)
	if n := utf8.RuneCountInString(got); n != 140 {
		t.Errorf("trimmed length = %d, want 140", n)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("trimmed text should end with an ellipsis: %q", got)
	}

	exact := strings.Repeat("a", 140)
	if got := Trim(exact, 140); got != exact {
		t.Errorf("text at the limit should be kept")
	}
	if got := Trim("  a\n\tb   c ", 140); got != "a b c" {
		t.Errorf("Trim collapsed to %q", got)
	}
}

func TestDescriptionSources(t *testing.T) {
	s := testSettings()
	it := testItem()
	page := Page{Kind: KindSingular, Item: it}

	if got := Description(page, s); got != "Heading Some bold body text." {
		t.Errorf("auto description = %q", got)
	}
	it.Excerpt = "The excerpt."
	if got := Description(page, s); got != "The excerpt." {
		t.Errorf("excerpt description = %q", got)
	}
	it.Description = "Manual <b>text</b>."
	if got := Description(page, s); got != "Manual text." {
		t.Errorf("manual description = %q", got)
	}

	s.AutoDesc = DescManual
	it.Description, it.Excerpt = "", ""
	if got := Description(page, s); got != "" {
		t.Errorf("manual mode should not generate text, got %q", got)
	}
	s.AutoDesc = DescOff
	it.Description = "set"
	if got := Description(page, s); got != "" {
		t.Errorf("descriptions off, got %q", got)
	}
}

func TestDescriptionByKind(t *testing.T) {
	s := testSettings()
	s.FrontDesc = "Front page."
	tests := []struct {
		page Page
		want string
	}{
		{Page{Kind: KindFront}, "Front page."},
		{Page{Kind: KindTerm, Term: &sitemap.Term{Description: "About Go."}}, "About Go."},
		{Page{Kind: KindAuthor, Author: &Author{Description: "Writer."}}, "Writer."},
		{Page{Kind: KindSearch, Query: "maps"}, "Search results for: maps"},
		{Page{Kind: KindNotFound}, "Page not found."},
	}
	for _, tt := range tests {
		if got := Description(tt.page, s); got != tt.want {
			t.Errorf("Description(kind %d) = %q, want %q", tt.page.Kind, got, tt.want)
		}
	}
}

func TestCanonical(t *testing.T) {
	s := testSettings()
	term := &sitemap.Term{Taxonomy: "category", Slug: "go"}
	tests := []struct {
		page Page
		want string
	}{
		{Page{Kind: KindFront}, "https://example.com/"},
		{Page{Kind: KindSingular, Item: testItem()}, "https://example.com/blog/hello/"},
		{Page{Kind: KindTerm, Term: term}, "https://example.com/category/go/"},
		{Page{Kind: KindTerm, Term: term, Paged: 1}, "https://example.com/category/go/"},
		{Page{Kind: KindTerm, Term: term, Paged: 3}, "https://example.com/category/go/page/3/"},
		{Page{Kind: KindPostTypeArchive, PostType: "news", Paged: 2}, "https://example.com/news/page/2/"},
		{Page{Kind: KindAuthor, Author: &Author{URL: "https://example.com/author/ada/"}}, ""},
		{Page{Kind: KindSearch}, ""},
	}
	for _, tt := range tests {
		if got := Canonical(tt.page, s); got != tt.want {
			t.Errorf("Canonical(%+v) = %q, want %q", tt.page, got, tt.want)
		}
	}
}

func TestRobots(t *testing.T) {
	s := testSettings()
	s.NoindexArchiveLimit = 2

	flagged := testItem()
	flagged.Flags = sitemap.FlagNoindex
	page := testItem()
	page.Type = "page"
	page.Flags = sitemap.FlagNoindex
	attachment := testItem()
	attachment.Type = sitemap.AttachmentType

	tests := []struct {
		name string
		page Page
		want string
	}{
		{"plain post", Page{Kind: KindSingular, Item: testItem()}, ""},
		{"flagged post", Page{Kind: KindSingular, Item: flagged}, "noindex"},
		{"flagged type not enabled", Page{Kind: KindSingular, Item: page}, ""},
		{"attachment", Page{Kind: KindSingular, Item: attachment}, "noindex"},
		{"search", Page{Kind: KindSearch}, "noindex, nofollow"},
		{"not found", Page{Kind: KindNotFound}, "noindex"},
		{"archive within limit", Page{Kind: KindTerm, Term: &sitemap.Term{Taxonomy: "tag"}, Paged: 2}, ""},
		{"archive past limit", Page{Kind: KindTerm, Term: &sitemap.Term{Taxonomy: "tag"}, Paged: 3}, "noindex"},
		{"flagged term", Page{Kind: KindTerm, Term: &sitemap.Term{Taxonomy: "category", Flags: sitemap.FlagNoindex}}, "noindex"},
		{"flagged term in other taxonomy", Page{Kind: KindTerm, Term: &sitemap.Term{Taxonomy: "tag", Flags: sitemap.FlagNoindex}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RobotsContent(tt.page, s); got != tt.want {
				t.Errorf("RobotsContent = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocumentTitle(t *testing.T) {
	s := testSettings()
	s.Separator = "|"
	if got := DocumentTitle(Page{Kind: KindSingular, Item: testItem()}, s); got != "Hello <World> | Example" {
		t.Errorf("singular title = %q", got)
	}
	term := &sitemap.Term{Name: "Go"}
	if got := DocumentTitle(Page{Kind: KindTerm, Term: term, Paged: 2}, s); got != "Go | Page 2 | Example" {
		t.Errorf("paged title = %q", got)
	}
	s.Tagline = "Notes"
	if got := DocumentTitle(Page{Kind: KindFront}, s); got != "Example | Notes" {
		t.Errorf("front title = %q", got)
	}
}

func TestOGP(t *testing.T) {
	s := testSettings()
	s.FBPageURL = "https://facebook.com/example"
	p := Page{Kind: KindSingular, Item: testItem(), Image: "https://example.com/public/uploads/a.jpg"}

	tags := OGP(p, s)
	var keys []string
	for _, m := range tags {
		keys = append(keys, m.Attr+":"+m.Key)
	}
	want := []string{
		"property:og:title", "property:og:type", "property:og:locale",
		"property:og:site_name", "property:og:url", "property:og:image",
		"property:og:description", "property:article:publisher",
		"name:twitter:card", "name:twitter:site",
	}
	if strings.Join(keys, " ") != strings.Join(want, " ") {
		t.Errorf("tags = %v\nwant %v", keys, want)
	}
	if tags[1].Content != "article" || tags[4].Content != "https://example.com/blog/hello/" {
		t.Errorf("unexpected tags: %+v", tags)
	}
	if tags[8].Content != "summary" {
		t.Errorf("twitter:card = %q", tags[8].Content)
	}

	front := OGP(Page{Kind: KindFront}, s)
	if front[1].Content != "website" || front[4].Content != "https://example.com" {
		t.Errorf("unexpected front tags: %+v", front)
	}
	if !strings.HasPrefix(Prefix(Page{Kind: KindFront}), "website:") {
		t.Errorf("front prefix = %q", Prefix(Page{Kind: KindFront}))
	}

	s.OGP = false
	if OGP(p, s) != nil {
		t.Error("OGP disabled should return no tags")
	}
}

func TestJSONLDArticle(t *testing.T) {
	s := testSettings()
	s.PublisherName = "Example Media"
	p := Page{Kind: KindSingular, Item: testItem(), Author: &Author{URL: "https://example.com/ada"}}

	blocks := JSONLD(p, s)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	js, err := MarshalJSONLD(blocks[0])
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal([]byte(strings.ReplaceAll(js, `<\/`, "</")), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, js)
	}
	if got["@type"] != "Article" || got["headline"] != "Hello <World>" {
		t.Errorf("unexpected article: %v", got)
	}
	if got["datePublished"] != "2024-05-01T09:00:00Z" {
		t.Errorf("datePublished = %v", got["datePublished"])
	}
	pub := got["publisher"].(map[string]interface{})
	if pub["name"] != "Example Media" || pub["url"] != "https://example.com/" {
		t.Errorf("publisher = %v", pub)
	}
	author := got["author"].(map[string]interface{})
	if author["name"] != "Ada" || author["url"] != "https://example.com/ada" {
		t.Errorf("author = %v", author)
	}
	if _, ok := got["image"]; ok {
		t.Error("image should be omitted without a thumbnail")
	}

	other := testItem()
	other.Type = "page"
	if blocks := JSONLD(Page{Kind: KindSingular, Item: other}, s); len(blocks) != 0 {
		t.Errorf("page type should have no article, got %d blocks", len(blocks))
	}
}

func TestMarshalJSONLDEscapesScriptClose(t *testing.T) {
	js, err := MarshalJSONLD(map[string]string{"headline": "</script><b>"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(js, "</script>") {
		t.Errorf("script close not escaped: %s", js)
	}
}

func TestHead(t *testing.T) {
	s := testSettings()
	it := testItem()
	it.Flags = sitemap.FlagNoindex
	p := Page{Kind: KindSingular, Item: it}

	var buf bytes.Buffer
	if err := Head(p, s).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Head render failed: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if got := doc.Find("title").Text(); got != "Hello <World> - Example" {
		t.Errorf("title = %q", got)
	}
	if got, _ := doc.Find(`meta[name="description"]`).Attr("content"); got != "Heading Some bold body text." {
		t.Errorf("description = %q", got)
	}
	if got, _ := doc.Find(`link[rel="canonical"]`).Attr("href"); got != "https://example.com/blog/hello/" {
		t.Errorf("canonical = %q", got)
	}
	if got, _ := doc.Find(`meta[name="robots"]`).Attr("content"); got != "noindex" {
		t.Errorf("robots = %q", got)
	}
	if got, _ := doc.Find(`meta[property="og:type"]`).Attr("content"); got != "article" {
		t.Errorf("og:type = %q", got)
	}
	if n := doc.Find(`meta[name^="twitter:"]`).Length(); n != 2 {
		t.Errorf("twitter tags = %d, want 2", n)
	}
	script := doc.Find(`script[type="application/ld+json"]`)
	if script.Length() != 1 || !strings.Contains(script.Text(), `"@type": "Article"`) {
		t.Errorf("missing article JSON-LD: %q", script.Text())
	}
}

func TestHeadMinimal(t *testing.T) {
	var s Settings
	s.Normalize("Example", "https://example.com", "en_US")

	var buf bytes.Buffer
	if err := Head(Page{Kind: KindSearch, Query: "x"}, s).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Find("meta").Length() != 0 {
		t.Errorf("expected no meta tags, got %s", buf.String())
	}
	if doc.Find("link").Length() != 0 {
		t.Error("search pages have no canonical")
	}
}

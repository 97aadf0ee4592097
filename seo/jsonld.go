package seo

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

var reHTTP = regexp.MustCompile(`^https?://.+`)

type ref struct {
	Type string `json:"@type"`
	ID   string `json:"@id"`
}

type person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type publisher struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Logo string `json:"logo,omitempty"`
}

// Article is the schema.org Article structure of a singular page.
type Article struct {
	Context          string    `json:"@context"`
	Type             string    `json:"@type"`
	MainEntityOfPage ref       `json:"mainEntityOfPage"`
	Headline         string    `json:"headline"`
	DatePublished    string    `json:"datePublished"`
	DateModified     string    `json:"dateModified"`
	Author           person    `json:"author"`
	Publisher        publisher `json:"publisher"`
	Image            []string  `json:"image,omitempty"`
}

// WebSite is the schema.org WebSite structure of the front page.
type WebSite struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// JSONLD returns the structured data blocks of p.
func JSONLD(p Page, s Settings) []interface{} {
	var out []interface{}
	switch {
	case p.Kind == KindFront:
		out = append(out, WebSite{
			Context:     "http://schema.org",
			Type:        "WebSite",
			Name:        s.SiteName,
			URL:         s.SiteURL + "/",
			Description: s.FrontDesc,
		})
	case p.Kind == KindSingular && p.Item != nil && has(s.ArticleTypes, p.Item.Type):
		out = append(out, article(p, s))
	}
	return out
}

func article(p Page, s Settings) Article {
	it := p.Item
	a := Article{
		Context:          "http://schema.org",
		Type:             "Article",
		MainEntityOfPage: ref{Type: "WebPage", ID: it.Permalink},
		Headline:         it.Title,
		DatePublished:    it.Published.Format(time.RFC3339),
		DateModified:     it.Modified.Format(time.RFC3339),
		Author:           person{Type: "Person", Name: it.Author},
		Publisher: publisher{
			Name: s.SiteName,
			URL:  s.SiteURL + "/",
			Logo: s.PublisherLogo,
		},
	}
	if p.Author != nil && reHTTP.MatchString(p.Author.URL) {
		a.Author.URL = p.Author.URL
	}
	if s.PublisherName != "" {
		a.Publisher.Name = s.PublisherName
	}
	if s.PublisherURL != "" {
		a.Publisher.URL = s.PublisherURL
	}
	if p.Image != "" {
		a.Image = []string{p.Image}
	}
	return a
}

// MarshalJSONLD encodes v for a <script type="application/ld+json"> block.
// Slashes and non-ASCII text are kept; "</" is escaped so the block cannot
// close its script element.
func MarshalJSONLD(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.ReplaceAll(strings.TrimRight(buf.String(), "\n"), "</", `<\/`), nil
}

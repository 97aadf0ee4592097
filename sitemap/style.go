package sitemap

import (
	"io"
	"text/template"
)

var styleFuncs = template.FuncMap{"xml": EscapeXML}

const styleHead = `<?xml version="1.0" encoding="UTF-8"?>
<xsl:stylesheet version="1.0"
	xmlns:xsl="http://www.w3.org/1999/XSL/Transform"
	xmlns:sitemap="http://www.sitemaps.org/schemas/sitemap/0.9"
	xmlns:image="http://www.google.com/schemas/sitemap-image/1.1"
	xmlns:news="http://www.google.com/schemas/sitemap-news/0.9">
	<xsl:output method="html" version="1.0" encoding="UTF-8" indent="yes"/>
	<xsl:template match="/">
		<html>
			<head>
				<title>{{xml .Title}}</title>
				<link rel="stylesheet" href="{{xml .CSS}}"/>
			</head>
			<body>
				<h1>{{xml .Title}}</h1>
`

const styleFoot = `			</body>
		</html>
	</xsl:template>
</xsl:stylesheet>
`

var styleTemplates = map[string]*template.Template{
	StyleIndex: template.Must(template.New(StyleIndex).Funcs(styleFuncs).Parse(styleHead + `
				<p>Number of sitemaps: <xsl:value-of select="count(sitemap:sitemapindex/sitemap:sitemap)"/></p>
				<table class="sitemap">
					<thead><tr><th>#</th><th>URL</th></tr></thead>
					<tbody>
						<xsl:for-each select="sitemap:sitemapindex/sitemap:sitemap">
							<tr>
								<td><xsl:value-of select="position()"/></td>
								<td><a href="{sitemap:loc}"><xsl:value-of select="sitemap:loc"/></a></td>
							</tr>
						</xsl:for-each>
					</tbody>
				</table>
` + styleFoot)),
	StyleMap: template.Must(template.New(StyleMap).Funcs(styleFuncs).Parse(styleHead + `
				<p>Number of URLs: <xsl:value-of select="count(sitemap:urlset/sitemap:url)"/></p>
				<table class="sitemap">
					<thead><tr><th>#</th><th>URL</th><th>Images</th><th>Last modified</th></tr></thead>
					<tbody>
						<xsl:for-each select="sitemap:urlset/sitemap:url">
							<tr>
								<td><xsl:value-of select="position()"/></td>
								<td><a href="{sitemap:loc}"><xsl:value-of select="sitemap:loc"/></a></td>
								<td><xsl:value-of select="count(image:image)"/></td>
								<td><xsl:value-of select="sitemap:lastmod"/></td>
							</tr>
						</xsl:for-each>
					</tbody>
				</table>
` + styleFoot)),
	StyleNews: template.Must(template.New(StyleNews).Funcs(styleFuncs).Parse(styleHead + `
				<p>Number of articles: <xsl:value-of select="count(sitemap:urlset/sitemap:url)"/></p>
				<table class="sitemap">
					<thead><tr><th>#</th><th>Title</th><th>Publication</th><th>Published</th></tr></thead>
					<tbody>
						<xsl:for-each select="sitemap:urlset/sitemap:url">
							<tr>
								<td><xsl:value-of select="position()"/></td>
								<td><a href="{sitemap:loc}"><xsl:value-of select="news:news/news:title"/></a></td>
								<td><xsl:value-of select="news:news/news:publication/news:name"/></td>
								<td><xsl:value-of select="news:news/news:publication_date"/></td>
							</tr>
						</xsl:for-each>
					</tbody>
				</table>
` + styleFoot)),
}

var styleTitles = map[string]string{
	StyleIndex: "Sitemap Index",
	StyleMap:   "Sitemap",
	StyleNews:  "News Sitemap",
}

// Stylesheets serves the XSLT documents referenced by sitemaps.
type Stylesheets struct {
	css string
}

// NewStylesheets returns the stylesheet set linking to css.
func NewStylesheets(css string) *Stylesheets {
	return &Stylesheets{css: css}
}

// Has reports whether name is a known stylesheet.
func (s *Stylesheets) Has(name string) bool {
	_, ok := styleTemplates[name]
	return ok
}

// Names returns the known stylesheet names.
func (s *Stylesheets) Names() []string {
	return []string{StyleIndex, StyleMap, StyleNews}
}

// Render writes the stylesheet called name.
func (s *Stylesheets) Render(w io.Writer, name string) error {
	tmpl, ok := styleTemplates[name]
	if !ok {
		return ErrUnknownStyle
	}
	return tmpl.Execute(w, struct{ Title, CSS string }{Title: styleTitles[name], CSS: s.css})
}

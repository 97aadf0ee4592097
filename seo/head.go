package seo

import (
	"bufio"
	"context"
	"io"

	"github.com/a-h/templ"
)

// Head renders the SEO part of <head> for p: title, description,
// canonical, robots, Open Graph tags and JSON-LD blocks.
func Head(p Page, s Settings) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		bw := bufio.NewWriter(w)
		bw.WriteString("<title>" + templ.EscapeString(DocumentTitle(p, s)) + "</title>\n")
		if desc := Description(p, s); desc != "" {
			writeMeta(bw, Meta{Attr: "name", Key: "description", Content: desc})
		}
		if c := Canonical(p, s); c != "" {
			bw.WriteString(`<link rel="canonical" href="` + templ.EscapeString(c) + "\"/>\n")
		}
		if r := RobotsContent(p, s); r != "" {
			writeMeta(bw, Meta{Attr: "name", Key: "robots", Content: r})
		}
		for _, m := range OGP(p, s) {
			writeMeta(bw, m)
		}
		for _, block := range JSONLD(p, s) {
			js, err := MarshalJSONLD(block)
			if err != nil {
				return err
			}
			bw.WriteString("<script type=\"application/ld+json\">\n" + js + "\n</script>\n")
		}
		return bw.Flush()
	})
}

func writeMeta(bw *bufio.Writer, m Meta) {
	bw.WriteString(`<meta ` + m.Attr + `="` + templ.EscapeString(m.Key) + `" content="` + templ.EscapeString(m.Content) + "\"/>\n")
}

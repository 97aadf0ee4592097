// Package markdown renders the small Markdown dialect used for item content
// and derives plain text from it for meta descriptions.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold       = regexp.MustCompile(`(?:\*\*|__)(.+?)(?:\*\*|__)`)
	reItalic     = regexp.MustCompile(`(?:\*([^*]+)\*|_([^_]+)_)`)
	reCode       = regexp.MustCompile("`([^`]+)`")
	reLink       = regexp.MustCompile(`\[(.*?)\]\((.*?)\)(\^)?`)
	reImage      = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)(?:\{[^}]*\})?`)
	reOrdered    = regexp.MustCompile(`^\d+\.\s`)
	reHeading    = regexp.MustCompile(`^(#{1,3})\s+(.*)$`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

type block int

const (
	blockNone block = iota
	blockPara
	blockList
	blockOrdered
	blockQuote
	blockCode
	blockTable
)

var closeTags = map[block]string{
	blockPara:    "</p>",
	blockList:    "</ul>",
	blockOrdered: "</ol>",
	blockQuote:   "</blockquote>",
	blockCode:    "</code></pre>",
}

type renderer struct {
	buf       bytes.Buffer
	open      block
	tableBody bool
	images    int
}

func (r *renderer) close() {
	switch r.open {
	case blockNone:
		return
	case blockTable:
		if r.tableBody {
			r.buf.WriteString("</tbody>")
		}
		r.buf.WriteString("</table>")
		r.tableBody = false
	default:
		r.buf.WriteString(closeTags[r.open])
	}
	r.open = blockNone
}

// enter switches to block b, writing tag when b was not already open.
// It reports whether b was already open.
func (r *renderer) enter(b block, tag string) bool {
	if r.open == b {
		return true
	}
	r.close()
	r.buf.WriteString(tag)
	r.open = b
	return false
}

func (r *renderer) inline(s string) string {
	return Inline(s, &r.images)
}

func (r *renderer) line(line string) {
	if strings.HasPrefix(line, "```") {
		if r.open == blockCode {
			r.close()
			return
		}
		tag := "<pre><code>"
		if lang := strings.TrimSpace(line[3:]); lang != "" {
			tag = `<pre><code class="language-` + html.EscapeString(lang) + `">`
		}
		r.enter(blockCode, tag)
		return
	}
	if r.open == blockCode {
		r.buf.WriteString(html.EscapeString(line))
		r.buf.WriteByte('\n')
		return
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		r.close()
		return
	}

	if m := reHeading.FindStringSubmatch(line); m != nil {
		r.close()
		n := strconv.Itoa(len(m[1]))
		r.buf.WriteString("<h" + n + ">" + r.inline(strings.TrimSpace(m[2])) + "</h" + n + ">")
		return
	}
	switch {
	case strings.HasPrefix(line, "---"):
		r.close()
		r.buf.WriteString("<hr/>")
	case strings.HasPrefix(line, "|"):
		r.tableRow(line)
	case strings.HasPrefix(line, "- "):
		r.enter(blockList, "<ul>")
		r.buf.WriteString("<li>" + r.inline(strings.TrimSpace(line[2:])) + "</li>")
	case reOrdered.MatchString(line):
		r.enter(blockOrdered, "<ol>")
		r.buf.WriteString("<li>" + r.inline(strings.TrimSpace(reOrdered.ReplaceAllString(line, ""))) + "</li>")
	case strings.HasPrefix(line, "> "):
		if r.enter(blockQuote, "<blockquote>") {
			r.buf.WriteByte(' ')
		}
		r.buf.WriteString(r.inline(strings.TrimSpace(line[2:])))
	default:
		if r.enter(blockPara, "<p>") {
			r.buf.WriteByte(' ')
		}
		r.buf.WriteString(r.inline(trimmed))
	}
}

func (r *renderer) tableRow(line string) {
	cells := splitRow(line)
	if r.open != blockTable {
		r.enter(blockTable, "<table><thead><tr>")
		for _, c := range cells {
			r.buf.WriteString("<th>" + r.inline(c) + "</th>")
		}
		r.buf.WriteString("</tr></thead>")
		return
	}
	if !r.tableBody {
		r.buf.WriteString("<tbody>")
		r.tableBody = true
	}
	if isSeparator(cells) {
		return
	}
	r.buf.WriteString("<tr>")
	for _, c := range cells {
		r.buf.WriteString("<td>" + r.inline(c) + "</td>")
	}
	r.buf.WriteString("</tr>")
}

func splitRow(line string) []string {
	parts := strings.Split(strings.Trim(strings.TrimSpace(line), "|"), "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func isSeparator(cells []string) bool {
	for _, c := range cells {
		if strings.Trim(c, "-: ") != "" {
			return false
		}
	}
	return true
}

// Render writes the HTML form of md to w.
func Render(w io.Writer, md string) error {
	var r renderer
	for _, line := range strings.Split(md, "\n") {
		r.line(strings.TrimRight(line, "\r"))
	}
	r.close()
	_, err := w.Write(r.buf.Bytes())
	return err
}

// Component returns md as a templ component.
func Component(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Render(w, md)
	})
}

// Inline formats one line of text. Images and links are checked with
// SafeURL; emphasis never applies inside tags or code spans. count tracks
// images so only the first one is fetched with high priority.
func Inline(s string, count *int) string {
	out := html.EscapeString(s)

	var spans []string
	out = reCode.ReplaceAllStringFunc(out, func(m string) string {
		spans = append(spans, "<code>"+reCode.FindStringSubmatch(m)[1]+"</code>")
		return "\x00" + strconv.Itoa(len(spans)-1) + "\x00"
	})
	out = reImage.ReplaceAllStringFunc(out, func(m string) string {
		sub := reImage.FindStringSubmatch(m)
		src := SafeURL(sub[2])
		if src == "" {
			return sub[1]
		}
		*count++
		load := `loading="lazy"`
		if *count == 1 {
			load = `fetchpriority="high"`
		}
		return `<img ` + load + ` alt="` + sub[1] + `" src="` + src + `" decoding="async"/>`
	})
	out = reLink.ReplaceAllStringFunc(out, func(m string) string {
		sub := reLink.FindStringSubmatch(m)
		href := SafeURL(sub[2])
		if href == "" {
			return sub[1]
		}
		attrs := ""
		if sub[3] == "^" {
			attrs = ` target="_blank" rel="noopener noreferrer"`
		}
		return `<a href="` + href + `"` + attrs + `>` + sub[1] + `</a>`
	})
	out = outsideTags(out, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		return reItalic.ReplaceAllString(seg, "<em>$1$2</em>")
	})
	for i, span := range spans {
		out = strings.Replace(out, "\x00"+strconv.Itoa(i)+"\x00", span, 1)
	}
	return out
}

// outsideTags applies fn to the text between HTML tags.
func outsideTags(s string, fn func(string) string) string {
	var b strings.Builder
	for s != "" {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			b.WriteString(fn(s))
			break
		}
		b.WriteString(fn(s[:lt]))
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			b.WriteString(s[lt:])
			break
		}
		b.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return b.String()
}

// SafeURL returns raw escaped for an attribute, or "" when it is not a
// relative URL or an http, https, mailto or tel URL.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		if strings.HasPrefix(val, "//") {
			return ""
		}
		return html.EscapeString(val)
	}
	u, err := url.Parse(val)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	}
	return ""
}

// PlainText strips markup from md and collapses whitespace. Code blocks,
// images and table separators are dropped; links keep their text.
func PlainText(md string) string {
	var parts []string
	inCode := false
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") {
			inCode = !inCode
			continue
		}
		if inCode || line == "" || strings.HasPrefix(line, "---") {
			continue
		}
		if m := reHeading.FindStringSubmatch(line); m != nil {
			line = m[2]
		}
		if strings.HasPrefix(line, "|") {
			cells := splitRow(line)
			if isSeparator(cells) {
				continue
			}
			line = strings.Join(cells, " ")
		}
		line = strings.TrimPrefix(line, "> ")
		line = strings.TrimPrefix(line, "- ")
		line = reOrdered.ReplaceAllString(line, "")
		line = reImage.ReplaceAllString(line, "")
		line = reLink.ReplaceAllString(line, "$1")
		line = reCode.ReplaceAllString(line, "$1")
		line = reBold.ReplaceAllString(line, "$1")
		line = reItalic.ReplaceAllString(line, "$1$2")
		parts = append(parts, line)
	}
	return strings.TrimSpace(reWhitespace.ReplaceAllString(strings.Join(parts, " "), " "))
}

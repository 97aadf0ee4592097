package views

import (
	"bufio"
	"context"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
)

var esc = templ.EscapeString

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PageURL returns the URL of page n of an archive rooted at base.
func PageURL(base string, n int) string {
	if n <= 1 {
		return buildURL(base, "")
	}
	return buildURL(base, "page", strconv.Itoa(n))
}

// FormatDate formats t for listings.
func FormatDate(t time.Time) string {
	return t.UTC().Format("January 2, 2006")
}

// writer collects write errors so components can check once at the end.
type writer struct {
	bw  *bufio.Writer
	err error
}

func newWriter(w io.Writer) *writer {
	return &writer{bw: bufio.NewWriter(w)}
}

func (w *writer) raw(s ...string) {
	for _, x := range s {
		if w.err != nil {
			return
		}
		_, w.err = w.bw.WriteString(x)
	}
}

func (w *writer) text(s string) {
	w.raw(esc(s))
}

func (w *writer) component(ctx context.Context, c templ.Component) {
	if w.err == nil {
		w.err = c.Render(ctx, w.bw)
	}
}

func (w *writer) flush() error {
	if w.err != nil {
		return w.err
	}
	return w.bw.Flush()
}

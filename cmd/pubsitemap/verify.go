package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gocolly/colly/v2"
	"github.com/spf13/cobra"
)

// maxURLsPerMap is the protocol limit of <url> entries in one sitemap.
const maxURLsPerMap = 50000

var verifyCmd = &cobra.Command{
	Use:   "verify [index-url...]",
	Short: "Crawl the sitemap indexes and report broken or foreign entries",
	Long: `verify fetches every sitemap index, follows each <sitemap><loc> it lists
and checks that the sitemap pages answer with XML, stay on the site's host
and hold no more than 50000 URLs. Without arguments the indexes of the
configured site are crawled, so the server must be running.`,
	RunE: runVerify,
}

var userAgent string

func init() {
	verifyCmd.Flags().StringVar(&userAgent, "user-agent", "pubsitemap-verify/1.0", "custom User-Agent string")
}

type verifyReport struct {
	Indexes  int
	Maps     int
	URLs     int
	Problems []string
}

func (r *verifyReport) problemf(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// verifySitemaps crawls indexURLs and every sitemap page they list.
func verifySitemaps(indexURLs []string, ua string) *verifyReport {
	r := &verifyReport{}
	perMap := make(map[string]int)

	c := colly.NewCollector(colly.UserAgent(ua))

	c.OnResponse(func(resp *colly.Response) {
		if ct := resp.Headers.Get("Content-Type"); !strings.Contains(ct, "xml") {
			r.problemf("%s: unexpected content type %q", resp.Request.URL, ct)
		}
	})

	c.OnXML("//sitemapindex/sitemap/loc", func(e *colly.XMLElement) {
		loc := strings.TrimSpace(e.Text)
		if !sameHost(e.Request.URL, loc) {
			r.problemf("%s: sitemap %s is on another host", e.Request.URL, loc)
			return
		}
		r.Maps++
		// HTTP failures are reported through OnError.
		_ = e.Request.Visit(loc)
	})

	c.OnXML("//urlset/url/loc", func(e *colly.XMLElement) {
		loc := strings.TrimSpace(e.Text)
		page := e.Request.URL.String()
		r.URLs++
		perMap[page]++
		if perMap[page] == maxURLsPerMap+1 {
			r.problemf("%s: more than %d urls", page, maxURLsPerMap)
		}
		if !sameHost(e.Request.URL, loc) {
			r.problemf("%s: url %s is on another host", page, loc)
		}
	})

	c.OnError(func(resp *colly.Response, err error) {
		r.problemf("%s: %d %v", resp.Request.URL, resp.StatusCode, err)
	})

	for _, u := range indexURLs {
		r.Indexes++
		// Failed visits are reported through OnError.
		_ = c.Visit(u)
	}
	c.Wait()
	return r
}

func sameHost(base *url.URL, loc string) bool {
	u, err := url.Parse(loc)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, base.Host)
}

func runVerify(cmd *cobra.Command, args []string) error {
	urls := args
	if len(urls) == 0 {
		a, err := openApp()
		if err != nil {
			return err
		}
		urls = a.Sitemap.IndexURLs()
		a.Close()
	}
	if len(urls) == 0 {
		return fmt.Errorf("no active sitemaps to verify")
	}

	r := verifySitemaps(urls, userAgent)
	out := cmd.OutOrStdout()
	for _, p := range r.Problems {
		fmt.Fprintln(out, p)
	}
	fmt.Fprintf(out, "%d indexes, %d sitemaps, %d urls\n", r.Indexes, r.Maps, r.URLs)
	if len(r.Problems) > 0 {
		return fmt.Errorf("%d problems found", len(r.Problems))
	}
	return nil
}

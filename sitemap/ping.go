package sitemap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultPingEndpoint is notified when no endpoint is configured.
const DefaultPingEndpoint = "https://www.google.com/ping"

// Pinger notifies a search engine that a sitemap changed.
type Pinger struct {
	Endpoint string
	Client   *http.Client
}

// NewPinger returns a Pinger for endpoint.
func NewPinger(endpoint string) *Pinger {
	if endpoint == "" {
		endpoint = DefaultPingEndpoint
	}
	return &Pinger{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// PingURL returns the request URL announcing sitemapURL.
func (p *Pinger) PingURL(sitemapURL string) string {
	sep := "?"
	if strings.Contains(p.Endpoint, "?") {
		sep = "&"
	}
	return p.Endpoint + sep + "sitemap=" + url.QueryEscape(sitemapURL)
}

// Ping announces one sitemap.
func (p *Pinger) Ping(ctx context.Context, sitemapURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.PingURL(sitemapURL), nil)
	if err != nil {
		return fmt.Errorf("ping %s: %w", sitemapURL, err)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("ping %s: %w", sitemapURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("ping %s: status %d", sitemapURL, resp.StatusCode)
	}
	return nil
}

// PingAll announces every URL and joins the failures.
func (p *Pinger) PingAll(ctx context.Context, urls []string) error {
	var errs []error
	for _, u := range urls {
		if err := p.Ping(ctx, u); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

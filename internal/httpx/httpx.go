// Package httpx builds the shared HTTP client used by every strategy
// and the deep-link scanner: no internal retries (the core owns that
// decision per spec §7), rotating user agents, and a Googlebot
// override for hosts that reject browser traffic but serve crawlers.
package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/corpix/uarand"
	retryablehttp "github.com/projectdiscovery/retryablehttp-go"

	"github.com/codebooo/policyscout/internal/config"
	"github.com/codebooo/policyscout/internal/ratelimiter"
)

// Client wraps a retryablehttp.Client configured with RetryMax: 0 so a
// failed request's error surfaces immediately to the caller instead of
// being retried beneath it. Every request is gated
// through limiter, so no strategy can bypass the per-host budget
// (spec §4.3, §4.9).
type Client struct {
	inner       *retryablehttp.Client
	limiter     *ratelimiter.Limiter
	userAgent   string
	googlebotUA string
	metaFamily  map[string]struct{}
}

// New builds a Client from cfg.
func New(cfg *config.Config) *Client {
	opts := retryablehttp.DefaultOptionsSingle
	opts.RetryMax = 0
	opts.Timeout = cfg.RequestTimeout

	inner := retryablehttp.NewClient(opts)

	return &Client{
		inner:       inner,
		limiter:     ratelimiter.New(),
		userAgent:   cfg.UserAgent,
		googlebotUA: cfg.GooglebotUA,
		metaFamily:  cfg.MetaFamilyHosts,
	}
}

// Get issues a GET request to rawURL, choosing the Googlebot UA for
// Meta-family hosts and a randomized browser UA otherwise. The
// request is held until limiter.Enforce releases it, and a 429/503
// response starts that host's cooldown before the response is handed
// back to the caller.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	host := hostOf(rawURL)
	if err := c.limiter.Enforce(ctx, host); err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgentFor(rawURL))
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.inner.Do(req)
	if err != nil {
		return resp, err
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		c.limiter.HandleRateLimited(host, resp.Header.Get("Retry-After"))
	}
	return resp, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}

// PostJSON delivers body as a JSON payload to rawURL, used by the watch
// package's webhook notifications.
func (c *Client) PostJSON(ctx context.Context, rawURL, body string) error {
	if err := c.limiter.Enforce(ctx, hostOf(rawURL)); err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.inner.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) userAgentFor(rawURL string) string {
	for host := range c.metaFamily {
		if strings.Contains(rawURL, host) {
			return c.googlebotUA
		}
	}
	return uarand.GetRandom()
}

// Timeout returns the configured per-request timeout, for callers that
// need to build their own derived context deadline.
func (c *Client) Timeout() time.Duration {
	return c.inner.HTTPClient.Timeout
}

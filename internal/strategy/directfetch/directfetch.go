// Package directfetch downloads the homepage and scans its raw HTML
// with the multilingual footer-term regexes directly, a regex-only
// sibling to the DOM-parsed HomepageScraper (spec's own Open Question
// allows both to coexist: one fast and shallow, one thorough).
package directfetch

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/logging"
	"github.com/codebooo/policyscout/internal/multilingual"
	"github.com/codebooo/policyscout/internal/perr"
	"github.com/codebooo/policyscout/internal/policytype"
)

var hrefRe = regexp.MustCompile(`(?i)href=["']([^"']+)["'][^>]*>([^<]{0,80})`)

// Strategy fetches domain's homepage and regex-scans anchor tags.
type Strategy struct {
	client  *httpx.Client
	catalog *multilingual.Catalog
	baseURL func(domain string) string
}

// New builds the strategy.
func New(client *httpx.Client, catalog *multilingual.Catalog) *Strategy {
	return &Strategy{
		client:  client,
		catalog: catalog,
		baseURL: func(domain string) string { return "https://" + domain + "/" },
	}
}

// WithBaseURL overrides how a domain maps to its homepage URL, used in
// tests against an httptest.Server.
func (s *Strategy) WithBaseURL(fn func(domain string) string) *Strategy {
	s.baseURL = fn
	return s
}

func (s *Strategy) Name() string    { return "direct_fetch" }
func (s *Strategy) IsDefault() bool { return true }

// Execute fetches domain's homepage and regexes every href/anchor-text
// pair against the multilingual privacy-term catalog.
func (s *Strategy) Execute(ctx context.Context, domain string) ([]candidate.PolicyCandidate, error) {
	url := s.baseURL(domain)
	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, &perr.TransientNetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &perr.StrategyError{Strategy: s.Name(), Domain: domain, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, &perr.TransientNetworkError{URL: url, Err: err}
	}

	var out []candidate.PolicyCandidate
	for _, m := range hrefRe.FindAllSubmatch(body, -1) {
		href := string(m[1])
		text := string(m[2])

		urlScore := s.catalog.ScorePrivacyUrl(href)
		textScore := s.catalog.ScoreLinkText(text)
		score := urlScore
		if textScore > score {
			score = textScore
		}
		if score == 0 {
			continue
		}

		resolved := resolveURL(domain, href)
		pt := policytype.Default
		out = append(out, candidate.PolicyCandidate{
			URL:          resolved,
			Type:         pt,
			Source:       candidate.SourceDirectFetch,
			Confidence:   score,
			MethodDetail: fmt.Sprintf("regex match on anchor %q", text),
			LinkText:     text,
			Context:      candidate.ContextUnknown,
		})
	}
	if out == nil {
		logging.LogStrategy(s.Name(), "no privacy-like anchors found on %s", domain)
	}
	return out, nil
}

func resolveURL(domain, href string) string {
	if len(href) >= 4 && (href[:4] == "http") {
		return href
	}
	if len(href) > 0 && href[0] == '/' {
		return "https://" + domain + href
	}
	return "https://" + domain + "/" + href
}

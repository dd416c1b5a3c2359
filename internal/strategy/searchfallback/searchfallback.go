// Package searchfallback queries a search engine for the domain's
// privacy-policy and terms pages and scores the on-domain results,
// catching policies that neither navigation nor sitemap lead to.
package searchfallback

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/multilingual"
	"github.com/codebooo/policyscout/internal/perr"
	"github.com/codebooo/policyscout/internal/policytype"
)

// resultLinkRe pulls result links out of DuckDuckGo's HTML-only
// endpoint, which needs no API key and serves plain anchors.
var resultLinkRe = regexp.MustCompile(`(?i)<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>([^<]{0,120})`)

// Strategy queries a search engine and scores the returned links.
type Strategy struct {
	client   *httpx.Client
	catalog  *multilingual.Catalog
	endpoint string // overridable in tests
}

// New builds the strategy against DuckDuckGo's lite HTML endpoint.
func New(client *httpx.Client, catalog *multilingual.Catalog) *Strategy {
	return &Strategy{client: client, catalog: catalog, endpoint: "https://html.duckduckgo.com/html/?q=%s"}
}

// WithEndpoint overrides the query endpoint template, used in tests
// against an httptest.Server.
func (s *Strategy) WithEndpoint(endpoint string) *Strategy {
	s.endpoint = endpoint
	return s
}

func (s *Strategy) Name() string    { return "search_fallback" }
func (s *Strategy) IsDefault() bool { return true }

// Execute queries "site:<domain> privacy policy OR terms of service"
// (URL-escaped into the endpoint template) and scores each result
// link against the multilingual catalog, keeping only links that stay
// on domain (an off-domain search hit is not authoritative).
func (s *Strategy) Execute(ctx context.Context, domain string) ([]candidate.PolicyCandidate, error) {
	query := fmt.Sprintf("site:%s privacy policy OR terms of service", domain)
	url := fmt.Sprintf(s.endpoint, url.QueryEscape(query))

	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, &perr.TransientNetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &perr.StrategyError{Strategy: s.Name(), Domain: domain, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, &perr.TransientNetworkError{URL: url, Err: err}
	}

	var out []candidate.PolicyCandidate
	for _, m := range resultLinkRe.FindAllSubmatch(body, -1) {
		link := string(m[1])
		text := string(m[2])
		if !containsDomain(link, domain) {
			continue
		}
		score := s.catalog.ScorePrivacyUrl(link)
		if t := s.catalog.ScoreLinkText(text); t > score {
			score = t
		}
		if score == 0 {
			continue
		}
		out = append(out, candidate.PolicyCandidate{
			URL:          link,
			Type:         policytype.Default,
			Source:       candidate.SourceSearchFallback,
			Confidence:   score - 10, // search results earn less trust than site-native discovery
			MethodDetail: fmt.Sprintf("search result: %q", text),
			LinkText:     text,
			Context:      candidate.ContextUnknown,
		})
	}
	if out == nil {
		return nil, &perr.StrategyError{Strategy: s.Name(), Domain: domain, Err: fmt.Errorf("no on-domain results")}
	}
	return out, nil
}

func containsDomain(link, domain string) bool {
	for i := 0; i+len(domain) <= len(link); i++ {
		if link[i:i+len(domain)] == domain {
			return true
		}
	}
	return false
}

// Package urlscan queries urlscan.io's public search API for pages it
// has indexed under domain and scores the returned page URLs, adapted
// from stormfinder's pkg/subscraping/sources/urlscan (which mined the
// same search endpoint for subdomains rather than candidate pages).
package urlscan

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/multilingual"
	"github.com/codebooo/policyscout/internal/perr"
	"github.com/codebooo/policyscout/internal/policytype"
)

type searchResponse struct {
	Results []struct {
		Page struct {
			URL string `json:"url"`
		} `json:"page"`
	} `json:"results"`
}

// Strategy searches urlscan.io's crawl index for pages under domain.
type Strategy struct {
	client   *httpx.Client
	catalog  *multilingual.Catalog
	endpoint func(domain string) string
}

// New builds the strategy against the public urlscan.io search API.
func New(client *httpx.Client, catalog *multilingual.Catalog) *Strategy {
	return &Strategy{
		client:  client,
		catalog: catalog,
		endpoint: func(domain string) string {
			return fmt.Sprintf("https://urlscan.io/api/v1/search/?q=domain:%s&size=100", domain)
		},
	}
}

// WithEndpoint overrides the search query URL builder, used in tests.
func (s *Strategy) WithEndpoint(fn func(domain string) string) *Strategy {
	s.endpoint = fn
	return s
}

func (s *Strategy) Name() string    { return "urlscan" }
func (s *Strategy) IsDefault() bool { return false }

// Execute searches urlscan.io's index for pages on domain and scores
// each indexed page URL against the multilingual privacy-term catalog.
func (s *Strategy) Execute(ctx context.Context, domain string) ([]candidate.PolicyCandidate, error) {
	url := s.endpoint(domain)
	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, &perr.TransientNetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &perr.StrategyError{Strategy: s.Name(), Domain: domain, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var response searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, &perr.StrategyError{Strategy: s.Name(), Domain: domain, Err: err}
	}

	seen := make(map[string]struct{})
	var out []candidate.PolicyCandidate
	for _, result := range response.Results {
		pageURL := result.Page.URL
		if pageURL == "" {
			continue
		}
		if _, dup := seen[pageURL]; dup {
			continue
		}
		seen[pageURL] = struct{}{}

		score := s.catalog.ScorePrivacyUrl(pageURL)
		if score == 0 {
			continue
		}
		out = append(out, candidate.PolicyCandidate{
			URL:          pageURL,
			Type:         policytype.Default,
			Source:       candidate.SourceUrlscan,
			Confidence:   score - 10,
			MethodDetail: "urlscan.io indexed page",
			Context:      candidate.ContextUnknown,
		})
	}
	if out == nil {
		return nil, &perr.StrategyError{Strategy: s.Name(), Domain: domain, Err: fmt.Errorf("no policy-like pages indexed")}
	}
	return out, nil
}

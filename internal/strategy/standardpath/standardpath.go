// Package standardpath probes the fixed catalog of well-known policy
// paths (spec §4.3) with a single GET each, the cheapest and most
// reliable strategy when a site follows convention.
package standardpath

import (
	"context"
	"fmt"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/config"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/logging"
	"github.com/codebooo/policyscout/internal/perr"
	"github.com/codebooo/policyscout/internal/policytype"
)

// Strategy probes every standard path for every PolicyType.
type Strategy struct {
	client  *httpx.Client
	cfg     *config.Config
	baseURL func(domain string) string
}

// New builds the strategy.
func New(client *httpx.Client, cfg *config.Config) *Strategy {
	return &Strategy{
		client:  client,
		cfg:     cfg,
		baseURL: func(domain string) string { return "https://" + domain },
	}
}

// WithBaseURL overrides how a domain maps to its base URL, used in
// tests against an httptest.Server.
func (s *Strategy) WithBaseURL(fn func(domain string) string) *Strategy {
	s.baseURL = fn
	return s
}

func (s *Strategy) Name() string    { return "standard_path" }
func (s *Strategy) IsDefault() bool { return true }

// Execute issues one GET per (PolicyType, path) combination and keeps
// every 2xx response; no HEAD request is made, and neither the body nor
// the content type of the response is inspected.
func (s *Strategy) Execute(ctx context.Context, domain string) ([]candidate.PolicyCandidate, error) {
	var out []candidate.PolicyCandidate
	for _, pt := range policytype.All() {
		info, ok := policytype.Lookup(pt)
		if !ok {
			continue
		}
		for _, path := range info.StandardPaths {
			url := s.baseURL(domain) + path
			resp, err := s.client.Get(ctx, url)
			if err != nil {
				logging.LogStrategy(s.Name(), "fetch %s: %v", url, err)
				continue
			}
			resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				continue
			}
			out = append(out, candidate.PolicyCandidate{
				URL:          url,
				Type:         pt,
				Source:       candidate.SourceStandardPath,
				Confidence:   60,
				MethodDetail: fmt.Sprintf("standard path %s returned %d", path, resp.StatusCode),
				Context:      candidate.ContextUnknown,
			})
		}
	}
	if out == nil {
		return nil, &perr.StrategyError{Strategy: s.Name(), Domain: domain, Err: fmt.Errorf("no standard paths resolved")}
	}
	return out, nil
}

// Package sitemap fetches /sitemap.xml and scans its URL entries for
// policy-shaped paths, catching sites that keep legal pages out of
// their footer navigation entirely.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/multilingual"
	"github.com/codebooo/policyscout/internal/perr"
	"github.com/codebooo/policyscout/internal/policytype"
)

// urlset mirrors the subset of the sitemap.xml schema this strategy
// needs; encoding/xml is used rather than a third-party parser because
// none of the teacher's dependencies touch XML and the schema here is
// two fields deep.
type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

var sitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml"}

// Strategy fetches and scans sitemap.xml for policy-shaped URLs.
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
		baseURL: func(domain string) string { return "https://" + domain },
	}
}

// WithBaseURL overrides how a domain maps to its base URL, used in
// tests against an httptest.Server.
func (s *Strategy) WithBaseURL(fn func(domain string) string) *Strategy {
	s.baseURL = fn
	return s
}

func (s *Strategy) Name() string    { return "sitemap" }
func (s *Strategy) IsDefault() bool { return true }

// Execute tries each known sitemap path and scores every listed URL.
func (s *Strategy) Execute(ctx context.Context, domain string) ([]candidate.PolicyCandidate, error) {
	var out []candidate.PolicyCandidate
	var lastErr error

	for _, path := range sitemapPaths {
		url := s.baseURL(domain) + path
		resp, err := s.client.Get(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			continue
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		var set urlset
		if err := xml.Unmarshal(body, &set); err != nil {
			lastErr = err
			continue
		}
		for _, entry := range set.URLs {
			score := s.catalog.ScorePrivacyUrl(entry.Loc)
			if score == 0 {
				continue
			}
			out = append(out, candidate.PolicyCandidate{
				URL:          entry.Loc,
				Type:         policytype.Default,
				Source:       candidate.SourceSitemap,
				Confidence:   score,
				MethodDetail: fmt.Sprintf("listed in %s", path),
				Context:      candidate.ContextUnknown,
			})
		}
		if len(set.URLs) > 0 {
			break
		}
	}

	if out == nil {
		if lastErr != nil {
			return nil, &perr.StrategyError{Strategy: s.Name(), Domain: domain, Err: lastErr}
		}
		return nil, &perr.StrategyError{Strategy: s.Name(), Domain: domain, Err: fmt.Errorf("no sitemap found")}
	}
	return out, nil
}

// Package wayback queries the Internet Archive's CDX API for every
// crawled URL under domain and scores the ones that look like policy
// documents, adapted from stormfinder's pkg/subscraping/sources/wayback
// (which mined the same CDX feed for subdomains rather than paths).
package wayback

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

// cdxResponse is the CDX API's "output=json" shape: a header row naming
// the columns, followed by one array per capture in that column order
// (with fl=original both are just ["original"]). Execute reads the
// column the header names "original", or the first column if none does.
type cdxResponse [][]string

// Strategy mines the Wayback Machine's capture history for URLs that
// look like a policy document, useful when the live site no longer
// links to a page it once published.
type Strategy struct {
	client   *httpx.Client
	catalog  *multilingual.Catalog
	endpoint func(domain string) string
}

// New builds the strategy against the public CDX endpoint.
func New(client *httpx.Client, catalog *multilingual.Catalog) *Strategy {
	return &Strategy{
		client:  client,
		catalog: catalog,
		endpoint: func(domain string) string {
			return fmt.Sprintf("http://web.archive.org/cdx/search/cdx?url=%s/*&output=json&collapse=urlkey&fl=original&limit=2000", domain)
		},
	}
}

// WithEndpoint overrides the CDX query URL builder, used in tests.
func (s *Strategy) WithEndpoint(fn func(domain string) string) *Strategy {
	s.endpoint = fn
	return s
}

func (s *Strategy) Name() string    { return "wayback" }
func (s *Strategy) IsDefault() bool { return false }

// Execute fetches domain's capture history and scores every distinct
// original URL against the multilingual privacy-term catalog.
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

	var response cdxResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, &perr.StrategyError{Strategy: s.Name(), Domain: domain, Err: err}
	}

	col := 0
	if len(response) > 0 {
		for i, name := range response[0] {
			if name == "original" {
				col = i
				break
			}
		}
	}

	seen := make(map[string]struct{})
	var out []candidate.PolicyCandidate
	for i, entry := range response {
		if i == 0 || len(entry) <= col {
			continue // first row is the CDX header, not a capture
		}
		original := entry[col]
		if _, dup := seen[original]; dup {
			continue
		}
		seen[original] = struct{}{}

		score := s.catalog.ScorePrivacyUrl(original)
		if score == 0 {
			continue
		}
		out = append(out, candidate.PolicyCandidate{
			URL:          original,
			Type:         policytype.Default,
			Source:       candidate.SourceWaybackArchive,
			Confidence:   score - 15, // an archived URL may no longer be live
			MethodDetail: "wayback machine capture",
			Context:      candidate.ContextUnknown,
		})
	}
	if out == nil {
		return nil, &perr.StrategyError{Strategy: s.Name(), Domain: domain, Err: fmt.Errorf("no policy-like captures found")}
	}
	return out, nil
}

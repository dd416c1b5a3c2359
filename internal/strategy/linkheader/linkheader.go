// Package linkheader inspects the HTTP Link response header a CMS may
// emit on its homepage (RFC 8288), the way WordPress and similar
// platforms advertise canonical, license, or legal URLs without
// putting them in the visible DOM.
package linkheader

import (
	"context"
	"fmt"

	"github.com/tomnomnom/linkheader"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/multilingual"
	"github.com/codebooo/policyscout/internal/perr"
	"github.com/codebooo/policyscout/internal/policytype"
)

// relsOfInterest are the Link rel values worth scoring even without a
// privacy-sounding URL, since "rel" already states the page's purpose.
var relsOfInterest = map[string]int{
	"privacy-policy": 90,
	"terms-of-service": 90,
	"license":        60,
}

// Strategy parses the Link header off the homepage response.
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

func (s *Strategy) Name() string    { return "link_header" }
func (s *Strategy) IsDefault() bool { return true }

// Execute fetches domain's homepage and scores every Link header entry,
// either by its declared rel or by the multilingual catalog if the rel
// itself is uninformative.
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

	header := resp.Header.Get("Link")
	if header == "" {
		return nil, &perr.StrategyError{Strategy: s.Name(), Domain: domain, Err: fmt.Errorf("no Link header present")}
	}

	var out []candidate.PolicyCandidate
	for _, link := range linkheader.Parse(header) {
		score, known := relsOfInterest[link.Rel]
		if !known {
			score = s.catalog.ScorePrivacyUrl(link.URL)
		}
		if score == 0 {
			continue
		}
		out = append(out, candidate.PolicyCandidate{
			URL:          link.URL,
			Type:         policytype.Default,
			Source:       candidate.SourceLinkHeader,
			Confidence:   score,
			MethodDetail: fmt.Sprintf("Link header rel=%q", link.Rel),
			Context:      candidate.ContextUnknown,
		})
	}
	if out == nil {
		return nil, &perr.StrategyError{Strategy: s.Name(), Domain: domain, Err: fmt.Errorf("no policy-like Link entries")}
	}
	return out, nil
}

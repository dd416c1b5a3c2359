// Package homepage parses the homepage DOM with golang.org/x/net/html
// to find footer, nav, and legal-hub links, rather than regexing raw
// HTML the way DirectFetch does (spec's Open Question explicitly
// allows both a parsed and a regex sibling to coexist).
package homepage

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/multilingual"
	"github.com/codebooo/policyscout/internal/perr"
	"github.com/codebooo/policyscout/internal/policytype"
)

// Strategy parses the homepage DOM for footer/nav/legal-hub links.
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

func (s *Strategy) Name() string    { return "homepage_scraper" }
func (s *Strategy) IsDefault() bool { return true }

// Execute fetches domain's homepage and walks the parsed DOM tree for
// link candidates, tagging each with the semantic Context it was found
// in (footer, nav, legal hub, or plain body).
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

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, &perr.StrategyError{Strategy: s.Name(), Domain: domain, Err: err}
	}

	var out []candidate.PolicyCandidate
	walk(doc, candidate.ContextBody, func(href, text string, ctx2 candidate.Context) {
		urlScore := s.catalog.ScorePrivacyUrl(href)
		textScore := s.catalog.ScoreLinkText(text)
		score := urlScore
		if textScore > score {
			score = textScore
		}
		if score == 0 {
			return
		}
		if ctx2 == candidate.ContextFooter || ctx2 == candidate.ContextLegal {
			score += 10
			if score > 100 {
				score = 100
			}
		}
		out = append(out, candidate.PolicyCandidate{
			URL:          resolveURL(domain, href),
			Type:         policytype.Default,
			Source:       sourceFor(ctx2),
			Confidence:   score,
			MethodDetail: fmt.Sprintf("%s link %q", ctx2, text),
			LinkText:     text,
			Context:      ctx2,
		})
	})
	return out, nil
}

func sourceFor(ctx candidate.Context) candidate.Source {
	switch ctx {
	case candidate.ContextFooter:
		return candidate.SourceFooterLink
	case candidate.ContextLegal:
		return candidate.SourceLegalHub
	case candidate.ContextNav:
		return candidate.SourceNavLink
	default:
		return candidate.SourceFooterLink
	}
}

// walk recurses the DOM, tracking the semantic container (footer/nav)
// the current node is inside, and invokes emit for every anchor found.
func walk(n *html.Node, ctx candidate.Context, emit func(href, text string, ctx candidate.Context)) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "footer":
			ctx = candidate.ContextFooter
		case "nav":
			ctx = candidate.ContextNav
		case "div", "section":
			if isLegalHub(n) {
				ctx = candidate.ContextLegal
			}
		case "a":
			href := attr(n, "href")
			if href != "" {
				emit(href, textOf(n), ctx)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, ctx, emit)
	}
}

func isLegalHub(n *html.Node) bool {
	id := strings.ToLower(attr(n, "id"))
	class := strings.ToLower(attr(n, "class"))
	for _, needle := range []string{"legal", "policies", "policy-links"} {
		if strings.Contains(id, needle) || strings.Contains(class, needle) {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var rec func(*html.Node)
	rec = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return strings.TrimSpace(sb.String())
}

func resolveURL(domain, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return "https://" + domain + href
	}
	return "https://" + domain + "/" + href
}

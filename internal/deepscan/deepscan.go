// Package deepscan implements the bounded recursive refinement pass:
// when a discovered page is a legal hub rather than the policy itself,
// it follows the hub's own links one or two levels deeper looking for
// the actual document (spec §4.4).
package deepscan

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/logging"
	"github.com/codebooo/policyscout/internal/multilingual"
	"github.com/codebooo/policyscout/internal/perr"
	"github.com/codebooo/policyscout/internal/policytype"
)

// MaxDepth bounds the recursion so a hub-of-hubs page cannot send the
// scanner down an unbounded chain.
const MaxDepth = 2

// hubKeywords mark a page as an index of legal documents rather than a
// document itself.
var hubKeywords = []string{"legal center", "legal hub", "policies", "all policies", "legal documents"}

// Scanner follows legal-hub pages to the policy documents they link to.
type Scanner struct {
	client  *httpx.Client
	catalog *multilingual.Catalog
}

// New builds a Scanner.
func New(client *httpx.Client, catalog *multilingual.Catalog) *Scanner {
	return &Scanner{client: client, catalog: catalog}
}

// Refine inspects hub and, if it looks like a legal index page rather
// than a policy document, follows its links up to MaxDepth levels,
// returning any better candidates it finds. visited prevents cycles
// across the whole discovery run, not just this call.
func (s *Scanner) Refine(ctx context.Context, domain string, hub candidate.PolicyCandidate, visited map[string]struct{}) ([]candidate.PolicyCandidate, error) {
	return s.refine(ctx, domain, hub.URL, hub.Type, 0, visited)
}

func (s *Scanner) refine(ctx context.Context, domain, pageURL string, pt policytype.Type, depth int, visited map[string]struct{}) ([]candidate.PolicyCandidate, error) {
	if depth >= MaxDepth {
		return nil, nil
	}
	if _, seen := visited[pageURL]; seen {
		return nil, nil
	}
	visited[pageURL] = struct{}{}

	resp, err := s.client.Get(ctx, pageURL)
	if err != nil {
		return nil, &perr.TransientNetworkError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &perr.StrategyError{Strategy: "deep_scan", Domain: domain, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, &perr.StrategyError{Strategy: "deep_scan", Domain: domain, Err: err}
	}

	pageText := strings.ToLower(textContent(doc))
	if !looksLikeHub(pageText) {
		return nil, nil
	}
	logging.LogDeepScan("%s looks like a legal hub, following links (depth=%d)", pageURL, depth)

	var out []candidate.PolicyCandidate
	for _, link := range anchors(doc) {
		href := resolveURL(domain, link.href)
		score := s.catalog.ScorePrivacyUrl(href)
		if t := s.catalog.ScoreLinkText(link.text); t > score {
			score = t
		}
		if score == 0 {
			continue
		}
		out = append(out, candidate.PolicyCandidate{
			URL:          href,
			Type:         pt,
			Source:       candidate.SourceDeepScan,
			Confidence:   score,
			MethodDetail: fmt.Sprintf("deep scan from hub %s (depth %d)", pageURL, depth+1),
			LinkText:     link.text,
			Context:      candidate.ContextUnknown,
		})

		nested, err := s.refine(ctx, domain, href, pt, depth+1, visited)
		if err == nil {
			out = append(out, nested...)
		}
	}
	return out, nil
}

func looksLikeHub(pageText string) bool {
	for _, kw := range hubKeywords {
		if strings.Contains(pageText, kw) {
			return true
		}
	}
	return false
}

type anchor struct {
	href string
	text string
}

func anchors(n *html.Node) []anchor {
	var out []anchor
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "a" {
			href := attr(node, "href")
			if href != "" {
				out = append(out, anchor{href: href, text: textContent(node)})
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var rec func(*html.Node)
	rec = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteString(" ")
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

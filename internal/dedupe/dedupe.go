// Package dedupe collapses duplicate PolicyCandidates produced by
// different strategies before ranking, using golang.org/x/exp/maps to
// mirror the set-building style stormfinder's enumeration loop uses
// for uniqueMap.
package dedupe

import (
	"net/url"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/codebooo/policyscout/internal/candidate"
)

// normalizeURL strips scheme, trailing slash, and www. so equivalent
// URLs from different strategies collapse to the same key.
func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.TrimSuffix(raw, "/")
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	path := strings.TrimSuffix(u.Path, "/")
	return host + path
}

// Candidates merges duplicate candidates (same normalized URL and
// type), keeping the one with the highest confidence and the lowest
// source priority number on ties.
func Candidates(in []candidate.PolicyCandidate) []candidate.PolicyCandidate {
	best := make(map[string]candidate.PolicyCandidate)
	for _, c := range in {
		key := string(c.Type) + "|" + normalizeURL(c.URL)
		existing, ok := best[key]
		if !ok || isBetter(c, existing) {
			best[key] = c
		}
	}
	return maps.Values(best)
}

func isBetter(a, b candidate.PolicyCandidate) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.Source.Priority() < b.Source.Priority()
}

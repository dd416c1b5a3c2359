// Package candidate holds the per-request data model shared across
// the discovery pipeline: DomainIdentity, PolicyCandidate, and
// DiscoveryResult (spec §3). Instances are discarded after the request
// that produced them returns.
package candidate

import (
	"time"

	"github.com/codebooo/policyscout/internal/policytype"
)

// Source is a closed tagged variant identifying which strategy (or
// refinement stage) produced a PolicyCandidate.
type Source string

const (
	SourceStandardPath    Source = "standard_path"
	SourceSitemap         Source = "sitemap"
	SourceFooterLink      Source = "footer_link"
	SourceSearchFallback  Source = "search_fallback"
	SourceSpecialDomain   Source = "special_domain"
	SourceDirectFetch     Source = "direct_fetch"
	SourceLegalHub        Source = "legal_hub"
	SourceNavLink         Source = "nav_link"
	SourceDeepScan        Source = "deep_scan"
	SourceWaybackArchive  Source = "wayback_archive"
	SourceUrlscan         Source = "urlscan"
	SourceLinkHeader      Source = "link_header"
	SourceManual          Source = "manual_feedback"
)

// sourcePriority gives the stable tie-break order from spec §4.3's
// numbering, used when sorting candidates of equal confidence.
var sourcePriority = map[Source]int{
	SourceFooterLink:     1, // HomepageScraper
	SourceNavLink:        1,
	SourceLegalHub:       1,
	SourceDirectFetch:    2,
	SourceStandardPath:   3,
	SourceSitemap:        4,
	SourceSearchFallback: 5,
	SourceSpecialDomain:  0,
	SourceDeepScan:       6,
	SourceUrlscan:        7,
	SourceWaybackArchive: 8,
	SourceLinkHeader:     2,
}

// Priority returns the stable tie-break rank for this source.
func (s Source) Priority() int {
	if p, ok := sourcePriority[s]; ok {
		return p
	}
	return 99
}

// Context describes where on a page a link was found.
type Context string

const (
	ContextFooter  Context = "footer"
	ContextLegal   Context = "legal_hub"
	ContextNav     Context = "nav"
	ContextBody    Context = "body"
	ContextUnknown Context = "unknown"
)

// PolicyCandidate is a proposed answer from a strategy (spec §3).
type PolicyCandidate struct {
	URL          string
	Type         policytype.Type
	Source       Source
	Confidence   int
	FoundAt      time.Time
	MethodDetail string
	LinkText     string
	Context      Context
	NeuralScore  *float64
}

// Clamp bounds Confidence to [0, 100], the universal invariant from
// spec §8.
func (c *PolicyCandidate) Clamp() {
	if c.Confidence < 0 {
		c.Confidence = 0
	}
	if c.Confidence > 100 {
		c.Confidence = 100
	}
}

// DomainIdentity is the immutable result of input resolution (spec §3).
type DomainIdentity struct {
	OriginalInput string
	CleanDomain   string
	Subdomain     string
	RootDomain    string
	TLD           string
	IsValid       bool
}

// DiscoveryResult is the final pipeline output (spec §3 and §6).
type DiscoveryResult struct {
	Success          bool
	Domain           string
	Policies         []PolicyCandidate
	TotalCandidates  int
	Elapsed          time.Duration
	Error            string
	Stats            map[string]StrategyStats
	TraceID          string
}

// StrategyStats is the supplemental per-strategy statistics record
// (SPEC_FULL §4), mirroring the teacher's subscraping.Statistics.
type StrategyStats struct {
	CandidatesFound int
	Errors          int
	TimeTaken       time.Duration
}

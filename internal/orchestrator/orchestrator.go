// Package orchestrator runs the full discovery pipeline: identity
// resolution, special-domain shortcut, concurrent strategy fan-out,
// dedup/merge, content validation, deep-link refinement, and final
// ranking (spec §4.2). Its parallel fan-out mode is grounded on
// stormfinder's EnumerateSingleDomainWithCtx goroutine/channel merge;
// "Jarvis" is this pipeline's own orchestrator identity, named the
// way stormfinder names its own enumeration modes.
package orchestrator

import (
	"context"
	"sort"
	"time"

	"github.com/rs/xid"

	"github.com/codebooo/policyscout/internal/cache"
	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/config"
	"github.com/codebooo/policyscout/internal/deepscan"
	"github.com/codebooo/policyscout/internal/dedupe"
	"github.com/codebooo/policyscout/internal/domainvalidator"
	"github.com/codebooo/policyscout/internal/identifier"
	"github.com/codebooo/policyscout/internal/logging"
	"github.com/codebooo/policyscout/internal/perr"
	"github.com/codebooo/policyscout/internal/policytype"
	"github.com/codebooo/policyscout/internal/strategy"
	"github.com/codebooo/policyscout/internal/validator"
	"github.com/codebooo/policyscout/internal/workerpool"
)

// Mode selects how strategies are run against a single domain.
type Mode int

const (
	// ModeParallel fans every default strategy out across a bounded
	// worker pool ("Jarvis" mode). This is the default.
	ModeParallel Mode = iota
	// ModeSequential runs strategies one at a time, also used as the
	// fallback when a parallel run yields no candidates.
	ModeSequential
)

// Orchestrator ties every pipeline stage together for one discovery
// request.
type Orchestrator struct {
	cfg        *config.Config
	resolver   *identifier.Resolver
	registry   *strategy.Registry
	validator  *validator.Validator
	scanner    *deepscan.Scanner
	domainVal  *domainvalidator.Validator
	cache      *cache.Cache
	mode       Mode
}

// New builds an Orchestrator from its fully wired dependencies.
func New(
	cfg *config.Config,
	resolver *identifier.Resolver,
	registry *strategy.Registry,
	v *validator.Validator,
	scanner *deepscan.Scanner,
	domainVal *domainvalidator.Validator,
	c *cache.Cache,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		resolver:  resolver,
		registry:  registry,
		validator: v,
		scanner:   scanner,
		domainVal: domainVal,
		cache:     c,
		mode:      ModeParallel,
	}
}

// WithMode overrides the fan-out mode, mainly for tests that want
// deterministic sequential execution.
func (o *Orchestrator) WithMode(mode Mode) *Orchestrator {
	o.mode = mode
	return o
}

// Discover resolves input, fans discovery strategies out across it, and
// returns the ranked, validated result (spec §4.2 and §6).
func (o *Orchestrator) Discover(ctx context.Context, input string) candidate.DiscoveryResult {
	start := time.Now()
	traceID := xid.New().String()

	ctx, cancel := context.WithTimeout(ctx, o.cfg.OrchestratorCap)
	defer cancel()

	identity, err := o.resolver.Identify(ctx, input)
	if err != nil {
		logging.LogError("[%s] resolution failed for %q: %v", traceID, input, err)
		return candidate.DiscoveryResult{
			Success: false,
			Domain:  input,
			Error:   err.Error(),
			Elapsed: time.Since(start),
			TraceID: traceID,
		}
	}
	domain := identity.RootDomain
	logging.LogOrchestrator("[%s] resolved %q to %s", traceID, input, domain)

	if shortcut := o.specialDomainCandidates(domain); shortcut != nil {
		return o.finish(shortcut, domain, traceID, start, nil)
	}

	if cached, ok := o.cachedResult(domain); ok {
		logging.LogOrchestrator("[%s] serving %s from cache", traceID, domain)
		return o.finish(cached, domain, traceID, start, nil)
	}

	stats := make(map[string]candidate.StrategyStats)
	var all []candidate.PolicyCandidate

	switch o.mode {
	case ModeSequential:
		all = o.runSequential(ctx, domain, stats)
	default:
		all = o.runParallel(ctx, domain, stats)
		if len(all) == 0 {
			all = o.runSequential(ctx, domain, stats)
		}
	}

	all = o.filterByDomainValidity(domain, all)
	all = dedupe.Candidates(all)
	rank(all)

	chosen := o.validatePhase(ctx, all)
	chosen = o.deepScanPrivacy(ctx, domain, chosen)

	o.storeResult(domain, chosen)

	return o.finish(chosen, domain, traceID, start, stats)
}

// cachedResult returns every cached PolicyCandidate across all policy
// types for domain, if at least one type has a cache entry.
func (o *Orchestrator) cachedResult(domain string) ([]candidate.PolicyCandidate, bool) {
	if o.cache == nil {
		return nil, false
	}
	var all []candidate.PolicyCandidate
	found := false
	for _, pt := range policytype.All() {
		if cached, ok := o.cache.Get(domain, pt); ok {
			all = append(all, cached...)
			found = true
		}
	}
	return all, found
}

// storeResult caches the final candidates for domain, grouped by
// policy type.
func (o *Orchestrator) storeResult(domain string, all []candidate.PolicyCandidate) {
	if o.cache == nil {
		return
	}
	byType := make(map[policytype.Type][]candidate.PolicyCandidate)
	for _, c := range all {
		byType[c.Type] = append(byType[c.Type], c)
	}
	for pt, candidates := range byType {
		if err := o.cache.Set(domain, pt, candidates); err != nil {
			logging.LogError("cache set %s/%s: %v", domain, pt, err)
		}
	}
}

// specialDomainCandidates short-circuits discovery for the hard-coded
// high-value hosts that actively resist crawling (spec §3).
func (o *Orchestrator) specialDomainCandidates(domain string) []candidate.PolicyCandidate {
	overrides, ok := o.cfg.SpecialDomains[domain]
	if !ok {
		return nil
	}
	now := time.Now()
	out := make([]candidate.PolicyCandidate, 0, len(overrides))
	for pt, url := range overrides {
		out = append(out, candidate.PolicyCandidate{
			URL:          url,
			Type:         pt,
			Source:       candidate.SourceSpecialDomain,
			Confidence:   100,
			FoundAt:      now,
			MethodDetail: "special domain override",
			Context:      candidate.ContextUnknown,
		})
	}
	return out
}

func (o *Orchestrator) runSequential(ctx context.Context, domain string, stats map[string]candidate.StrategyStats) []candidate.PolicyCandidate {
	var all []candidate.PolicyCandidate
	for _, s := range o.registry.Defaults() {
		started := time.Now()
		found, err := s.Execute(ctx, domain)
		st := stats[s.Name()]
		st.TimeTaken = time.Since(started)
		if err != nil {
			st.Errors++
			logging.LogStrategy(s.Name(), "error: %v", err)
		} else {
			st.CandidatesFound = len(found)
			all = append(all, found...)
		}
		stats[s.Name()] = st
	}
	return all
}

func (o *Orchestrator) runParallel(ctx context.Context, domain string, stats map[string]candidate.StrategyStats) []candidate.PolicyCandidate {
	strategies := o.registry.Defaults()
	pool := workerpool.New(ctx, len(strategies), len(strategies))
	pool.Start()

	for _, s := range strategies {
		s := s
		pool.Submit(&workerpool.BasicTask{
			ID: s.Name(),
			Function: func(ctx context.Context) (interface{}, error) {
				started := time.Now()
				found, err := s.Execute(ctx, domain)
				return strategyOutcome{name: s.Name(), candidates: found, elapsed: time.Since(started)}, err
			},
		})
	}
	go pool.Stop()

	var all []candidate.PolicyCandidate
	for result := range pool.Results() {
		outcome, _ := result.GetData().(strategyOutcome)
		st := stats[outcome.name]
		st.TimeTaken = outcome.elapsed
		if err := result.GetError(); err != nil {
			st.Errors++
			logging.LogStrategy(outcome.name, "error: %v", err)
		} else {
			st.CandidatesFound = len(outcome.candidates)
			all = append(all, outcome.candidates...)
		}
		stats[outcome.name] = st
	}
	return all
}

type strategyOutcome struct {
	name       string
	candidates []candidate.PolicyCandidate
	elapsed    time.Duration
}

func (o *Orchestrator) filterByDomainValidity(domain string, in []candidate.PolicyCandidate) []candidate.PolicyCandidate {
	out := in[:0]
	for _, c := range in {
		if o.domainVal.IsBlockedUrl(c.URL) {
			continue
		}
		result := o.domainVal.ValidateUrlForDomain(c.URL, domain)
		if !result.IsValid {
			continue
		}
		out = append(out, c)
	}
	return out
}

// validatePhase groups ranked candidates by PolicyType (rank already
// put each group's best candidate first) and runs Phase 3 content
// validation independently per type (spec §4.2 Phase 3).
func (o *Orchestrator) validatePhase(ctx context.Context, ranked []candidate.PolicyCandidate) []candidate.PolicyCandidate {
	groups := make(map[policytype.Type][]candidate.PolicyCandidate)
	var order []policytype.Type
	for _, c := range ranked {
		if _, ok := groups[c.Type]; !ok {
			order = append(order, c.Type)
		}
		groups[c.Type] = append(groups[c.Type], c)
	}

	out := make([]candidate.PolicyCandidate, 0, len(order))
	for _, pt := range order {
		out = append(out, o.validateGroup(ctx, groups[pt]))
	}
	return out
}

// validateGroup runs spec §4.2 Phase 3 for one PolicyType's candidates,
// already ranked best-first: validate the best; if it's invalid but
// still promising, try up to the next four in rank order and let the
// first valid one replace it; otherwise penalize the best by 20,
// floored at 30.
func (o *Orchestrator) validateGroup(ctx context.Context, group []candidate.PolicyCandidate) candidate.PolicyCandidate {
	best := group[0]
	outcome := o.validator.Inspect(ctx, best)
	if outcome.Inconclusive {
		return best // keep pre-validation confidence, spec §7
	}
	if outcome.Valid {
		return outcome.Candidate
	}

	if outcome.ShouldDeepSearch {
		alternates := group[1:]
		if len(alternates) > 4 {
			alternates = alternates[:4]
		}
		for _, alt := range alternates {
			altOutcome := o.validator.Inspect(ctx, alt)
			if altOutcome.Inconclusive || !altOutcome.Valid {
				continue
			}
			replacement := alt
			replacement.Confidence = alt.Confidence
			if altOutcome.ValidatorScore > replacement.Confidence {
				replacement.Confidence = altOutcome.ValidatorScore
			}
			replacement.Clamp()
			return replacement
		}
	}

	best.Confidence -= 20
	if best.Confidence < 30 {
		best.Confidence = 30
	}
	return best
}

// deepScanPrivacy follows the chosen privacy candidate one or two
// levels deeper when it looks like a legal hub, replacing it only if
// DeepLinkScanner finds something with higher confidence (spec §4.2
// Phase 4: privacy only).
func (o *Orchestrator) deepScanPrivacy(ctx context.Context, domain string, in []candidate.PolicyCandidate) []candidate.PolicyCandidate {
	visited := make(map[string]struct{})
	out := make([]candidate.PolicyCandidate, len(in))
	copy(out, in)
	for i, c := range out {
		if c.Type != policytype.Privacy {
			continue
		}
		if c.Context != candidate.ContextLegal && c.Source != candidate.SourceLegalHub {
			continue
		}
		refined, err := o.scanner.Refine(ctx, domain, c, visited)
		if err != nil {
			logging.LogDeepScan("refine %s: %v", c.URL, err)
			continue
		}
		if best := bestOf(refined); best != nil && best.Confidence > c.Confidence {
			out[i] = *best
		}
	}
	return out
}

func bestOf(in []candidate.PolicyCandidate) *candidate.PolicyCandidate {
	if len(in) == 0 {
		return nil
	}
	best := in[0]
	for _, c := range in[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	return &best
}

func (o *Orchestrator) finish(all []candidate.PolicyCandidate, domain, traceID string, start time.Time, stats map[string]candidate.StrategyStats) candidate.DiscoveryResult {
	total := len(all)
	rank(all)
	chosen := selectBestPerType(all)
	return candidate.DiscoveryResult{
		Success:         len(chosen) > 0,
		Domain:          domain,
		Policies:        chosen,
		TotalCandidates: total,
		Elapsed:         time.Since(start),
		Stats:           stats,
		TraceID:         traceID,
	}
}

// rank sorts candidates by PolicyType, then descending confidence,
// then ascending source priority as the stable tie-break (spec §4.3).
func rank(all []candidate.PolicyCandidate) {
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Type != all[j].Type {
			return all[i].Type < all[j].Type
		}
		if all[i].Confidence != all[j].Confidence {
			return all[i].Confidence > all[j].Confidence
		}
		return all[i].Source.Priority() < all[j].Source.Priority()
	})
}

// selectBestPerType keeps exactly one candidate per PolicyType: the
// first survivor of each type in ranked order, which rank already put
// first (spec §3 "one per requested type", Phase 2 selection).
func selectBestPerType(ranked []candidate.PolicyCandidate) []candidate.PolicyCandidate {
	seen := make(map[policytype.Type]struct{}, len(policytype.All()))
	out := make([]candidate.PolicyCandidate, 0, len(policytype.All()))
	for _, c := range ranked {
		if _, ok := seen[c.Type]; ok {
			continue
		}
		seen[c.Type] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ResolutionErrorFor builds the caller-facing error for an unresolved
// domain, the only error class that surfaces from Discover itself
// (spec §7); every other failure mode is absorbed into reduced
// confidence or a dropped candidate.
func ResolutionErrorFor(input string, reason string) error {
	return &perr.ResolutionError{Input: input, Reason: reason}
}

// Package strategy defines the Strategy capability interface every
// discovery method implements, grounded in stormfinder's
// subscraping.Source (Run/Name/IsDefault/HasRecursiveSupport) but
// reshaped around synchronous candidate slices instead of a result
// channel, since each strategy here runs a single bounded fetch rather
// than a long-lived streaming source.
package strategy

import (
	"context"

	"github.com/codebooo/policyscout/internal/candidate"
)

// Strategy is one independent method of locating policy URLs on a
// domain (spec §4.3).
type Strategy interface {
	// Execute runs the strategy against domain and returns whatever
	// candidates it found. A non-nil error is always a perr.StrategyError
	// or similar absorbable error; it never aborts the orchestrator.
	Execute(ctx context.Context, domain string) ([]candidate.PolicyCandidate, error)

	// Name identifies the strategy in logs and StrategyStats.
	Name() string

	// IsDefault reports whether this strategy runs unless explicitly
	// excluded, mirroring subscraping.Source.IsDefault.
	IsDefault() bool
}

// Registry holds the known strategies in priority order.
type Registry struct {
	strategies []Strategy
}

// NewRegistry builds a Registry from strategies, in execution-priority
// order.
func NewRegistry(strategies ...Strategy) *Registry {
	return &Registry{strategies: strategies}
}

// All returns every registered strategy.
func (r *Registry) All() []Strategy {
	return r.strategies
}

// Defaults returns only the strategies that run without explicit
// opt-in.
func (r *Registry) Defaults() []Strategy {
	var out []Strategy
	for _, s := range r.strategies {
		if s.IsDefault() {
			out = append(out, s)
		}
	}
	return out
}

// ByName returns the named strategy, or nil if not registered.
func (r *Registry) ByName(name string) Strategy {
	for _, s := range r.strategies {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Package perr defines the error kinds the core propagates per the
// error handling design: resolution failures surface to the caller,
// everything else is absorbed and reflected as reduced confidence.
package perr

import "fmt"

// ResolutionError means identify() could not map input to a verifiable
// domain. It is the only error kind the discovery entry point surfaces.
type ResolutionError struct {
	Input  string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %s", e.Input, e.Reason)
}

// StrategyError wraps a failure inside a single strategy. Callers log
// and skip it; it never aborts the orchestrator.
type StrategyError struct {
	Strategy string
	Domain   string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s on %s: %v", e.Strategy, e.Domain, e.Err)
}

func (e *StrategyError) Unwrap() error { return e.Err }

// RateLimitedError records a 429 response. The offending fetch is
// treated as "no candidate from this URL", never as a hard failure.
type RateLimitedError struct {
	Host       string
	RetryAfter string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited by %s (retry-after=%s)", e.Host, e.RetryAfter)
}

// TransientNetworkError covers timeouts, connection resets, and DNS
// ENOTFOUND during probing. Never retried inside the core.
type TransientNetworkError struct {
	URL string
	Err error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("transient network error fetching %s: %v", e.URL, e.Err)
}

func (e *TransientNetworkError) Unwrap() error { return e.Err }

// ValidationInconclusive means a page could not be fetched or parsed
// enough to decide validity. Distinct from "invalid": callers must not
// escalate an inconclusive result to a deep search.
type ValidationInconclusive struct {
	URL    string
	Reason string
}

func (e *ValidationInconclusive) Error() string {
	return fmt.Sprintf("inconclusive validation for %s: %s", e.URL, e.Reason)
}

// PersistenceError wraps a failure loading or saving model state or
// training examples. Logged and swallowed; the neural scorer continues
// in whatever state it was already in.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ConfigError wraps a failure reading or parsing a user-supplied
// configuration override file.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

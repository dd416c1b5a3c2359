// Package ratelimiter enforces the per-host request budget from
// spec §4.9 (min interval, burst window, cooldown) by wrapping
// projectdiscovery/ratelimit's token bucket per host, the dependency
// stormfinder declares but never wires into its own enumeration path.
package ratelimiter

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/projectdiscovery/ratelimit"

	"github.com/codebooo/policyscout/internal/logging"
)

const (
	minInterval          = 2 * time.Second
	burstWindow          = 15 * time.Second
	maxRequestsPerWindow = uint(5)
	cooldown             = 30 * time.Second
	minCooldown          = 1 * time.Second
	maxCooldown          = 60 * time.Second
)

// hostState tracks a single host's bucket and cooldown deadline.
type hostState struct {
	limiter    *ratelimit.Limiter
	lastCall   time.Time
	cooldownAt time.Time
}

// Limiter is a process-wide, per-host rate gate. The zero value is not
// usable; construct with New.
type Limiter struct {
	mu    sync.Mutex
	hosts map[string]*hostState
}

// New builds an empty Limiter.
func New() *Limiter {
	return &Limiter{hosts: make(map[string]*hostState)}
}

// Enforce blocks until host may be contacted again, honoring any active
// cooldown and the minimum inter-request interval. It returns ctx's
// error if ctx is cancelled first.
func (l *Limiter) Enforce(ctx context.Context, host string) error {
	state := l.stateFor(host)

	l.mu.Lock()
	if wait := time.Until(state.cooldownAt); wait > 0 {
		l.mu.Unlock()
		logging.LogRateLimit("%s in cooldown for %s", host, wait.Round(time.Millisecond))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		l.mu.Lock()
	}
	if since := time.Since(state.lastCall); since < minInterval {
		wait := minInterval - since
		l.mu.Unlock()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		l.mu.Lock()
	}
	state.lastCall = time.Now()
	l.mu.Unlock()

	return state.limiter.Take(ctx)
}

// HandleRateLimited records that host returned HTTP 429 or similar,
// starting its cooldown window. retryAfter is the raw Retry-After
// header value, if the host sent one; the effective cooldown is
// whichever of it or the default cooldown is longer, clamped to
// [minCooldown, maxCooldown] (spec §4.9).
func (l *Limiter) HandleRateLimited(host, retryAfter string) {
	wait := cooldown
	if parsed, ok := parseRetryAfter(retryAfter); ok && parsed > wait {
		wait = parsed
	}
	if wait < minCooldown {
		wait = minCooldown
	}
	if wait > maxCooldown {
		wait = maxCooldown
	}

	state := l.stateFor(host)
	l.mu.Lock()
	state.cooldownAt = time.Now().Add(wait)
	l.mu.Unlock()
	logging.LogRateLimit("%s rate limited, cooling down for %s", host, wait)
}

// parseRetryAfter understands both forms RFC 9110 allows: a delay in
// seconds, or an HTTP-date.
func parseRetryAfter(header string) (time.Duration, bool) {
	if header == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(header); err == nil {
		return time.Duration(secs) * time.Second, true
	}
	if when, err := http.ParseTime(header); err == nil {
		if d := time.Until(when); d > 0 {
			return d, true
		}
	}
	return 0, false
}

// Clear drops all per-host state, used between test runs.
func (l *Limiter) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hosts = make(map[string]*hostState)
}

func (l *Limiter) stateFor(host string) *hostState {
	l.mu.Lock()
	defer l.mu.Unlock()
	state, ok := l.hosts[host]
	if !ok {
		state = &hostState{
			limiter: ratelimit.New(context.Background(), maxRequestsPerWindow, burstWindow),
		}
		l.hosts[host] = state
	}
	return state
}

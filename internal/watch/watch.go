// Package watch implements continuous re-discovery: it re-runs the
// orchestrator against a set of domains on a ticker and raises an Alert
// whenever a policy document's URL or confidence changes, adapted from
// stormfinder's pkg/monitor.RealtimeMonitor (which diffed subdomain
// sets on a ticker instead of policy candidates).
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/projectdiscovery/gologger"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/policytype"
)

// Discoverer is the subset of Orchestrator's surface Watcher needs,
// kept as an interface so tests can substitute a fake.
type Discoverer interface {
	Discover(ctx context.Context, input string) candidate.DiscoveryResult
}

// Alert reports a detected change in a domain's known policy documents.
type Alert struct {
	Domain     string             `json:"domain"`
	Type       policytype.Type    `json:"type"`
	ChangeKind string             `json:"change_kind"` // "new", "url_changed", "confidence_changed"
	OldURL     string             `json:"old_url,omitempty"`
	NewURL     string             `json:"new_url,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}

// Config tunes how a Watcher re-checks a domain.
type Config struct {
	CheckInterval time.Duration
	WebhookURL    string
}

// domainState tracks the last-seen best candidate per policy type.
type domainState struct {
	best map[policytype.Type]candidate.PolicyCandidate
}

// Watcher periodically re-runs discovery for a fixed set of domains and
// emits Alerts when the ranked result changes.
type Watcher struct {
	orch     Discoverer
	client   *httpx.Client
	cfg      Config
	mu       sync.Mutex
	state    map[string]*domainState
	alerts   chan Alert
	stopChan chan struct{}
}

// New builds a Watcher. A zero cfg.CheckInterval defaults to 30 minutes.
func New(orch Discoverer, client *httpx.Client, cfg Config) *Watcher {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 30 * time.Minute
	}
	return &Watcher{
		orch:     orch,
		client:   client,
		cfg:      cfg,
		state:    make(map[string]*domainState),
		alerts:   make(chan Alert, 100),
		stopChan: make(chan struct{}),
	}
}

// Alerts returns the channel alerts are published on.
func (w *Watcher) Alerts() <-chan Alert {
	return w.alerts
}

// Stop ends the watch loops started by Run.
func (w *Watcher) Stop() {
	close(w.stopChan)
}

// Run watches every domain in domains until ctx is cancelled or Stop is
// called, blocking until all per-domain loops exit.
func (w *Watcher) Run(ctx context.Context, domains []string) {
	var wg sync.WaitGroup
	for _, d := range domains {
		d := d
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.watchDomain(ctx, d)
		}()
	}
	wg.Wait()
}

func (w *Watcher) watchDomain(ctx context.Context, domain string) {
	ticker := time.NewTicker(w.cfg.CheckInterval)
	defer ticker.Stop()

	w.checkDomain(ctx, domain)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.checkDomain(ctx, domain)
		}
	}
}

func (w *Watcher) checkDomain(ctx context.Context, domain string) {
	result := w.orch.Discover(ctx, domain)
	if !result.Success {
		return
	}

	best := bestByType(result.Policies)

	w.mu.Lock()
	prev, known := w.state[domain]
	if !known {
		prev = &domainState{best: make(map[policytype.Type]candidate.PolicyCandidate)}
		w.state[domain] = prev
	}
	w.mu.Unlock()

	for pt, c := range best {
		old, existed := prev.best[pt]
		switch {
		case !existed:
			w.emit(Alert{Domain: domain, Type: pt, ChangeKind: "new", NewURL: c.URL, Timestamp: time.Now()})
		case old.URL != c.URL:
			w.emit(Alert{Domain: domain, Type: pt, ChangeKind: "url_changed", OldURL: old.URL, NewURL: c.URL, Timestamp: time.Now()})
		case old.Confidence != c.Confidence:
			w.emit(Alert{Domain: domain, Type: pt, ChangeKind: "confidence_changed", OldURL: old.URL, NewURL: c.URL, Timestamp: time.Now()})
		}
	}

	w.mu.Lock()
	prev.best = best
	w.mu.Unlock()
}

func bestByType(all []candidate.PolicyCandidate) map[policytype.Type]candidate.PolicyCandidate {
	out := make(map[policytype.Type]candidate.PolicyCandidate)
	for _, c := range all {
		current, ok := out[c.Type]
		if !ok || c.Confidence > current.Confidence {
			out[c.Type] = c
		}
	}
	return out
}

func (w *Watcher) emit(a Alert) {
	select {
	case w.alerts <- a:
	default:
		gologger.Warning().Msg("watch: alert queue full, dropping alert")
	}
	if w.cfg.WebhookURL != "" {
		go w.sendWebhook(a)
	}
}

func (w *Watcher) sendWebhook(a Alert) {
	body := fmt.Sprintf(`{"domain":%q,"type":%q,"change_kind":%q,"old_url":%q,"new_url":%q}`,
		a.Domain, a.Type, a.ChangeKind, a.OldURL, a.NewURL)
	if err := w.client.PostJSON(context.Background(), w.cfg.WebhookURL, body); err != nil {
		gologger.Warning().Msgf("watch: webhook delivery failed: %s", err)
	}
}

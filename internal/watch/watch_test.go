package watch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/config"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/policytype"
)

type fakeDiscoverer struct {
	calls   int32
	results []candidate.DiscoveryResult
}

func (f *fakeDiscoverer) Discover(ctx context.Context, input string) candidate.DiscoveryResult {
	i := atomic.AddInt32(&f.calls, 1) - 1
	if int(i) >= len(f.results) {
		return f.results[len(f.results)-1]
	}
	return f.results[i]
}

func TestWatcherEmitsNewAlertOnFirstSighting(t *testing.T) {
	fake := &fakeDiscoverer{results: []candidate.DiscoveryResult{
		{Success: true, Domain: "example.com", Policies: []candidate.PolicyCandidate{
			{Type: policytype.Privacy, URL: "https://example.com/privacy", Confidence: 80},
		}},
	}}
	client := httpx.New(config.Default())
	w := New(fake, client, Config{CheckInterval: time.Hour})

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx, []string{"example.com"})
		close(done)
	}()

	select {
	case a := <-w.Alerts():
		assert.Equal(t, "new", a.ChangeKind)
		assert.Equal(t, "https://example.com/privacy", a.NewURL)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for alert")
	}
	cancel()
	<-done
}

func TestWatcherDetectsURLChange(t *testing.T) {
	fake := &fakeDiscoverer{results: []candidate.DiscoveryResult{
		{Success: true, Domain: "example.com", Policies: []candidate.PolicyCandidate{
			{Type: policytype.Privacy, URL: "https://example.com/privacy", Confidence: 80},
		}},
	}}
	client := httpx.New(config.Default())
	w := New(fake, client, Config{})

	best := bestByType(fake.results[0].Policies)
	w.state["example.com"] = &domainState{best: best}

	w.checkDomain(t.Context(), "example.com")
	select {
	case <-w.Alerts():
		t.Fatal("unexpected alert for unchanged result")
	default:
	}

	fake.results = append(fake.results, candidate.DiscoveryResult{
		Success: true, Domain: "example.com", Policies: []candidate.PolicyCandidate{
			{Type: policytype.Privacy, URL: "https://example.com/privacy-policy-v2", Confidence: 85},
		},
	})
	w.checkDomain(t.Context(), "example.com")

	select {
	case a := <-w.Alerts():
		assert.Equal(t, "url_changed", a.ChangeKind)
		assert.Equal(t, "https://example.com/privacy-policy-v2", a.NewURL)
	case <-time.After(time.Second):
		t.Fatal("expected url_changed alert")
	}
}

func TestNewDefaultsCheckInterval(t *testing.T) {
	client := httpx.New(config.Default())
	w := New(&fakeDiscoverer{}, client, Config{})
	require.Equal(t, 30*time.Minute, w.cfg.CheckInterval)
}

package homepage

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/config"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/multilingual"
)

const sampleHomepage = `<html><body>
<nav><a href="/home">Home</a></nav>
<main><a href="/blog">Blog</a></main>
<footer><a href="/privacy">Privacy Policy</a></footer>
</body></html>`

func TestExecuteFindsFooterLinkAndBoostsConfidence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleHomepage))
	}))
	defer server.Close()

	cfg := config.Default()
	client := httpx.New(cfg)
	strat := New(client, multilingual.Default).WithBaseURL(func(string) string { return server.URL })

	candidates, err := strat.Execute(t.Context(), "example.com")
	require.NoError(t, err)

	var found *candidate.PolicyCandidate
	for i := range candidates {
		if candidates[i].Context == candidate.ContextFooter {
			found = &candidates[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "https://example.com/privacy", found.URL)
	assert.Equal(t, candidate.SourceFooterLink, found.Source)
	assert.Equal(t, 100, found.Confidence) // 90 from the link text + 10 footer bonus
}

func TestExecuteErrorsOnNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cfg := config.Default()
	client := httpx.New(cfg)
	strat := New(client, multilingual.Default).WithBaseURL(func(string) string { return server.URL })

	_, err := strat.Execute(t.Context(), "example.com")
	assert.Error(t, err)
}

func TestExecuteReturnsEmptyWhenNoInterestingLinks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><nav><a href="/home">Home</a></nav></body></html>`))
	}))
	defer server.Close()

	cfg := config.Default()
	client := httpx.New(cfg)
	strat := New(client, multilingual.Default).WithBaseURL(func(string) string { return server.URL })

	candidates, err := strat.Execute(t.Context(), "example.com")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

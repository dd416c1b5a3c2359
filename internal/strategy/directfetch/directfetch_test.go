package directfetch

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebooo/policyscout/internal/config"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/multilingual"
)

const sampleHomepage = `<html><body>
<a href="/privacy-policy">Privacy Policy</a>
<a href="/about">About Us</a>
</body></html>`

func TestExecuteFindsPrivacyAnchor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleHomepage))
	}))
	defer server.Close()

	cfg := config.Default()
	client := httpx.New(cfg)
	strat := New(client, multilingual.Default).WithBaseURL(func(string) string { return server.URL })

	candidates, err := strat.Execute(t.Context(), "example.com")
	require.NoError(t, err)

	found := false
	for _, c := range candidates {
		if c.URL == "https://example.com/privacy-policy" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestExecuteErrorsOnNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := config.Default()
	client := httpx.New(cfg)
	strat := New(client, multilingual.Default).WithBaseURL(func(string) string { return server.URL })

	_, err := strat.Execute(t.Context(), "example.com")
	assert.Error(t, err)
}

func TestExecuteSkipsUninterestingAnchors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><a href="/about">About Us</a></body></html>`))
	}))
	defer server.Close()

	cfg := config.Default()
	client := httpx.New(cfg)
	strat := New(client, multilingual.Default).WithBaseURL(func(string) string { return server.URL })

	candidates, err := strat.Execute(t.Context(), "example.com")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

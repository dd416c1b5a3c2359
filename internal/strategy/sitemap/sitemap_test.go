package sitemap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/multilingual"
	"github.com/codebooo/policyscout/internal/config"
)

const sampleSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/about</loc></url>
  <url><loc>https://example.com/privacy-policy</loc></url>
</urlset>`

func TestExecuteFindsPrivacyURLInSitemap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sitemap.xml" {
			w.Write([]byte(sampleSitemap))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cfg := config.Default()
	client := httpx.New(cfg)
	strat := New(client, multilingual.Default).WithBaseURL(func(string) string { return server.URL })

	candidates, err := strat.Execute(t.Context(), "example.com")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "https://example.com/privacy-policy", candidates[0].URL)
}

func TestExecuteErrorsWhenNoSitemapExists(t *testing.T) {
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

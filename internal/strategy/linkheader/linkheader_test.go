package linkheader

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

func TestExecuteScoresKnownRel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link", `<https://example.com/privacy-policy>; rel="privacy-policy"`)
		w.WriteHeader(http.StatusOK)
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

func TestExecuteErrorsWhenNoLinkHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	client := httpx.New(cfg)
	strat := New(client, multilingual.Default).WithBaseURL(func(string) string { return server.URL })

	_, err := strat.Execute(t.Context(), "example.com")
	assert.Error(t, err)
}

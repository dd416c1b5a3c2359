package searchfallback

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

func TestExecuteScoresOnDomainResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a class="result__a" href="https://example.com/privacy-policy">Privacy Policy - Example</a>`))
	}))
	defer server.Close()

	cfg := config.Default()
	client := httpx.New(cfg)
	strat := New(client, multilingual.Default).WithEndpoint(server.URL + "/?q=%s")

	candidates, err := strat.Execute(t.Context(), "example.com")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "https://example.com/privacy-policy", candidates[0].URL)
}

func TestExecuteDropsOffDomainResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a class="result__a" href="https://other.com/privacy-policy">Privacy Policy</a>`))
	}))
	defer server.Close()

	cfg := config.Default()
	client := httpx.New(cfg)
	strat := New(client, multilingual.Default).WithEndpoint(server.URL + "/?q=%s")

	_, err := strat.Execute(t.Context(), "example.com")
	assert.Error(t, err)
}

func TestExecuteErrorsOnNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := config.Default()
	client := httpx.New(cfg)
	strat := New(client, multilingual.Default).WithEndpoint(server.URL + "/?q=%s")

	_, err := strat.Execute(t.Context(), "example.com")
	assert.Error(t, err)
}

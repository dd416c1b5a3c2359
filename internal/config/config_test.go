package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebooo/policyscout/internal/policytype"
)

func TestLoadOverridesMergesIntoSpecialDomains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
special_domains:
  example.com:
    privacy: https://example.com/custom-privacy
`), 0644))

	cfg := Default()
	require.NoError(t, cfg.LoadOverrides(path))

	assert.Equal(t, "https://example.com/custom-privacy", cfg.SpecialDomains["example.com"][policytype.Privacy])
}

func TestLoadOverridesMissingFileIsNotError(t *testing.T) {
	cfg := Default()
	err := cfg.LoadOverrides(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.NoError(t, err)
}

func TestLoadOverridesInvalidYAMLReturnsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml"), 0644))

	cfg := Default()
	err := cfg.LoadOverrides(path)
	assert.Error(t, err)
}

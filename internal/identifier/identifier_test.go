package identifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripsSchemeAndWww(t *testing.T) {
	assert.Equal(t, "example.com", normalize("https://www.example.com/path?q=1"))
	assert.Equal(t, "example.com", normalize("http://example.com"))
	assert.Equal(t, "example.com", normalize("  Example.com  "))
}

func TestCandidatesForFullDomainTriesItselfFirst(t *testing.T) {
	candidates := candidatesFor("example.com")
	assert.Equal(t, "example.com", candidates[0])
}

func TestCandidatesForBareNameGuessesTLDs(t *testing.T) {
	candidates := candidatesFor("acme")
	assert.Contains(t, candidates, "acme.com")
	assert.Contains(t, candidates, "acme.io")
}

func TestBuildIdentitySplitsSubdomain(t *testing.T) {
	identity := buildIdentity("acme", "shop.acme.com")
	assert.Equal(t, "acme.com", identity.RootDomain)
	assert.Equal(t, "shop", identity.Subdomain)
	assert.Equal(t, "com", identity.TLD)
	assert.True(t, identity.IsValid)
}

func TestBuildIdentityNoSubdomain(t *testing.T) {
	identity := buildIdentity("acme.com", "acme.com")
	assert.Equal(t, "acme.com", identity.RootDomain)
	assert.Empty(t, identity.Subdomain)
}

func TestDedupeStringsPreservesFirstOccurrence(t *testing.T) {
	out := dedupeStrings([]string{"a", "b", "a", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, out)
}

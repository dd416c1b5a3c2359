package domainvalidator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlockedDomain(t *testing.T) {
	v := New()
	assert.True(t, v.IsBlockedDomain("www.facebook.com"))
	assert.True(t, v.IsBlockedDomain("sub.crunchbase.com"))
	assert.False(t, v.IsBlockedDomain("example.com"))
}

func TestIsBlockedUrl(t *testing.T) {
	v := New()
	assert.True(t, v.IsBlockedUrl("https://www.linkedin.com/company/example/"))
	assert.True(t, v.IsBlockedUrl("not a url"))
	assert.False(t, v.IsBlockedUrl("https://example.com/privacy"))
}

func TestValidateUrlForDomainExactMatch(t *testing.T) {
	v := New()
	result := v.ValidateUrlForDomain("https://example.com/privacy", "example.com")
	assert.True(t, result.IsValid)
	assert.Equal(t, 100, result.Confidence)
}

func TestValidateUrlForDomainSubdomain(t *testing.T) {
	v := New()
	result := v.ValidateUrlForDomain("https://help.example.com/privacy", "example.com")
	assert.True(t, result.IsValid)
}

func TestValidateUrlForDomainRelatedGroup(t *testing.T) {
	v := New()
	result := v.ValidateUrlForDomain("https://www.whatsapp.com/legal/privacy-policy", "facebook.com")
	assert.True(t, result.IsValid)
	assert.Equal(t, "related domain group", result.Reason)
}

func TestValidateUrlForDomainUnrelated(t *testing.T) {
	v := New()
	result := v.ValidateUrlForDomain("https://totally-different.com/privacy", "example.com")
	assert.False(t, result.IsValid)
}

func TestCalculateDomainQualityScoreBounds(t *testing.T) {
	v := New()
	score := v.CalculateDomainQualityScore("example.gov", "https://example.gov/privacy")
	assert.GreaterOrEqual(t, score, 0)
	assert.LessOrEqual(t, score, 100)

	low := v.CalculateDomainQualityScore("example.com", "https://example.com/directory/")
	high := v.CalculateDomainQualityScore("example.com", "https://example.com/privacy")
	assert.Less(t, low, high)
}

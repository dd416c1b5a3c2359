package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampBoundsConfidence(t *testing.T) {
	c := PolicyCandidate{Confidence: 150}
	c.Clamp()
	assert.Equal(t, 100, c.Confidence)

	c = PolicyCandidate{Confidence: -30}
	c.Clamp()
	assert.Equal(t, 0, c.Confidence)

	c = PolicyCandidate{Confidence: 55}
	c.Clamp()
	assert.Equal(t, 55, c.Confidence)
}

func TestSourcePriorityOrdering(t *testing.T) {
	assert.Less(t, SourceSpecialDomain.Priority(), SourceFooterLink.Priority())
	assert.Less(t, SourceFooterLink.Priority(), SourceStandardPath.Priority())
	assert.Less(t, SourceStandardPath.Priority(), SourceSitemap.Priority())
	assert.Less(t, SourceSitemap.Priority(), SourceSearchFallback.Priority())
}

func TestUnknownSourcePriorityIsLast(t *testing.T) {
	assert.Equal(t, 99, Source("made-up").Priority())
}

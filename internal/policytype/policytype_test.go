package policytype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllReturnsEveryType(t *testing.T) {
	all := All()
	assert.Len(t, all, 8)
	assert.Contains(t, all, Privacy)
	assert.Contains(t, all, AcceptableUse)
}

func TestLookupKnownType(t *testing.T) {
	info, ok := Lookup(Privacy)
	require.True(t, ok)
	assert.Equal(t, Privacy, info.Type)
	assert.NotEmpty(t, info.StandardPaths)
	assert.NotEmpty(t, info.Keywords)
}

func TestLookupEveryDeclaredType(t *testing.T) {
	for _, pt := range All() {
		info, ok := Lookup(pt)
		require.Truef(t, ok, "missing catalog entry for %s", pt)
		assert.NotEmpty(t, info.DisplayName)
	}
}

func TestLookupUnknownType(t *testing.T) {
	_, ok := Lookup(Type("not-a-real-type"))
	assert.False(t, ok)
}

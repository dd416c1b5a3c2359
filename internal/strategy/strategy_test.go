package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codebooo/policyscout/internal/candidate"
)

type fakeStrategy struct {
	name      string
	isDefault bool
}

func (f *fakeStrategy) Execute(ctx context.Context, domain string) ([]candidate.PolicyCandidate, error) {
	return nil, nil
}
func (f *fakeStrategy) Name() string    { return f.name }
func (f *fakeStrategy) IsDefault() bool { return f.isDefault }

func TestRegistryAllReturnsEveryStrategy(t *testing.T) {
	a := &fakeStrategy{name: "a", isDefault: true}
	b := &fakeStrategy{name: "b", isDefault: false}
	reg := NewRegistry(a, b)

	assert.Equal(t, []Strategy{a, b}, reg.All())
}

func TestRegistryDefaultsFiltersNonDefault(t *testing.T) {
	a := &fakeStrategy{name: "a", isDefault: true}
	b := &fakeStrategy{name: "b", isDefault: false}
	reg := NewRegistry(a, b)

	assert.Equal(t, []Strategy{a}, reg.Defaults())
}

func TestRegistryByNameFindsRegisteredStrategy(t *testing.T) {
	a := &fakeStrategy{name: "a", isDefault: true}
	reg := NewRegistry(a)

	assert.Same(t, a, reg.ByName("a"))
	assert.Nil(t, reg.ByName("missing"))
}

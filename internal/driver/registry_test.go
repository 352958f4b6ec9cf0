package driver

import (
	"testing"

	"github.com/specialistvlad/actiongrid/internal/spec"
	"github.com/stretchr/testify/assert"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	for _, k := range spec.Kinds() {
		_, ok := r.Lookup(k)
		assert.True(t, ok, "missing driver for %s", k)
	}
	assert.NoError(t, r.Validate(spec.Kinds()))
}

func TestRegistry_Validate(t *testing.T) {
	r := NewRegistry()
	r.Register(spec.KindBuild, Build{})

	assert.NoError(t, r.Validate([]spec.Kind{spec.KindBuild}))
	err := r.Validate([]spec.Kind{spec.KindBuild, spec.KindTest})
	assert.ErrorContains(t, err, "no driver registered for kind 'test'")
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(spec.KindBuild, Build{})
	assert.Panics(t, func() { r.Register(spec.KindBuild, Build{}) })
}

//go:build !windows

package spec_features

import (
	"testing"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/test/system/harness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test for: qualified variants of one action are distinct nodes, and a
// dependency picks the exact variant it names.
func TestSpecFeatures_QualifiedVariants(t *testing.T) {
	spec := `
action "build" "lib" {
  qualifiers = { os = "linux" }
  recipe {
    build = [["sh", "-c", "echo lib-${action.qualifiers.os}"]]
  }
}

action "build" "lib" {
  qualifiers = { os = "linux", debug = "true" }
  recipe {
    build = [["sh", "-c", "echo lib-debug"]]
  }
}

action "build" "app" {
  depends_on = ["lib[os=linux]"]
  recipe {
    build = [["true"]]
  }
}

action "build" "app-debug" {
  depends_on = ["lib[debug=true]"]
  recipe {
    build = [["true"]]
  }
}
`
	res := harness.Run(t, map[string]string{"variants.hcl": spec}, nil, "app", "app-debug")

	require.NoError(t, res.Err)
	require.True(t, res.Run.Succeeded())
	require.Len(t, res.Run.Actions, 4)

	plain, ok := res.Run.Lookup(actionid.MustParse("lib[os=linux]"))
	require.True(t, ok)
	assert.Equal(t, "lib-linux\n", plain.Stdout)
	debug, ok := res.Run.Lookup(actionid.MustParse("lib[debug=true,os=linux]"))
	require.True(t, ok)
	assert.Equal(t, "lib-debug\n", debug.Stdout)
}

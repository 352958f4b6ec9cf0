package hcl

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/spec"
	"github.com/specialistvlad/actiongrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "actions.hcl")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_FullAction(t *testing.T) {
	ctx, _ := testutil.Context(t)
	path := writeFile(t, `
action "build" "compile" {
  qualifiers = { os = "linux", arch = "amd64" }
  depends_on = ["fetch", "gen[os=linux]"]
  env        = { CC = "gcc" }
  timeout    = "5m"
  kill_grace = "3s"

  recipe {
    configure = [["./configure", "--host=${action.qualifiers.os}-${action.qualifiers.arch}"]]
    build     = [["make", upper(action.name)], ["echo", "${action.kind}"]]
  }
}

action "test" "unit" {
  depends_on = ["compile[os=linux]"]
  recipe {
    commands    = [["go", "test", "./..."]]
    expect_exit = 0
  }
}
`)

	specs, err := NewLoader().Load(ctx, path)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	compile := specs[0]
	assert.Equal(t, "compile[arch=amd64,os=linux]", compile.ID().Key())
	assert.Equal(t, spec.KindBuild, compile.Kind())
	require.Len(t, compile.Deps(), 2)
	assert.Equal(t, "fetch", compile.Deps()[0].Key())
	assert.Equal(t, "gen[os=linux]", compile.Deps()[1].Key())
	assert.Equal(t, map[string]string{"CC": "gcc"}, compile.Env())
	assert.Equal(t, spec.Limits{Timeout: 5 * time.Minute, KillGrace: 3 * time.Second}, compile.Limits())
	assert.Contains(t, compile.Source(), "actions.hcl:2")

	recipe := compile.Recipe()
	configure := recipe.GetAttr("configure").Index(cty.NumberIntVal(0))
	assert.Equal(t, "--host=linux-amd64", configure.Index(cty.NumberIntVal(1)).AsString())
	build := recipe.GetAttr("build")
	assert.Equal(t, "COMPILE", build.Index(cty.NumberIntVal(0)).Index(cty.NumberIntVal(1)).AsString())
	assert.Equal(t, "build", build.Index(cty.NumberIntVal(1)).Index(cty.NumberIntVal(1)).AsString())

	unit := specs[1]
	assert.Equal(t, spec.KindTest, unit.Kind())
	assert.True(t, unit.Deps()[0].Equal(actionid.MustParse("compile[os=linux]")))
}

func TestLoad_EmptyRecipe(t *testing.T) {
	ctx, _ := testutil.Context(t)
	specs, err := NewLoader().Load(ctx, writeFile(t, `action "build" "noop" {}`))
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.True(t, specs[0].Recipe().RawEquals(cty.EmptyObjectVal))
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]struct {
		content string
		want    string
		specErr bool
	}{
		"syntax error": {
			content: `action "build" "x" {`,
			want:    "failed to parse HCL file",
		},
		"unknown top-level block": {
			content: `step "build" "x" {}`,
			want:    "failed to decode HCL file",
		},
		"unknown kind": {
			content: `action "deploy" "x" {}`,
			want:    "unknown action kind",
			specErr: true,
		},
		"bad duration": {
			content: `action "build" "x" { timeout = "soon" }`,
			want:    "invalid timeout",
			specErr: true,
		},
		"self dependency": {
			content: `action "build" "x" { depends_on = ["x"] }`,
			want:    "depends on itself",
			specErr: true,
		},
		"undefined variable in recipe": {
			content: `action "build" "x" {
  recipe {
    build = [[var.nope]]
  }
}`,
			want: "failed to evaluate recipe",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			_, err := NewLoader().Load(ctx, writeFile(t, tc.content))
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.want)
			if tc.specErr {
				var specErr *spec.SpecError
				assert.ErrorAs(t, err, &specErr)
			}
		})
	}
}

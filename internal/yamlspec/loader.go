package yamlspec

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/ctxlog"
	"github.com/specialistvlad/actiongrid/internal/spec"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"sigs.k8s.io/yaml"
)

// actionDoc is one entry of the actions list.
type actionDoc struct {
	Name       string            `json:"name"`
	Kind       string            `json:"kind"`
	Qualifiers map[string]string `json:"qualifiers,omitempty"`
	DependsOn  []string          `json:"depends_on,omitempty"`
	Env        map[string]string `json:"env,omitempty"`
	Timeout    string            `json:"timeout,omitempty"`
	KillGrace  string            `json:"kill_grace,omitempty"`
	Recipe     json.RawMessage   `json:"recipe,omitempty"`
}

// DefaultSelectors returns the selectors every run starts with: the host
// operating system and architecture.
func DefaultSelectors() map[string]string {
	return map[string]string{
		"os":   runtime.GOOS,
		"arch": runtime.GOARCH,
	}
}

// Loader is the YAML implementation of config.Loader.
type Loader struct {
	selectors map[string]string
}

// NewLoader creates a YAML loader that resolves case_ branches against
// selectors.
func NewLoader(selectors map[string]string) *Loader {
	return &Loader{selectors: selectors}
}

// Load reads every file and returns the actions they declare, in file and
// list order.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*spec.ActionSpec, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths), "selectors", l.selectors)

	var specs []*spec.ActionSpec
	for _, file := range paths {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
		}
		loaded, err := l.parse(file, data)
		if err != nil {
			return nil, err
		}
		specs = append(specs, loaded...)
	}

	logger.Debug("YAML loading complete.", "actions", len(specs))
	return specs, nil
}

func (l *Loader) parse(file string, data []byte) ([]*spec.ActionSpec, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", file, err)
	}
	if doc == nil {
		return nil, nil
	}

	resolved, err := NewCaseParser(l.selectors).Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate YAML file %s: %w", file, err)
	}
	rawActions, ok := resolved["actions"]
	if !ok {
		return nil, nil
	}

	// Round-trip through JSON so the strict decoder can reject unknown
	// fields and mistyped values.
	encoded, err := json.Marshal(rawActions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode actions of %s: %w", file, err)
	}
	var actions []actionDoc
	if err := yaml.UnmarshalStrict(encoded, &actions); err != nil {
		return nil, fmt.Errorf("failed to decode actions of %s: %w", file, err)
	}

	specs := make([]*spec.ActionSpec, 0, len(actions))
	for i, a := range actions {
		s, err := translateAction(fmt.Sprintf("%s:actions[%d]", file, i), a)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

func translateAction(source string, a actionDoc) (*spec.ActionSpec, error) {
	fail := func(format string, args ...any) error {
		return &spec.SpecError{
			Source: source,
			ID:     actionid.New(a.Name, a.Qualifiers),
			Reason: fmt.Sprintf(format, args...),
		}
	}

	var limits spec.Limits
	var err error
	if limits.Timeout, err = parseDuration(a.Timeout); err != nil {
		return nil, fail("invalid timeout: %v", err)
	}
	if limits.KillGrace, err = parseDuration(a.KillGrace); err != nil {
		return nil, fail("invalid kill_grace: %v", err)
	}

	recipe, err := recipeValue(a.Recipe)
	if err != nil {
		return nil, fail("invalid recipe: %v", err)
	}

	return spec.New(spec.Params{
		Name:       a.Name,
		Qualifiers: a.Qualifiers,
		Kind:       a.Kind,
		DependsOn:  a.DependsOn,
		Env:        a.Env,
		Limits:     limits,
		Recipe:     recipe,
		Source:     source,
	})
}

// recipeValue converts the raw JSON recipe to a cty value of its implied
// type. An absent recipe is an empty object.
func recipeValue(raw json.RawMessage) (cty.Value, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return cty.EmptyObjectVal, nil
	}
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(raw, ty)
}

func parseDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

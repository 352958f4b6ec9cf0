package spec

import (
	"maps"
	"regexp"
	"slices"
	"time"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/zclconf/go-cty/cty"
)

var envKeyRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Limits bounds the resources one action may use.
type Limits struct {
	// Timeout is the wall-clock budget for the whole action. Zero means none.
	Timeout time.Duration
	// KillGrace is how long a process gets between the graceful terminate
	// request and the forced kill of its tree. Zero means kill immediately.
	KillGrace time.Duration
}

// Params is the raw material a loader hands to New.
type Params struct {
	Name       string
	Qualifiers map[string]string
	Kind       string
	DependsOn  []string
	Env        map[string]string
	Limits     Limits
	Recipe     cty.Value
	Source     string
}

// ActionSpec is an immutable description of one unit of work.
type ActionSpec struct {
	id     actionid.ID
	kind   Kind
	deps   []actionid.ID
	env    map[string]string
	limits Limits
	recipe cty.Value
	source string
}

// New validates p and builds an ActionSpec.
func New(p Params) (*ActionSpec, error) {
	if err := actionid.ValidateName(p.Name); err != nil {
		return nil, specErrorf(&p, "%v", err)
	}
	for k, v := range p.Qualifiers {
		if err := actionid.ValidateQualifier(k, v); err != nil {
			return nil, specErrorf(&p, "%v", err)
		}
	}
	id := actionid.New(p.Name, p.Qualifiers)

	if p.Kind == "" {
		return nil, specErrorf(&p, "missing kind tag")
	}
	kind, err := ParseKind(p.Kind)
	if err != nil {
		return nil, specErrorf(&p, "%v", err)
	}

	deps := make([]actionid.ID, 0, len(p.DependsOn))
	for _, raw := range p.DependsOn {
		dep, err := actionid.Parse(raw)
		if err != nil {
			return nil, specErrorf(&p, "dependency: %v", err)
		}
		if dep.Equal(id) {
			return nil, specErrorf(&p, "action depends on itself")
		}
		deps = append(deps, dep)
	}

	for k := range p.Env {
		if !envKeyRegex.MatchString(k) {
			return nil, specErrorf(&p, "invalid environment variable name %q", k)
		}
	}
	if p.Limits.Timeout < 0 || p.Limits.KillGrace < 0 {
		return nil, specErrorf(&p, "limits must not be negative")
	}

	recipe := p.Recipe
	if recipe.IsNull() {
		recipe = cty.EmptyObjectVal
	}
	if !recipe.IsWhollyKnown() {
		return nil, specErrorf(&p, "recipe contains unknown values")
	}
	if !recipe.Type().IsObjectType() && !recipe.Type().IsMapType() {
		return nil, specErrorf(&p, "recipe must be an object, got %s", recipe.Type().FriendlyName())
	}

	return &ActionSpec{
		id:     id,
		kind:   kind,
		deps:   deps,
		env:    maps.Clone(p.Env),
		limits: p.Limits,
		recipe: recipe,
		source: p.Source,
	}, nil
}

// ID returns the action identity.
func (s *ActionSpec) ID() actionid.ID { return s.id }

// Kind returns the driver kind tag.
func (s *ActionSpec) Kind() Kind { return s.kind }

// Deps returns the declared dependencies in declaration order.
func (s *ActionSpec) Deps() []actionid.ID { return slices.Clone(s.deps) }

// Env returns a copy of the action-declared environment overlay.
func (s *ActionSpec) Env() map[string]string { return maps.Clone(s.env) }

// Limits returns the action's resource limits.
func (s *ActionSpec) Limits() Limits { return s.limits }

// Recipe returns the driver payload. cty values are immutable.
func (s *ActionSpec) Recipe() cty.Value { return s.recipe }

// Source returns where the spec was declared, for diagnostics.
func (s *ActionSpec) Source() string { return s.source }

// Matches reports whether every requested qualifier is present on the spec
// with the same value.
func (s *ActionSpec) Matches(qualifiers actionid.Qualifiers) bool {
	return qualifiers.Subset(s.id.Qualifiers)
}

package hcl

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/ctxlog"
	"github.com/specialistvlad/actiongrid/internal/spec"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL spec loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every file and returns the actions they declare, in file and
// block order.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*spec.ActionSpec, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	parser := hclparse.NewParser()
	var specs []*spec.ActionSpec
	for _, file := range paths {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Actions {
			s, err := translateAction(block)
			if err != nil {
				return nil, err
			}
			specs = append(specs, s)
		}
	}

	logger.Debug("HCL loading complete.", "actions", len(specs))
	return specs, nil
}

// translateAction converts a decoded block into a validated spec.
func translateAction(b *actionBlock) (*spec.ActionSpec, error) {
	source := b.DefRange.String()
	fail := func(format string, args ...any) error {
		return &spec.SpecError{
			Source: source,
			ID:     actionid.New(b.Name, b.Qualifiers),
			Reason: fmt.Sprintf(format, args...),
		}
	}

	var limits spec.Limits
	var err error
	if limits.Timeout, err = parseDuration(b.Timeout); err != nil {
		return nil, fail("invalid timeout: %v", err)
	}
	if limits.KillGrace, err = parseDuration(b.KillGrace); err != nil {
		return nil, fail("invalid kill_grace: %v", err)
	}

	recipe, diags := evalRecipe(b)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate recipe of action %q at %s: %w", b.Name, source, diags)
	}

	return spec.New(spec.Params{
		Name:       b.Name,
		Qualifiers: b.Qualifiers,
		Kind:       b.Kind,
		DependsOn:  b.DependsOn,
		Env:        b.Env,
		Limits:     limits,
		Recipe:     recipe,
		Source:     source,
	})
}

func parseDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

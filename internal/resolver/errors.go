package resolver

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/actiongrid/internal/actionid"
)

// CycleError reports a dependency cycle. Path starts and ends with the same
// action, e.g. a -> b -> a.
type CycleError struct {
	Path []actionid.ID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = id.String()
	}
	return "dependency cycle: " + strings.Join(parts, " -> ")
}

// UnresolvedDependencyError reports a reference no spec satisfies. From is
// zero when the reference was requested directly.
type UnresolvedDependencyError struct {
	Ref  actionid.ID
	From actionid.ID
}

func (e *UnresolvedDependencyError) Error() string {
	if e.From.IsZero() {
		return fmt.Sprintf("no action matches %s", e.Ref)
	}
	return fmt.Sprintf("%s depends on %s, but no action matches it", e.From, e.Ref)
}

// AmbiguousDependencyError reports a reference matching several specs, or two
// specs declaring the same ID.
type AmbiguousDependencyError struct {
	Ref        actionid.ID
	From       actionid.ID
	Candidates []actionid.ID
	// Sources is set for duplicate definitions.
	Sources []string
}

func (e *AmbiguousDependencyError) Error() string {
	if len(e.Sources) > 0 {
		return fmt.Sprintf("action %s is defined more than once (%s)", e.Ref, strings.Join(e.Sources, ", "))
	}
	cands := make([]string, len(e.Candidates))
	for i, id := range e.Candidates {
		cands[i] = id.String()
	}
	msg := fmt.Sprintf("%s is ambiguous, candidates: %s", e.Ref, strings.Join(cands, ", "))
	if !e.From.IsZero() {
		msg = fmt.Sprintf("%s depends on %s", e.From, msg)
	}
	return msg
}

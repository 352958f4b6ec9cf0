package spec

import (
	"fmt"

	"github.com/specialistvlad/actiongrid/internal/actionid"
)

// SpecError reports a malformed action specification.
type SpecError struct {
	// Source is the file the spec was loaded from, if known.
	Source string
	// ID is the action identity, if it could be determined.
	ID     actionid.ID
	Reason string
}

func (e *SpecError) Error() string {
	msg := "invalid action spec"
	if !e.ID.IsZero() {
		msg += fmt.Sprintf(" %q", e.ID.Key())
	}
	if e.Source != "" {
		msg += " in " + e.Source
	}
	return msg + ": " + e.Reason
}

func specErrorf(p *Params, format string, args ...any) *SpecError {
	return &SpecError{
		Source: p.Source,
		ID:     actionid.New(p.Name, p.Qualifiers),
		Reason: fmt.Sprintf(format, args...),
	}
}

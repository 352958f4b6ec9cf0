package cli

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/actiongrid/internal/app"
	"github.com/specialistvlad/actiongrid/internal/executor"
	"github.com/specialistvlad/actiongrid/internal/nodestore"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitResolution = 3
	ExitCanceled   = 130
)

// Outcome maps the result of app.Run onto an ExitError, or nil when every
// action succeeded.
func Outcome(result *executor.RunResult, err error) error {
	switch {
	case err != nil && errors.Is(err, app.ErrResolution):
		return &ExitError{Code: ExitResolution, Message: err.Error()}
	case err != nil && errors.Is(err, executor.ErrCanceled):
		return &ExitError{Code: ExitCanceled, Message: err.Error()}
	case err != nil:
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	case result == nil:
		return &ExitError{Code: ExitFailure, Message: "run produced no result"}
	case !result.Succeeded():
		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf(
			"%d of %d actions did not succeed", len(result.Actions)-result.Count(nodestore.StatusSucceeded), len(result.Actions))}
	default:
		return nil
	}
}

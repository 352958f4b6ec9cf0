package nodestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/actiongrid/internal/actionid"
)

// ErrUnknownAction is returned for IDs the store was not initialized with.
var ErrUnknownAction = errors.New("action not tracked by store")

// TransitionError is returned by CompareAndSwap for a transition outside the
// allowed table.
type TransitionError struct {
	ID       actionid.ID
	From, To Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid state transition for %s: %s -> %s", e.ID, e.From, e.To)
}

// Store is the synchronized state table for one run.
//
// Implementations MUST be safe for concurrent use: every worker reads and
// swaps states at the same time, and the status endpoint snapshots them.
type Store interface {
	// Init registers ids in StatusPending. Calling it again resets the table.
	Init(ctx context.Context, ids []actionid.ID) error

	// Status returns the current status of id.
	Status(ctx context.Context, id actionid.ID) (Status, error)

	// CompareAndSwap moves id from `from` to `to` if its current status is
	// `from`. It returns false without error when the current status differs.
	// A transition outside the allowed table fails with *TransitionError.
	CompareAndSwap(ctx context.Context, id actionid.ID, from, to Status) (bool, error)

	// SetError records the failure cause of id.
	SetError(ctx context.Context, id actionid.ID, actionErr error) error

	// GetError returns the recorded failure cause of id, or nil.
	GetError(ctx context.Context, id actionid.ID) (error, error)

	// Snapshot returns the status of every tracked action keyed by ID key.
	Snapshot(ctx context.Context) map[string]Status
}

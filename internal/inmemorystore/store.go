package inmemorystore

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store.
//
// States live in a sync.Map keyed by ID key. The key space is fixed by Init
// and every later write is a sync.Map CompareAndSwap on a single key, so
// workers touching different actions never contend on a shared lock.
type Store struct {
	states sync.Map // Key: actionid.ID.Key(), Value: nodestore.Status
	errors sync.Map // Key: actionid.ID.Key(), Value: error
}

// New creates a new, empty in-memory state store.
func New() *Store {
	return &Store{}
}

var _ nodestore.Store = (*Store)(nil)

// Init registers every id as Pending, discarding any earlier state.
func (s *Store) Init(ctx context.Context, ids []actionid.ID) error {
	s.states.Clear()
	s.errors.Clear()
	for _, id := range ids {
		s.states.Store(id.Key(), nodestore.StatusPending)
	}
	return nil
}

// Status returns the current status of id.
func (s *Store) Status(ctx context.Context, id actionid.ID) (nodestore.Status, error) {
	v, ok := s.states.Load(id.Key())
	if !ok {
		return 0, fmt.Errorf("%w: %s", nodestore.ErrUnknownAction, id)
	}
	return v.(nodestore.Status), nil
}

// CompareAndSwap performs a validated, atomic status transition.
func (s *Store) CompareAndSwap(ctx context.Context, id actionid.ID, from, to nodestore.Status) (bool, error) {
	if !nodestore.CanTransition(from, to) {
		return false, &nodestore.TransitionError{ID: id, From: from, To: to}
	}
	key := id.Key()
	if _, ok := s.states.Load(key); !ok {
		return false, fmt.Errorf("%w: %s", nodestore.ErrUnknownAction, id)
	}
	return s.states.CompareAndSwap(key, from, to), nil
}

// SetError records the failure cause of id.
func (s *Store) SetError(ctx context.Context, id actionid.ID, actionErr error) error {
	if _, ok := s.states.Load(id.Key()); !ok {
		return fmt.Errorf("%w: %s", nodestore.ErrUnknownAction, id)
	}
	s.errors.Store(id.Key(), actionErr)
	return nil
}

// GetError retrieves the recorded error of a failed action.
func (s *Store) GetError(ctx context.Context, id actionid.ID) (error, error) {
	v, ok := s.errors.Load(id.Key())
	if !ok {
		return nil, nil // If not found, there is no error.
	}
	return v.(error), nil
}

// Snapshot copies every tracked status.
func (s *Store) Snapshot(ctx context.Context) map[string]nodestore.Status {
	out := make(map[string]nodestore.Status)
	s.states.Range(func(k, v any) bool {
		out[k.(string)] = v.(nodestore.Status)
		return true
	})
	return out
}

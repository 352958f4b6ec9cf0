package resolver

import (
	"context"
	"slices"
	"strings"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/ctxlog"
	"github.com/specialistvlad/actiongrid/internal/graph"
	"github.com/specialistvlad/actiongrid/internal/spec"
)

type visitState int

const (
	unvisited visitState = iota
	inProgress
	done
)

// catalog indexes specs by name.
type catalog struct {
	byName map[string][]*spec.ActionSpec
}

func newCatalog(specs []*spec.ActionSpec) (*catalog, error) {
	c := &catalog{byName: make(map[string][]*spec.ActionSpec)}
	seen := make(map[string]*spec.ActionSpec, len(specs))
	for _, s := range specs {
		key := s.ID().Key()
		if prev, ok := seen[key]; ok {
			return nil, &AmbiguousDependencyError{
				Ref:        s.ID(),
				Candidates: []actionid.ID{prev.ID(), s.ID()},
				Sources:    []string{prev.Source(), s.Source()},
			}
		}
		seen[key] = s
		c.byName[s.ID().Name] = append(c.byName[s.ID().Name], s)
	}
	return c, nil
}

// lookup applies the matching rule to ref.
func (c *catalog) lookup(ref, from actionid.ID) (*spec.ActionSpec, error) {
	named := c.byName[ref.Name]
	for _, s := range named {
		if s.ID().Equal(ref) {
			return s, nil
		}
	}

	var candidates []*spec.ActionSpec
	for _, s := range named {
		if s.Matches(ref.Qualifiers) {
			candidates = append(candidates, s)
		}
	}
	switch len(candidates) {
	case 0:
		return nil, &UnresolvedDependencyError{Ref: ref, From: from}
	case 1:
		return candidates[0], nil
	}

	ids := make([]actionid.ID, len(candidates))
	for i, s := range candidates {
		ids[i] = s.ID()
	}
	slices.SortFunc(ids, func(a, b actionid.ID) int { return strings.Compare(a.Key(), b.Key()) })
	return nil, &AmbiguousDependencyError{Ref: ref, From: from, Candidates: ids}
}

type resolution struct {
	cat   *catalog
	b     *graph.Builder
	state map[string]visitState
	stack []actionid.ID
}

// Resolve computes the dependency closure of requested over specs.
//
// The resulting graph holds exactly the closure, with every declared edge
// once. Requested IDs are resolved in order, so the node order of the graph
// (and the tie-breaking of its topological order) is deterministic.
func Resolve(ctx context.Context, requested []actionid.ID, specs []*spec.ActionSpec) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cat, err := newCatalog(specs)
	if err != nil {
		return nil, err
	}

	r := &resolution{
		cat:   cat,
		b:     graph.NewBuilder(),
		state: make(map[string]visitState),
	}
	for _, ref := range requested {
		s, err := cat.lookup(ref, actionid.ID{})
		if err != nil {
			return nil, err
		}
		if err := r.visit(s); err != nil {
			return nil, err
		}
	}

	g := r.b.Build()
	logger.Debug("Resolved dependency graph.", "requested", len(requested), "actions", g.Len())
	return g, nil
}

func (r *resolution) visit(s *spec.ActionSpec) error {
	id := s.ID()
	key := id.Key()
	switch r.state[key] {
	case done:
		return nil
	case inProgress:
		return r.cycleTo(id)
	}

	r.state[key] = inProgress
	r.stack = append(r.stack, id)
	r.b.AddNode(s)

	for _, ref := range s.Deps() {
		dep, err := r.cat.lookup(ref, id)
		if err != nil {
			return err
		}
		if err := r.visit(dep); err != nil {
			return err
		}
		if err := r.b.AddEdge(dep.ID(), id); err != nil {
			return err
		}
	}

	r.stack = r.stack[:len(r.stack)-1]
	r.state[key] = done
	return nil
}

// cycleTo builds the cycle path from the first occurrence of id on the stack.
func (r *resolution) cycleTo(id actionid.ID) error {
	start := slices.IndexFunc(r.stack, func(x actionid.ID) bool { return x.Equal(id) })
	path := slices.Clone(r.stack[start:])
	path = append(path, id)
	return &CycleError{Path: path}
}

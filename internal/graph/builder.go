package graph

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/spec"
)

// Builder accumulates nodes and edges before freezing them into a Graph.
// It is not safe for concurrent use.
type Builder struct {
	specs []*spec.ActionSpec
	index map[string]int
	edges map[[2]int]struct{}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		index: make(map[string]int),
		edges: make(map[[2]int]struct{}),
	}
}

// AddNode registers s and returns its index. Adding the same ID twice returns
// the existing index.
func (b *Builder) AddNode(s *spec.ActionSpec) int {
	key := s.ID().Key()
	if i, ok := b.index[key]; ok {
		return i
	}
	i := len(b.specs)
	b.specs = append(b.specs, s)
	b.index[key] = i
	return i
}

// AddEdge records that `to` depends on `from`. Duplicate edges collapse into one.
func (b *Builder) AddEdge(from, to actionid.ID) error {
	fi, ok := b.index[from.Key()]
	if !ok {
		return fmt.Errorf("dependency node not found: %s", from)
	}
	ti, ok := b.index[to.Key()]
	if !ok {
		return fmt.Errorf("dependent node not found: %s", to)
	}
	if fi == ti {
		return fmt.Errorf("self-referential edge not allowed: %s", from)
	}
	b.edges[[2]int{fi, ti}] = struct{}{}
	return nil
}

// Build freezes the builder. Cycle detection is the caller's job; the
// resolver guarantees acyclicity before calling Build.
func (b *Builder) Build() *Graph {
	g := &Graph{
		specs:      slices.Clone(b.specs),
		index:      make(map[string]int, len(b.index)),
		deps:       make([][]int, len(b.specs)),
		dependents: make([][]int, len(b.specs)),
	}
	for k, v := range b.index {
		g.index[k] = v
	}
	for e := range b.edges {
		from, to := e[0], e[1]
		g.deps[to] = append(g.deps[to], from)
		g.dependents[from] = append(g.dependents[from], to)
	}
	for i := range g.specs {
		slices.Sort(g.deps[i])
		slices.Sort(g.dependents[i])
	}
	return g
}

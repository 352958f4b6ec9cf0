package graph

import (
	"container/heap"
	"slices"

	"github.com/specialistvlad/actiongrid/internal/actionid"
	"github.com/specialistvlad/actiongrid/internal/spec"
)

// Graph is an immutable DAG of action specs.
type Graph struct {
	specs      []*spec.ActionSpec
	index      map[string]int
	deps       [][]int
	dependents [][]int
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.specs)
}

// Spec returns the spec stored at index i.
func (g *Graph) Spec(i int) *spec.ActionSpec {
	return g.specs[i]
}

// Index returns the node index of id, if present.
func (g *Graph) Index(id actionid.ID) (int, bool) {
	i, ok := g.index[id.Key()]
	return i, ok
}

// Dependencies returns the indices node i depends on, in ascending order.
// The slice is shared and must not be modified.
func (g *Graph) Dependencies(i int) []int {
	return g.deps[i]
}

// Dependents returns the indices that depend on node i, in ascending order.
// The slice is shared and must not be modified.
func (g *Graph) Dependents(i int) []int {
	return g.dependents[i]
}

// Roots returns every node without dependencies.
func (g *Graph) Roots() []int {
	var roots []int
	for i := range g.specs {
		if len(g.deps[i]) == 0 {
			roots = append(roots, i)
		}
	}
	return roots
}

// IDs returns the action identities in index order.
func (g *Graph) IDs() []actionid.ID {
	ids := make([]actionid.ID, len(g.specs))
	for i, s := range g.specs {
		ids[i] = s.ID()
	}
	return ids
}

// Kinds returns the distinct driver kinds used by the graph.
func (g *Graph) Kinds() []spec.Kind {
	seen := make(map[spec.Kind]struct{})
	var kinds []spec.Kind
	for _, s := range g.specs {
		if _, ok := seen[s.Kind()]; !ok {
			seen[s.Kind()] = struct{}{}
			kinds = append(kinds, s.Kind())
		}
	}
	slices.Sort(kinds)
	return kinds
}

// TopologicalOrder returns node indices so that every dependency precedes its
// dependents. Ties are broken by lowest index, so the order is deterministic.
func (g *Graph) TopologicalOrder() []int {
	return g.kahn()
}

// Layers groups node indices by depth: layer 0 holds the roots, layer n
// holds nodes whose deepest dependency sits in layer n-1.
func (g *Graph) Layers() [][]int {
	depth := make([]int, len(g.specs))
	maxDepth := -1
	for _, i := range g.TopologicalOrder() {
		for _, d := range g.deps[i] {
			depth[i] = max(depth[i], depth[d]+1)
		}
		maxDepth = max(maxDepth, depth[i])
	}
	layers := make([][]int, maxDepth+1)
	for i, d := range depth {
		layers[d] = append(layers[d], i)
	}
	return layers
}

// kahn runs Kahn's algorithm with a min-heap ready queue.
func (g *Graph) kahn() []int {
	indeg := make([]int, len(g.specs))
	for i := range g.specs {
		indeg[i] = len(g.deps[i])
	}

	ready := &intMinHeap{}
	for i, d := range indeg {
		if d == 0 {
			heap.Push(ready, i)
		}
	}

	order := make([]int, 0, len(g.specs))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		order = append(order, n)
		for _, m := range g.dependents[n] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}
	return order
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

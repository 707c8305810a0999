package dag

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Graph is an adjacency view over task refs used to validate a compiled DAG.
// It is safe for concurrent use.
type Graph struct {
	mu    sync.RWMutex
	tasks map[string]*vertex
	// order is insertion order; every listing follows it.
	order []string
}

type vertex struct {
	ref    string
	before map[string]*vertex // predecessors
	after  map[string]*vertex // successors
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{tasks: make(map[string]*vertex)}
}

// AddTask adds a task ref. Refs must be non-empty and unique.
func (g *Graph) AddTask(ref string) error {
	if ref == "" {
		return fmt.Errorf("task ref cannot be empty")
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.tasks[ref]; ok {
		return fmt.Errorf("duplicate task ref %q", ref)
	}
	g.tasks[ref] = &vertex{
		ref:    ref,
		before: make(map[string]*vertex),
		after:  make(map[string]*vertex),
	}
	g.order = append(g.order, ref)
	return nil
}

// Has reports whether ref was added.
func (g *Graph) Has(ref string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.tasks[ref]
	return ok
}

// Len returns the number of tasks.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.tasks)
}

// Link records that from must complete before to starts. Linking the same
// pair twice is a no-op.
func (g *Graph) Link(from, to string) error {
	if from == to {
		return fmt.Errorf("self-referential edge %s -> %s", from, to)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	src, ok := g.tasks[from]
	if !ok {
		return fmt.Errorf("edge source %q is not a task of this graph", from)
	}
	dst, ok := g.tasks[to]
	if !ok {
		return fmt.Errorf("edge target %q is not a task of this graph", to)
	}
	src.after[to] = dst
	dst.before[from] = src
	return nil
}

// Predecessors returns the sorted refs that must complete before ref.
func (g *Graph) Predecessors(ref string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.tasks[ref]
	if !ok {
		return nil, fmt.Errorf("unknown task ref %q", ref)
	}
	return slices.Sorted(maps.Keys(v.before)), nil
}

// Successors returns the sorted refs that wait for ref.
func (g *Graph) Successors(ref string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.tasks[ref]
	if !ok {
		return nil, fmt.Errorf("unknown task ref %q", ref)
	}
	return slices.Sorted(maps.Keys(v.after)), nil
}

// Roots returns the tasks nothing waits on being finished first.
func (g *Graph) Roots() []string {
	return g.filter(func(v *vertex) bool { return len(v.before) == 0 })
}

// Leaves returns the tasks no other task waits for.
func (g *Graph) Leaves() []string {
	return g.filter(func(v *vertex) bool { return len(v.after) == 0 })
}

func (g *Graph) filter(keep func(*vertex) bool) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []string
	for _, ref := range g.order {
		if keep(g.tasks[ref]) {
			out = append(out, ref)
		}
	}
	return out
}

// TopologicalOrder returns every ref so that each task follows all of its
// predecessors. Ties keep insertion order. A cycle is reported with the refs
// that could not be ordered.
func (g *Graph) TopologicalOrder() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	pending := make(map[string]int, len(g.tasks))
	for ref, v := range g.tasks {
		pending[ref] = len(v.before)
	}

	out := make([]string, 0, len(g.tasks))
	done := make(map[string]bool, len(g.tasks))
	for progressed := true; progressed; {
		progressed = false
		for _, ref := range g.order {
			if done[ref] || pending[ref] > 0 {
				continue
			}
			done[ref] = true
			out = append(out, ref)
			for next := range g.tasks[ref].after {
				pending[next]--
			}
			progressed = true
		}
	}

	if len(out) < len(g.tasks) {
		var stuck []string
		for _, ref := range g.order {
			if !done[ref] {
				stuck = append(stuck, ref)
			}
		}
		return nil, fmt.Errorf("cycle detected among tasks %v", stuck)
	}
	return out, nil
}

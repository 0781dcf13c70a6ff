package registry

import "sort"

// DependencyGraph tracks which TypeDefs embed which others by value.
type DependencyGraph struct {
	nodes int
	edges [][]int // typedef -> typedefs it embeds, ascending, no duplicates
}

// NewDependencyGraph builds the by-value embedding graph of reg. Vector
// elements are not edges.
func NewDependencyGraph(reg *Registry) *DependencyGraph {
	g := &DependencyGraph{
		nodes: len(reg.TypeDefs),
		edges: make([][]int, len(reg.TypeDefs)),
	}
	for _, td := range reg.TypeDefs {
		seen := make(map[int]bool)
		for _, c := range td.Constructors {
			for _, f := range c.Fields {
				if f.Type.Kind == KindTypeDef && !seen[f.Type.TypeDef] {
					seen[f.Type.TypeDef] = true
					g.edges[td.Index] = append(g.edges[td.Index], f.Type.TypeDef)
				}
			}
		}
		sort.Ints(g.edges[td.Index])
	}
	return g
}

// GetDependencies returns the direct by-value dependencies of a TypeDef.
func (g *DependencyGraph) GetDependencies(idx int) []int {
	return g.edges[idx]
}

// Components returns the strongly connected components (Tarjan). Members of a
// component are sorted by declaration index.
func (g *DependencyGraph) Components() [][]int {
	index := make([]int, g.nodes)
	low := make([]int, g.nodes)
	onStack := make([]bool, g.nodes)
	for i := range index {
		index[i] = -1
	}

	var (
		stack      []int
		components [][]int
		next       int
	)
	var visit func(v int)
	visit = func(v int) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			switch {
			case index[w] < 0:
				visit(w)
				low[v] = min(low[v], low[w])
			case onStack[w]:
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] == index[v] {
			var comp []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			sort.Ints(comp)
			components = append(components, comp)
		}
	}

	for v := 0; v < g.nodes; v++ {
		if index[v] < 0 {
			visit(v)
		}
	}
	return components
}

// TopologicalSort orders TypeDefs so dependencies come before dependents.
// Recursive groups are emitted together in declaration order. Among groups
// that are ready at the same time the one declared first wins, so the result
// only depends on the schema, never on map iteration.
func (g *DependencyGraph) TopologicalSort() []int {
	comps := g.Components()
	compOf := make([]int, g.nodes)
	for ci, comp := range comps {
		for _, v := range comp {
			compOf[v] = ci
		}
	}

	// pending[c] counts distinct components c still waits for.
	pending := make([]int, len(comps))
	dependents := make([][]int, len(comps))
	for ci, comp := range comps {
		seen := make(map[int]bool)
		for _, v := range comp {
			for _, w := range g.edges[v] {
				dep := compOf[w]
				if dep == ci || seen[dep] {
					continue
				}
				seen[dep] = true
				pending[ci]++
				dependents[dep] = append(dependents[dep], ci)
			}
		}
	}

	// Components are keyed by their first member's declaration index.
	key := func(ci int) int { return comps[ci][0] }
	var ready []int
	push := func(ci int) {
		at := sort.Search(len(ready), func(i int) bool { return key(ready[i]) > key(ci) })
		ready = append(ready, 0)
		copy(ready[at+1:], ready[at:])
		ready[at] = ci
	}
	for ci := range comps {
		if pending[ci] == 0 {
			push(ci)
		}
	}

	order := make([]int, 0, g.nodes)
	for len(ready) > 0 {
		ci := ready[0]
		ready = ready[1:]
		order = append(order, comps[ci]...)
		for _, d := range dependents[ci] {
			pending[d]--
			if pending[d] == 0 {
				push(d)
			}
		}
	}
	return order
}

// checkRecursion finds TypeDefs without a finite value. A TypeDef is finite
// when one of its constructors embeds only finite TypeDefs by value; vector
// and nullable fields can always be empty and never count.
func checkRecursion(reg *Registry) error {
	finite := make([]bool, len(reg.TypeDefs))
	for changed := true; changed; {
		changed = false
		for _, td := range reg.TypeDefs {
			if finite[td.Index] {
				continue
			}
			for _, c := range td.Constructors {
				if constructorFinite(c, finite) {
					finite[td.Index] = true
					changed = true
					break
				}
			}
		}
	}

	var bad []string
	for _, td := range reg.TypeDefs {
		if !finite[td.Index] {
			bad = append(bad, td.Name)
		}
	}
	if len(bad) > 0 {
		return &InvalidRecursionError{Types: bad}
	}
	return nil
}

func constructorFinite(c *Constructor, finite []bool) bool {
	for _, f := range c.Fields {
		if f.Nullable || f.Type.Kind != KindTypeDef {
			continue
		}
		if !finite[f.Type.TypeDef] {
			return false
		}
	}
	return true
}

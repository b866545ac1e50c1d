// Package reach answers undirected reachability questions over a subset of
// a graph.
//
// Graphs are addressed by index (0..Len()-1) so callers can expose arena
// structures without building maps. [Subset] adapts a slice of model nodes.
package reach

// Graph is an index-addressed directed graph.
type Graph interface {
	Len() int
	Forward(i int) []int  // targets of edges leaving i
	Backward(i int) []int // sources of edges entering i
}

// Reachable reports whether b can be reached from a by following edges in
// either direction. A node always reaches itself.
func Reachable(g Graph, a, b int) bool {
	if a == b {
		return true
	}
	visited := make([]bool, g.Len())
	var dfs func(i int) bool
	dfs = func(i int) bool {
		if i == b {
			return true
		}
		visited[i] = true
		for _, next := range g.Forward(i) {
			if !visited[next] && dfs(next) {
				return true
			}
		}
		for _, next := range g.Backward(i) {
			if !visited[next] && dfs(next) {
				return true
			}
		}
		return false
	}
	return dfs(a)
}

// Component returns the undirected component containing a as a membership
// slice indexed like g.
func Component(g Graph, a int) []bool {
	seen := make([]bool, g.Len())
	stack := []int{a}
	seen[a] = true
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, adj := range [2][]int{g.Forward(i), g.Backward(i)} {
			for _, next := range adj {
				if !seen[next] {
					seen[next] = true
					stack = append(stack, next)
				}
			}
		}
	}
	return seen
}

// Connected reports whether every node reaches every other node, i.e. the
// graph is a single weakly connected component. Reachability is symmetric
// in the undirected view, so one traversal decides every ordered pair.
// The empty graph is connected.
func Connected(g Graph) bool {
	if g.Len() == 0 {
		return true
	}
	for _, in := range Component(g, 0) {
		if !in {
			return false
		}
	}
	return true
}

// OnlyOutgoing reports whether i has outgoing but no incoming edges.
func OnlyOutgoing(g Graph, i int) bool {
	return len(g.Forward(i)) > 0 && len(g.Backward(i)) == 0
}

// OnlyIncoming reports whether i has incoming but no outgoing edges.
func OnlyIncoming(g Graph, i int) bool {
	return len(g.Backward(i)) > 0 && len(g.Forward(i)) == 0
}

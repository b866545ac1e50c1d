package reach

import "github.com/matzehuels/stationflow/pkg/model"

// Subset is a [Graph] over a slice of model nodes. Edges leading outside
// the subset are ignored.
type Subset struct {
	nodes    []*model.Node
	index    map[int]int
	forward  [][]int
	backward [][]int
}

// NewSubset builds the graph induced by nodes. Duplicate nodes are kept
// once, at their first position.
func NewSubset(nodes []*model.Node) *Subset {
	s := &Subset{index: make(map[int]int, len(nodes))}
	for _, n := range nodes {
		if _, dup := s.index[n.ID]; dup {
			continue
		}
		s.index[n.ID] = len(s.nodes)
		s.nodes = append(s.nodes, n)
	}
	s.forward = make([][]int, len(s.nodes))
	s.backward = make([][]int, len(s.nodes))
	for i, n := range s.nodes {
		for _, to := range n.Next {
			j, ok := s.index[to]
			if !ok {
				continue
			}
			s.forward[i] = append(s.forward[i], j)
			s.backward[j] = append(s.backward[j], i)
		}
	}
	return s
}

func (s *Subset) Len() int             { return len(s.nodes) }
func (s *Subset) Forward(i int) []int  { return s.forward[i] }
func (s *Subset) Backward(i int) []int { return s.backward[i] }

// Index returns the position of the node with the given ID.
func (s *Subset) Index(id int) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Reachable reports whether the nodes with IDs a and b are connected in the
// undirected view of the subset. Unknown IDs are never reachable.
func (s *Subset) Reachable(a, b int) bool {
	i, ok := s.index[a]
	if !ok {
		return false
	}
	j, ok := s.index[b]
	if !ok {
		return false
	}
	return Reachable(s, i, j)
}

package arrange

import (
	"slices"

	"github.com/matzehuels/stationflow/pkg/model"
)

// box is one node under arrangement. to and from index into arena.boxes
// and are kept mutual: j in boxes[i].to iff i in boxes[j].from.
type box struct {
	node     *model.Node
	col, row int // 0 means unplaced
	to, from []int
}

type arena struct {
	boxes []box
	index map[int]int // node ID -> box index
}

func newArena(g Lookup, nodes []*model.Node) *arena {
	ar := &arena{index: make(map[int]int, len(nodes))}
	for _, n := range nodes {
		ar.add(n)
	}
	seen := make(map[int]bool)
	for _, n := range nodes {
		if n == nil || n.IsVertex() {
			continue
		}
		for _, next := range n.Next {
			ar.addVertexChain(g, next, seen)
		}
	}
	for i := range ar.boxes {
		for _, to := range ar.boxes[i].node.Next {
			if j, ok := ar.index[to]; ok {
				ar.connect(i, j)
			}
		}
	}
	return ar
}

func (ar *arena) add(n *model.Node) {
	if n == nil {
		return
	}
	if _, dup := ar.index[n.ID]; dup {
		return
	}
	ar.index[n.ID] = len(ar.boxes)
	ar.boxes = append(ar.boxes, box{node: n})
}

// addVertexChain pulls in id and the nodes after it for as long as they
// are vertices.
func (ar *arena) addVertexChain(g Lookup, id int, seen map[int]bool) {
	if seen[id] {
		return
	}
	seen[id] = true
	n, ok := g.Node(id)
	if !ok || !n.IsVertex() {
		return
	}
	ar.add(n)
	for _, next := range n.Next {
		ar.addVertexChain(g, next, seen)
	}
}

func (ar *arena) connect(i, j int) {
	if i == j || slices.Contains(ar.boxes[i].to, j) {
		return
	}
	ar.boxes[i].to = append(ar.boxes[i].to, j)
	ar.boxes[j].from = append(ar.boxes[j].from, i)
}

func (ar *arena) Len() int             { return len(ar.boxes) }
func (ar *arena) Forward(i int) []int  { return ar.boxes[i].to }
func (ar *arena) Backward(i int) []int { return ar.boxes[i].from }

// startElements returns the boxes without incoming connections.
func (ar *arena) startElements() []int {
	var starts []int
	for i, b := range ar.boxes {
		if len(b.from) == 0 {
			starts = append(starts, i)
		}
	}
	return starts
}

func (ar *arena) unplaced() []int {
	var out []int
	for i, b := range ar.boxes {
		if b.col == 0 {
			out = append(out, i)
		}
	}
	return out
}

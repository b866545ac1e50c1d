package arrange

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"github.com/matzehuels/stationflow/pkg/model"
	"github.com/matzehuels/stationflow/pkg/reach"
)

var (
	// ErrDisconnected is returned by [Arranger.FullArrange] when some selected
	// node can neither reach nor be reached from another selected node.
	ErrDisconnected = errors.New("selection is not connected")

	// ErrNoSource is returned by [Arranger.FullArrange] when every selected
	// node has an incoming edge from within the selection.
	ErrNoSource = errors.New("selection has no start element")
)

// Lookup resolves node IDs. *model.Model satisfies it.
type Lookup interface {
	Node(id int) (*model.Node, bool)
}

// Options controls grid and spacing. Zero fields take the defaults of
// [DefaultOptions].
type Options struct {
	Grid          int         // grid unit for GridAlign
	ColumnSpacing int         // horizontal distance between layers
	RowSpacing    int         // vertical distance between rows
	// VertexOffset is the extra offset applied to vertex nodes. Nil uses
	// the default; (0,0) is a valid offset.
	VertexOffset *model.Point
}

// DefaultOptions returns the standard diagram metrics.
func DefaultOptions() Options {
	return Options{
		Grid:          50,
		ColumnSpacing: 250,
		RowSpacing:    100,
		VertexOffset:  &model.Point{X: 45, Y: 20},
	}
}

func (o *Options) setDefaults() {
	d := DefaultOptions()
	if o.Grid <= 0 {
		o.Grid = d.Grid
	}
	if o.ColumnSpacing <= 0 {
		o.ColumnSpacing = d.ColumnSpacing
	}
	if o.RowSpacing <= 0 {
		o.RowSpacing = d.RowSpacing
	}
	if o.VertexOffset == nil {
		o.VertexOffset = d.VertexOffset
	} else {
		off := *o.VertexOffset
		o.VertexOffset = &off
	}
}

// Resolved returns o with unset fields replaced by their defaults.
func (o Options) Resolved() Options {
	o.setDefaults()
	return o
}

// Layer is the discrete (column, row) slot of a node, both 1-based.
type Layer struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// Arranger positions nodes of one model.
type Arranger struct {
	g      Lookup
	opts   Options
	layers map[int]Layer
}

// New creates an Arranger for the nodes of g.
func New(g Lookup, opts Options) *Arranger {
	opts.setDefaults()
	return &Arranger{g: g, opts: opts}
}

// Options returns the effective options.
func (a *Arranger) Options() Options { return a.opts }

// GridAlign snaps every node to the nearest grid point. Vertices snap to
// grid points shifted by the vertex offset so they sit between cells.
func (a *Arranger) GridAlign(nodes []*model.Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		var off model.Point
		if n.IsVertex() {
			off = *a.opts.VertexOffset
		}
		n.X = snap(n.X, a.opts.Grid, off.X)
		n.Y = snap(n.Y, a.opts.Grid, off.Y)
	}
}

func snap(v, grid, offset int) int {
	return int(math.Round(float64(v-offset)/float64(grid)))*grid + offset
}

// FullArrange lays out nodes by topology with the top-left layer at start.
// It returns [ErrDisconnected] or [ErrNoSource] without moving any node
// when the selection cannot be arranged. An empty selection is a no-op.
func (a *Arranger) FullArrange(nodes []*model.Node, start model.Point) error {
	ar := newArena(a.g, nodes)
	if ar.Len() == 0 {
		a.layers = map[int]Layer{}
		return nil
	}
	if !reach.Connected(ar) {
		return ErrDisconnected
	}
	starts := ar.startElements()
	if len(starts) == 0 {
		return ErrNoSource
	}

	row := 1
	for _, i := range ar.byY(starts) {
		row = ar.place(i, 1, row) + 1
	}
	// Boxes only reachable through a sourceless cycle hanging off the
	// placed part get their own rows below it.
	for _, i := range ar.byY(ar.unplaced()) {
		if ar.boxes[i].col == 0 {
			row = ar.place(i, 1, row) + 1
		}
	}

	a.layers = make(map[int]Layer, ar.Len())
	for _, b := range ar.boxes {
		a.layers[b.node.ID] = Layer{Column: b.col, Row: b.row}
		x := start.X + (b.col-1)*a.opts.ColumnSpacing
		y := start.Y + (b.row-1)*a.opts.RowSpacing
		if b.node.IsVertex() {
			x += a.opts.VertexOffset.X
			y += a.opts.VertexOffset.Y
		}
		b.node.X, b.node.Y = x, y
	}
	return nil
}

// Layers returns the (column, row) slots computed by the last successful
// FullArrange, keyed by node ID. Vertices pulled into the arrangement are
// included.
func (a *Arranger) Layers() map[int]Layer {
	out := make(map[int]Layer, len(a.layers))
	for id, l := range a.layers {
		out[id] = l
	}
	return out
}

// byY returns idx ordered by current vertical position. Ties keep their
// input order.
func (ar *arena) byY(idx []int) []int {
	out := slices.Clone(idx)
	slices.SortStableFunc(out, func(i, j int) int {
		return cmp.Compare(ar.boxes[i].node.Y, ar.boxes[j].node.Y)
	})
	return out
}

// place assigns (col, row) to box i and lays out its unplaced successors.
// It returns the highest row consumed by i's subtree.
func (ar *arena) place(i, col, row int) int {
	b := &ar.boxes[i]
	if b.col != 0 {
		return row
	}
	b.col, b.row = col, row

	cur := row
	first := true
	for _, j := range ar.byY(b.to) {
		if ar.boxes[j].col != 0 {
			continue
		}
		if !first {
			cur++
		}
		first = false
		cur = ar.place(j, col+1, cur)
	}
	return cur
}

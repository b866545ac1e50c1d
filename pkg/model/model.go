package model

import (
	"errors"
	"fmt"
	"slices"
)

// RootSurface is the name of the top-level surface of every model.
const RootSurface = "main"

var (
	// ErrInvalidNodeID is returned by [Model.AddNode] when the node ID is not
	// positive.
	ErrInvalidNodeID = errors.New("node ID must be positive")

	// ErrDuplicateNodeID is returned by [Model.AddNode] when a node with the
	// same ID already exists anywhere in the model.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Model.AddEdge] when the source
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Model.AddEdge] when the target
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrCrossSurfaceEdge is returned by [Model.AddEdge] when source and
	// target live on different surfaces.
	ErrCrossSurfaceEdge = errors.New("edge crosses surfaces")

	// ErrUnknownSurface is returned when a surface does not belong to the model.
	ErrUnknownSurface = errors.New("unknown surface")

	// ErrDuplicateSurface is returned by [Model.AddSurface] when a surface
	// with the same name already exists.
	ErrDuplicateSurface = errors.New("duplicate surface name")
)

// Point is a pixel position on a surface.
type Point struct {
	X, Y int
}

// Assignment records that the path from Origin to Destination passes
// through a waypoint as its Index-th waypoint (1-based).
type Assignment struct {
	Origin      string
	Destination string
	Index       int
}

// Node is one element of the diagram.
//
// Next holds the IDs of the nodes this node has outgoing edges to; a node
// with one entry is single-out, with several multi-out. Next is owned by
// the model and must only be changed through [Model.AddEdge].
type Node struct {
	ID      int
	Name    string
	Kind    Kind
	Surface string

	X, Y int // top-left corner in pixels
	W, H int

	Next        []int
	Assignments []Assignment
}

// IsVertex reports whether the node is a drawing bend point.
func (n *Node) IsVertex() bool { return n.Kind == KindVertex }

// IsWaypoint reports whether the node is a routing waypoint.
func (n *Node) IsWaypoint() bool { return n.Kind == KindWaypoint }

// Routable reports whether the node takes part in path planning: it must
// be a transporter source, parking, destination or waypoint and carry a name.
func (n *Node) Routable() bool { return n.Name != "" && n.Kind.routable() }

// Position returns the node's current top-left corner.
func (n *Node) Position() Point { return Point{X: n.X, Y: n.Y} }

// Label formats the node as "name (id)" for log output.
func (n *Node) Label() string { return fmt.Sprintf("%s (%d)", n.Name, n.ID) }

// Surface is one diagram level. Nodes keep insertion order.
type Surface struct {
	Name     string
	Nodes    []*Node
	Surfaces []*Surface
}

// Declaration lists the nodes that may directly follow From on a route.
// Names are used so the list survives ID renumbering in the host editor.
type Declaration struct {
	From string
	To   []string
}

// Model is a diagram with its surfaces, nodes, edges and declared
// connectivity.
//
// The zero value is not usable; create models with [New].
type Model struct {
	root     *Surface
	nodes    map[int]*Node
	surfaces map[string]*Surface
	incoming map[int][]int
	decls    []Declaration
}

// New creates an empty model with a root surface named [RootSurface].
func New() *Model {
	root := &Surface{Name: RootSurface}
	return &Model{
		root:     root,
		nodes:    make(map[int]*Node),
		surfaces: map[string]*Surface{RootSurface: root},
		incoming: make(map[int][]int),
	}
}

// Root returns the main surface.
func (m *Model) Root() *Surface { return m.root }

// Surface returns the surface with the given name.
func (m *Model) Surface(name string) (*Surface, bool) {
	s, ok := m.surfaces[name]
	return s, ok
}

// AddSurface creates a sub-surface of parent. Surface names are unique
// within a model.
func (m *Model) AddSurface(parent *Surface, name string) (*Surface, error) {
	if parent == nil || m.surfaces[parent.Name] != parent {
		return nil, ErrUnknownSurface
	}
	if _, exists := m.surfaces[name]; exists || name == "" {
		return nil, ErrDuplicateSurface
	}
	s := &Surface{Name: name}
	parent.Surfaces = append(parent.Surfaces, s)
	m.surfaces[name] = s
	return s, nil
}

// AddNode adds a copy of n to surface s and returns the stored node. Any
// Next entries on n are dropped; use [Model.AddEdge] once all endpoints
// exist.
func (m *Model) AddNode(s *Surface, n Node) (*Node, error) {
	if s == nil || m.surfaces[s.Name] != s {
		return nil, ErrUnknownSurface
	}
	if n.ID <= 0 {
		return nil, ErrInvalidNodeID
	}
	if _, exists := m.nodes[n.ID]; exists {
		return nil, ErrDuplicateNodeID
	}
	n.Surface = s.Name
	n.Next = nil
	n.Assignments = slices.Clone(n.Assignments)
	node := &n
	m.nodes[n.ID] = node
	s.Nodes = append(s.Nodes, node)
	return node, nil
}

// AddEdge adds a directed edge between two existing nodes on the same
// surface. Parallel edges are allowed.
func (m *Model) AddEdge(from, to int) error {
	src, ok := m.nodes[from]
	if !ok {
		return ErrUnknownSourceNode
	}
	dst, ok := m.nodes[to]
	if !ok {
		return ErrUnknownTargetNode
	}
	if src.Surface != dst.Surface {
		return ErrCrossSurfaceEdge
	}
	src.Next = append(src.Next, to)
	m.incoming[to] = append(m.incoming[to], from)
	return nil
}

// Node returns the node with the given ID.
func (m *Model) Node(id int) (*Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// NodeByName returns the first node, in discovery order, with the given name.
func (m *Model) NodeByName(name string) (*Node, bool) {
	if name == "" {
		return nil, false
	}
	for _, n := range m.Nodes() {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// Nodes returns all nodes in discovery order: a surface's own nodes first,
// then its sub-surfaces depth first.
func (m *Model) Nodes() []*Node {
	nodes := make([]*Node, 0, len(m.nodes))
	for _, s := range m.Surfaces() {
		nodes = append(nodes, s.Nodes...)
	}
	return nodes
}

// Surfaces returns the root surface followed by all sub-surfaces, depth first.
func (m *Model) Surfaces() []*Surface {
	var out []*Surface
	var walk func(s *Surface)
	walk = func(s *Surface) {
		out = append(out, s)
		for _, c := range s.Surfaces {
			walk(c)
		}
	}
	walk(m.root)
	return out
}

// NodeCount returns the number of nodes in the model.
func (m *Model) NodeCount() int { return len(m.nodes) }

// EdgeCount returns the number of drawn edges in the model.
func (m *Model) EdgeCount() int {
	count := 0
	for _, n := range m.nodes {
		count += len(n.Next)
	}
	return count
}

// Successors returns the targets of the node's outgoing edges. The slice
// must not be modified.
func (m *Model) Successors(id int) []int {
	if n, ok := m.nodes[id]; ok {
		return n.Next
	}
	return nil
}

// Predecessors returns the sources of the node's incoming edges. The slice
// must not be modified.
func (m *Model) Predecessors(id int) []int { return m.incoming[id] }

// Declare appends a declared connectivity entry. Entries with an empty
// origin or no targets are ignored.
func (m *Model) Declare(from string, to ...string) {
	to = slices.DeleteFunc(slices.Clone(to), func(s string) bool { return s == "" })
	if from == "" || len(to) == 0 {
		return
	}
	m.decls = append(m.decls, Declaration{From: from, To: to})
}

// Declarations returns a copy of the declared connectivity list.
func (m *Model) Declarations() []Declaration {
	out := make([]Declaration, len(m.decls))
	for i, d := range m.decls {
		out[i] = Declaration{From: d.From, To: slices.Clone(d.To)}
	}
	return out
}

// ClearDeclarations drops the declared connectivity list.
func (m *Model) ClearDeclarations() { m.decls = nil }

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	c := New()
	var copySurface func(src, dst *Surface)
	copySurface = func(src, dst *Surface) {
		for _, n := range src.Nodes {
			cp := *n
			cp.Next = nil
			_, _ = c.AddNode(dst, cp)
		}
		for _, child := range src.Surfaces {
			sub, _ := c.AddSurface(dst, child.Name)
			copySurface(child, sub)
		}
	}
	copySurface(m.root, c.root)
	for _, n := range m.Nodes() {
		for _, to := range n.Next {
			_ = c.AddEdge(n.ID, to)
		}
	}
	c.decls = m.Declarations()
	return c
}

// NodeIDs extracts the ID of each node, preserving order.
func NodeIDs(nodes []*Node) []int {
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

package pathplan

import (
	"slices"

	"github.com/matzehuels/stationflow/pkg/model"
)

// Connection declares the nodes that may directly follow Origin.
type Connection struct {
	Origin *model.Node
	Next   []*model.Node
}

// Segment is one declared origin -> next hop pair.
type Segment struct {
	From *model.Node
	To   *model.Node
}

// String formats the segment as "from -> to".
func (s Segment) String() string { return s.From.Name + " -> " + s.To.Name }

// Builder holds declared connectivity and plans routes over it.
// The zero value is ready to use.
type Builder struct {
	conns []Connection
}

// New returns an empty Builder.
func New() *Builder { return &Builder{} }

// FromModel returns a Builder loaded with the model's declarations. Names
// that do not resolve to a node are returned as unresolved.
func FromModel(m *model.Model) (*Builder, []string) {
	b := New()
	unresolved := b.AddDeclarations(m, m.Declarations())
	return b, unresolved
}

// Clear discards all declared connections.
func (b *Builder) Clear() { b.conns = nil }

// Add declares that any of next may directly follow origin. Nil and
// repeated entries are dropped; a nil origin or an empty list is ignored.
func (b *Builder) Add(origin *model.Node, next ...*model.Node) {
	if origin == nil {
		return
	}
	var clean []*model.Node
	for _, n := range next {
		if n != nil && !slices.Contains(clean, n) {
			clean = append(clean, n)
		}
	}
	if len(clean) == 0 {
		return
	}
	b.conns = append(b.conns, Connection{Origin: origin, Next: clean})
}

// AddDeclarations resolves name-keyed declarations against the stations
// of m and adds them. Names bind to the same node [Stations] lists, so a
// non-routable node sharing a station's name is never picked. It returns
// the names that matched no station, in order of appearance.
func (b *Builder) AddDeclarations(m *model.Model, decls []model.Declaration) []string {
	byName := make(map[string]*model.Node)
	for _, n := range Stations(m) {
		byName[n.Name] = n
	}

	var unresolved []string
	for _, d := range decls {
		origin, ok := byName[d.From]
		if !ok {
			unresolved = append(unresolved, d.From)
			continue
		}
		next := make([]*model.Node, 0, len(d.To))
		for _, name := range d.To {
			n, ok := byName[name]
			if !ok {
				unresolved = append(unresolved, name)
				continue
			}
			next = append(next, n)
		}
		b.Add(origin, next...)
	}
	return unresolved
}

// Connections returns the declared connections in declaration order.
func (b *Builder) Connections() []Connection {
	out := make([]Connection, len(b.conns))
	for i, c := range b.conns {
		out[i] = Connection{Origin: c.Origin, Next: slices.Clone(c.Next)}
	}
	return out
}

// Segments flattens the declarations into origin -> next hop pairs.
func (b *Builder) Segments() []Segment {
	var out []Segment
	for _, c := range b.conns {
		for _, n := range c.Next {
			out = append(out, Segment{From: c.Origin, To: n})
		}
	}
	return out
}

// adjacency unions all declarations per origin ID, keeping declaration
// order.
func (b *Builder) adjacency() map[int][]int {
	adj := make(map[int][]int)
	for _, c := range b.conns {
		for _, n := range c.Next {
			if !slices.Contains(adj[c.Origin.ID], n.ID) {
				adj[c.Origin.ID] = append(adj[c.Origin.ID], n.ID)
			}
		}
	}
	return adj
}

// Path returns the first route from origin to destination found by a
// depth-first search over the declared connections, as node IDs including
// both ends. When no route exists it returns [origin, destination] and
// false.
func (b *Builder) Path(origin, destination *model.Node) ([]int, bool) {
	return findPath(b.adjacency(), origin.ID, destination.ID)
}

func findPath(adj map[int][]int, from, to int) ([]int, bool) {
	visited := make(map[int]bool)
	var stack []int

	var dfs func(id int) bool
	dfs = func(id int) bool {
		visited[id] = true
		stack = append(stack, id)
		if id == to {
			return true
		}
		for _, next := range adj[id] {
			if !visited[next] && dfs(next) {
				return true
			}
		}
		stack = stack[:len(stack)-1]
		return false
	}

	if dfs(from) {
		return stack, true
	}
	return []int{from, to}, false
}

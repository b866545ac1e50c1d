package io

import (
	"github.com/matzehuels/stationflow/pkg/errors"
	"github.com/matzehuels/stationflow/pkg/model"
)

// Document is the serialized form of a model.
type Document struct {
	Surface     Surface      `json:"surface" yaml:"surface"`
	Connections []Connection `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// Surface is a serialized diagram level.
type Surface struct {
	Name     string    `json:"name" yaml:"name"`
	Nodes    []Node    `json:"nodes" yaml:"nodes"`
	Surfaces []Surface `json:"surfaces,omitempty" yaml:"surfaces,omitempty"`
}

// Node is a serialized diagram element.
type Node struct {
	ID          int          `json:"id" yaml:"id"`
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Kind        string       `json:"kind,omitempty" yaml:"kind,omitempty"`
	X           int          `json:"x" yaml:"x"`
	Y           int          `json:"y" yaml:"y"`
	W           int          `json:"w,omitempty" yaml:"w,omitempty"`
	H           int          `json:"h,omitempty" yaml:"h,omitempty"`
	Next        []int        `json:"next,omitempty" yaml:"next,omitempty"`
	Assignments []Assignment `json:"assignments,omitempty" yaml:"assignments,omitempty"`
}

// Assignment is a serialized waypoint assignment.
type Assignment struct {
	Origin      string `json:"origin" yaml:"origin"`
	Destination string `json:"destination" yaml:"destination"`
	Index       int    `json:"index" yaml:"index"`
}

// Connection is a serialized declared-connectivity entry.
type Connection struct {
	From string   `json:"from" yaml:"from"`
	To   []string `json:"to" yaml:"to"`
}

// ToDocument converts m to its serialized form.
func ToDocument(m *model.Model) Document {
	var conv func(s *model.Surface) Surface
	conv = func(s *model.Surface) Surface {
		out := Surface{Name: s.Name, Nodes: make([]Node, 0, len(s.Nodes))}
		for _, n := range s.Nodes {
			nd := Node{
				ID: n.ID, Name: n.Name, X: n.X, Y: n.Y, W: n.W, H: n.H,
				Next: append([]int(nil), n.Next...),
			}
			if n.Kind != model.KindStation {
				nd.Kind = n.Kind.String()
			}
			for _, a := range n.Assignments {
				nd.Assignments = append(nd.Assignments, Assignment(a))
			}
			out.Nodes = append(out.Nodes, nd)
		}
		for _, c := range s.Surfaces {
			out.Surfaces = append(out.Surfaces, conv(c))
		}
		return out
	}

	doc := Document{Surface: conv(m.Root())}
	for _, d := range m.Declarations() {
		doc.Connections = append(doc.Connections, Connection{From: d.From, To: d.To})
	}
	return doc
}

// FromDocument builds a model from its serialized form. The root surface
// is always named [model.RootSurface] regardless of the document's name.
func FromDocument(doc Document) (*model.Model, error) {
	m := model.New()

	var add func(src Surface, dst *model.Surface) error
	add = func(src Surface, dst *model.Surface) error {
		for _, n := range src.Nodes {
			kind, err := model.ParseKind(n.Kind)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidModel, err, "node %d", n.ID)
			}
			nd := model.Node{ID: n.ID, Name: n.Name, Kind: kind, X: n.X, Y: n.Y, W: n.W, H: n.H}
			for _, a := range n.Assignments {
				nd.Assignments = append(nd.Assignments, model.Assignment(a))
			}
			if _, err := m.AddNode(dst, nd); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidModel, err, "node %d", n.ID)
			}
		}
		for _, c := range src.Surfaces {
			sub, err := m.AddSurface(dst, c.Name)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidModel, err, "surface %q", c.Name)
			}
			if err := add(c, sub); err != nil {
				return err
			}
		}
		return nil
	}

	var edges func(s Surface) error
	edges = func(s Surface) error {
		for _, n := range s.Nodes {
			for _, to := range n.Next {
				if err := m.AddEdge(n.ID, to); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidModel, err, "edge %d->%d", n.ID, to)
				}
			}
		}
		for _, c := range s.Surfaces {
			if err := edges(c); err != nil {
				return err
			}
		}
		return nil
	}

	if err := add(doc.Surface, m.Root()); err != nil {
		return nil, err
	}
	if err := edges(doc.Surface); err != nil {
		return nil, err
	}
	for _, c := range doc.Connections {
		m.Declare(c.From, c.To...)
	}
	return m, nil
}

package io

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/stationflow/pkg/errors"
	"github.com/matzehuels/stationflow/pkg/model"
)

const sampleJSON = `{
  "surface": {
    "name": "main",
    "nodes": [
      {"id": 1, "name": "Dock", "kind": "transporter-source", "x": 10, "y": 20, "w": 40, "h": 30, "next": [2]},
      {"id": 2, "name": "Gate", "kind": "waypoint", "x": 300, "y": 20, "next": [3],
       "assignments": [{"origin": "Dock", "destination": "Store", "index": 1}]},
      {"id": 3, "name": "Store", "kind": "transport-destination", "x": 550, "y": 20}
    ],
    "surfaces": [
      {"name": "hall", "nodes": [{"id": 4, "name": "Mill", "x": 0, "y": 0, "next": [5]}, {"id": 5, "kind": "vertex", "x": 0, "y": 0}]}
    ]
  },
  "connections": [{"from": "Dock", "to": ["Gate"]}, {"from": "Gate", "to": ["Store"]}]
}`

const sampleYAML = `
surface:
  name: main
  nodes:
    - id: 1
      name: Dock
      kind: transporter-source
      x: 10
      y: 20
      next: [2]
    - id: 2
      name: Store
      kind: transport-destination
      x: 300
      y: 20
connections:
  - from: Dock
    to: [Store]
`

func TestReadJSON(t *testing.T) {
	m, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if m.NodeCount() != 5 || m.EdgeCount() != 3 {
		t.Errorf("got %d nodes / %d edges, want 5 / 3", m.NodeCount(), m.EdgeCount())
	}
	dock, _ := m.Node(1)
	if dock.Kind != model.KindSource || dock.W != 40 || dock.Y != 20 {
		t.Errorf("node 1 = %+v", dock)
	}
	gate, _ := m.Node(2)
	if len(gate.Assignments) != 1 || gate.Assignments[0].Destination != "Store" {
		t.Errorf("node 2 assignments = %v", gate.Assignments)
	}
	mill, _ := m.Node(4)
	if mill.Surface != "hall" {
		t.Errorf("node 4 surface = %q, want hall", mill.Surface)
	}
	if v, _ := m.Node(5); !v.IsVertex() {
		t.Errorf("node 5 kind = %v, want vertex", v.Kind)
	}
	if got := len(m.Declarations()); got != 2 {
		t.Errorf("len(Declarations()) = %d, want 2", got)
	}
}

func TestReadYAML(t *testing.T) {
	m, err := ReadYAML(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("ReadYAML() error = %v", err)
	}
	if !slices.Equal(m.Successors(1), []int{2}) {
		t.Errorf("Successors(1) = %v, want [2]", m.Successors(1))
	}
	d := m.Declarations()
	if len(d) != 1 || d[0].From != "Dock" || !slices.Equal(d[0].To, []string{"Store"}) {
		t.Errorf("Declarations() = %+v", d)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"malformed", `{"surface": `, errors.ErrCodeInvalidFormat},
		{"duplicate id", `{"surface": {"name": "main", "nodes": [{"id": 1}, {"id": 1}]}}`, errors.ErrCodeInvalidModel},
		{"bad id", `{"surface": {"name": "main", "nodes": [{"id": 0}]}}`, errors.ErrCodeInvalidModel},
		{"unknown kind", `{"surface": {"name": "main", "nodes": [{"id": 1, "kind": "robot"}]}}`, errors.ErrCodeInvalidModel},
		{"unknown target", `{"surface": {"name": "main", "nodes": [{"id": 1, "next": [9]}]}}`, errors.ErrCodeInvalidModel},
		{"cross surface", `{"surface": {"name": "main", "nodes": [{"id": 1, "next": [2]}],
			"surfaces": [{"name": "sub", "nodes": [{"id": 2}]}]}}`, errors.ErrCodeInvalidModel},
		{"duplicate surface", `{"surface": {"name": "main", "nodes": [],
			"surfaces": [{"name": "a", "nodes": []}, {"name": "a", "nodes": []}]}}`, errors.ErrCodeInvalidModel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			m, err := ReadJSON(strings.NewReader(sampleJSON))
			if err != nil {
				t.Fatalf("ReadJSON() error = %v", err)
			}
			var buf bytes.Buffer
			if err := Write(m, &buf, format); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			back, err := Read(&buf, format)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if back.NodeCount() != m.NodeCount() || back.EdgeCount() != m.EdgeCount() {
				t.Errorf("round trip changed size: %d/%d -> %d/%d",
					m.NodeCount(), m.EdgeCount(), back.NodeCount(), back.EdgeCount())
			}
			for _, n := range m.Nodes() {
				b, ok := back.Node(n.ID)
				if !ok {
					t.Errorf("node %d lost", n.ID)
					continue
				}
				if b.Name != n.Name || b.Kind != n.Kind || b.Surface != n.Surface || b.Position() != n.Position() {
					t.Errorf("node %d = %+v, want %+v", n.ID, b, n)
				}
				if !slices.Equal(b.Next, n.Next) || !slices.Equal(b.Assignments, n.Assignments) {
					t.Errorf("node %d edges/assignments differ", n.ID)
				}
			}
			if len(back.Declarations()) != len(m.Declarations()) {
				t.Errorf("declarations lost in round trip")
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	m, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	dir := t.TempDir()
	for _, name := range []string{"model.json", "model.yaml", "model.yml"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(m, path); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
		back, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", name, err)
		}
		if back.NodeCount() != 5 {
			t.Errorf("ReadFile(%s) nodes = %d, want 5", name, back.NodeCount())
		}
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile() error = %v, want code %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.json":     FormatJSON,
		"a.YAML":     FormatYAML,
		"dir/b.yml":  FormatYAML,
		"noext":      FormatJSON,
		"model.toml": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := Read(strings.NewReader("{}"), "xml"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Read(xml) error = %v", err)
	}
	if err := Write(model.New(), &bytes.Buffer{}, "xml"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Write(xml) error = %v", err)
	}
}

func TestReadExampleModel(t *testing.T) {
	m, err := ReadFile(filepath.Join("..", "..", "examples", "plant.json"))
	if err != nil {
		t.Fatalf("ReadFile(example) error = %v", err)
	}
	if m.NodeCount() != 9 || len(m.Declarations()) != 4 {
		t.Errorf("got %d nodes / %d declarations, want 9 / 4", m.NodeCount(), len(m.Declarations()))
	}
	if _, ok := m.Surface("repair"); !ok {
		t.Error("example model should have a repair surface")
	}
}

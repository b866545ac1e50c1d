package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/stationflow/pkg/cache"
	sfio "github.com/matzehuels/stationflow/pkg/io"
	"github.com/matzehuels/stationflow/pkg/model"
)

// ModelHash returns the content hash of m as seen by the arranger: nodes,
// positions, edges and declarations. Waypoint assignments are left out
// since they are planning output.
func ModelHash(m *model.Model) string {
	return hashDocument(m, false)
}

// TopologyHash returns the content hash of m as seen by the path builder.
// Positions, sizes and assignments are left out so moving nodes or
// committing a plan keeps the key stable.
func TopologyHash(m *model.Model) string {
	return hashDocument(m, true)
}

func hashDocument(m *model.Model, topologyOnly bool) string {
	doc := sfio.ToDocument(m)
	var strip func(s *sfio.Surface)
	strip = func(s *sfio.Surface) {
		for i := range s.Nodes {
			n := &s.Nodes[i]
			n.Assignments = nil
			if topologyOnly {
				n.X, n.Y, n.W, n.H = 0, 0, 0, 0
			}
		}
		for i := range s.Surfaces {
			strip(&s.Surfaces[i])
		}
	}
	strip(&doc.Surface)
	data, _ := json.Marshal(doc)
	return cache.Hash(data)
}

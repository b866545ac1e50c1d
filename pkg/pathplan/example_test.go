package pathplan_test

import (
	"fmt"

	"github.com/matzehuels/stationflow/pkg/model"
	"github.com/matzehuels/stationflow/pkg/pathplan"
)

func ExampleBuilder_RunInfo() {
	m := model.New()
	dock, _ := m.AddNode(m.Root(), model.Node{ID: 1, Name: "Dock", Kind: model.KindSource})
	gate, _ := m.AddNode(m.Root(), model.Node{ID: 2, Name: "Gate", Kind: model.KindWaypoint})
	store, _ := m.AddNode(m.Root(), model.Node{ID: 3, Name: "Store", Kind: model.KindDestination})

	b := pathplan.New()
	b.Add(dock, gate)
	b.Add(gate, store)
	b.Add(store, dock)

	for _, line := range b.RunInfo(m).Log {
		fmt.Println(line)
	}
	// Output:
	// planning 3 stations, 2 routes
	// Dock (1) -> Store (3)
	//   via Gate (2) #1
	// Store (3) -> Dock (1)
	//   direct
	// 2 routes found, 0 without path
}

package arrange_test

import (
	"fmt"

	"github.com/matzehuels/stationflow/pkg/arrange"
	"github.com/matzehuels/stationflow/pkg/model"
)

func ExampleArranger_FullArrange() {
	m := model.New()
	m.AddNode(m.Root(), model.Node{ID: 1, Name: "Source"})
	m.AddNode(m.Root(), model.Node{ID: 2, Name: "Drill"})
	m.AddNode(m.Root(), model.Node{ID: 3, Name: "Paint"})
	m.AddEdge(1, 2)
	m.AddEdge(1, 3)

	a := arrange.New(m, arrange.DefaultOptions())
	if err := a.FullArrange(m.Nodes(), model.Point{X: 50, Y: 50}); err != nil {
		fmt.Println(err)
		return
	}
	for _, n := range m.Nodes() {
		fmt.Printf("%s %d,%d\n", n.Name, n.X, n.Y)
	}
	// Output:
	// Source 50,50
	// Drill 300,50
	// Paint 300,150
}

func ExampleArranger_GridAlign() {
	m := model.New()
	m.AddNode(m.Root(), model.Node{ID: 1, X: 62, Y: 138})
	m.AddNode(m.Root(), model.Node{ID: 2, Kind: model.KindVertex, X: 62, Y: 138})

	arrange.New(m, arrange.Options{}).GridAlign(m.Nodes())
	for _, n := range m.Nodes() {
		fmt.Printf("%s %d,%d\n", n.Kind, n.X, n.Y)
	}
	// Output:
	// station 50,150
	// vertex 45,120
}

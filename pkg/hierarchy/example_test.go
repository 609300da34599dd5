package hierarchy_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/classview/pkg/hierarchy"
)

func ExampleBuild() {
	// Diamond inheritance: D has two parents
	m := hierarchy.MappingOf(
		hierarchy.Entry{Name: "A", Children: []string{"B", "C"}},
		hierarchy.Entry{Name: "B", Children: []string{"D"}},
		hierarchy.Entry{Name: "C", Children: []string{"D"}},
	)

	g := hierarchy.Build(m)
	for _, n := range g.Nodes() {
		fmt.Printf("%s depth=%d\n", n.ID, n.Depth)
	}
	fmt.Println("edges:", g.EdgeCount())
	// Output:
	// A depth=0
	// B depth=1
	// C depth=1
	// D depth=2
	// edges: 4
}

func ExampleLayout() {
	m := hierarchy.MappingOf(
		hierarchy.Entry{Name: "Animal", Children: []string{"Dog", "Cat"}},
	)

	g := hierarchy.Build(m)
	hierarchy.Layout(g, hierarchy.DefaultSpacing)
	for _, n := range g.Nodes() {
		fmt.Printf("%s at (%.0f, %.0f)\n", n.ID, n.Position.X, n.Position.Y)
	}
	// Output:
	// Animal at (0, 0)
	// Dog at (0, 100)
	// Cat at (180, 100)
}

func ExampleBuild_cycle() {
	// Every key is someone's child: there is no root to start from
	m := hierarchy.MappingOf(
		hierarchy.Entry{Name: "A", Children: []string{"B"}},
		hierarchy.Entry{Name: "B", Children: []string{"A"}},
	)

	g := hierarchy.Build(m)
	fmt.Println("empty:", g.IsEmpty())
	// Output:
	// empty: true
}

func ExampleReadMapping() {
	doc := `{"classes": "ignored"}`
	m, _ := hierarchy.ReadMapping(strings.NewReader(doc), hierarchy.FormatJSON)
	fmt.Println(m.Keys(), m.Children("classes"))

	doc = "Vehicle: [Car, Bike]\nCar: [Sedan]\n"
	m, _ = hierarchy.ReadMapping(strings.NewReader(doc), hierarchy.FormatYAML)
	fmt.Println(m.Keys(), m.Roots())
	// Output:
	// [classes] []
	// [Vehicle Car] [Vehicle]
}

func ExampleWriteGraph() {
	m := hierarchy.MappingOf(
		hierarchy.Entry{Name: "Animal", Children: []string{"Dog"}},
	)
	g := hierarchy.BuildAndLayout(m, hierarchy.DefaultSpacing)

	if err := hierarchy.WriteGraph(g, os.Stdout); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "Animal",
	//       "label": "Animal",
	//       "depth": 0,
	//       "slot": 0,
	//       "position": {
	//         "x": 0,
	//         "y": 0
	//       }
	//     },
	//     {
	//       "id": "Dog",
	//       "label": "Dog",
	//       "depth": 1,
	//       "slot": 0,
	//       "position": {
	//         "x": 0,
	//         "y": 100
	//       }
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "id": "edge-Animal-Dog",
	//       "source": "Animal",
	//       "target": "Dog"
	//     }
	//   ]
	// }
}

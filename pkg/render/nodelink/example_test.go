package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/render/nodelink"
)

func ExampleToDOT() {
	m := hierarchy.MappingOf(
		hierarchy.Entry{Name: "Vehicle", Children: []string{"Car"}},
	)
	g := hierarchy.BuildAndLayout(m, hierarchy.DefaultSpacing)

	dot := nodelink.ToDOT(g, nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "pos=") || strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "Vehicle" [label="Vehicle", pos="64,-64!"];
	// "Car" [label="Car", pos="64,-164!"];
	// "Vehicle" -> "Car" [id="edge-Vehicle-Car"];
}

package pipeline

import (
	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/render/nodelink"
)

// RenderFormat produces one artifact. graphJSON is the graph's wire form,
// returned as-is for the json format.
func RenderFormat(g *hierarchy.Graph, graphJSON []byte, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return graphJSON, nil
	}
	return nodelink.Export(g, renderFormat(format), nodelinkOptions(opts), opts.Scale)
}

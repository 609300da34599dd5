package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/classview/pkg/errors"
	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/pipeline"
)

// buildCommand creates the build command: mapping file in, positioned graph
// JSON out.
func (c *CLI) buildCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build [mapping]",
		Short: "Build and lay out the graph of a class mapping",
		Long: `Build and lay out the graph of a class mapping.

The mapping may be JSON, YAML or TOML: an object from class name to the
list of its direct subclasses, optionally wrapped in {"classes": ...}.
The positioned graph is written to <input>.graph.json unless -o is given.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeMappingFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	cmd.Flags().Float64("layout-horizontal", hierarchy.DefaultSpacing.Horizontal, "horizontal spacing between slots")
	cmd.Flags().Float64("layout-vertical", hierarchy.DefaultSpacing.Vertical, "vertical spacing between layers")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, input, output string) error {
	if err := apperrors.ValidatePath(input); err != nil {
		return err
	}
	prog := newProgress(loggerFromContext(ctx))
	m, err := hierarchy.ReadMappingFile(input)
	if err != nil {
		return fmt.Errorf("read mapping: %w", err)
	}
	prog.stage("read mapping", "classes", m.Len())

	var opts pipeline.Options
	c.layoutOptions(&opts)

	g := pipeline.NewRunner(nil, nil, c.Logger).Build(ctx, m, opts)
	prog.done(fmt.Sprintf("Built %d classes", g.NodeCount()))

	if output == "" {
		output = graphPath(input)
	}
	if err := hierarchy.WriteGraphFile(g, output); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}

	warnIfRootless(m, g)
	printSuccess("Built hierarchy graph")
	st := pipeline.Stats{ClassCount: m.Len()}
	st.Measure(g)
	printStats(st, false)
	printFile(output)
	printNextStep("Render it", "classview render "+output)
	return nil
}

// graphPath is the default graph file for a mapping file:
// models.py.hierarchy.json -> models.py.graph.json.
func graphPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	base = strings.TrimSuffix(base, ".hierarchy")
	return base + ".graph.json"
}

// warnIfRootless reports mappings whose classes all have a parent, which
// lay out as an empty graph.
func warnIfRootless(m *hierarchy.Mapping, g *hierarchy.Graph) {
	if m.Len() > 0 && g.IsEmpty() {
		printWarning("every class has a superclass in the mapping, so there is no root to lay out")
	}
}

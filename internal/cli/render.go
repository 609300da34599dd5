package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/classview/pkg/errors"
	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/pipeline"
)

type renderOpts struct {
	output   string
	formats  []string
	file     string // backend file name instead of a local input
	dir      string
	detailed bool
	free     bool
	scale    float64
	noCache  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 1}

	cmd := &cobra.Command{
		Use:   "render [graph.json|mapping]",
		Short: "Render a class hierarchy to SVG, DOT, PNG or PDF",
		Long: `Render a class hierarchy to SVG, DOT, PNG or PDF.

The input is either a positioned graph written by 'build' (*.graph.json),
which keeps any manual positions, or a mapping file, which is built and laid
out first. With --file the mapping is fetched from the analysis backend
(or from --dir) instead.

Rendered artifacts are cached by graph content.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeMappingFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "invalid --format")
			}
			switch {
			case len(args) == 1 && opts.file != "":
				return fmt.Errorf("give either an input file or --file, not both")
			case len(args) == 1:
				return c.runRenderLocal(cmd.Context(), args[0], opts)
			case opts.file != "":
				return c.runRenderRemote(cmd.Context(), opts)
			default:
				return fmt.Errorf("an input file or --file is required")
			}
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&opts.file, "file", "", "analyzed source file to fetch from the backend")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "read --file from mapping files in this directory")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show depth and slot in node labels")
	cmd.Flags().BoolVar(&opts.free, "free", false, "let Graphviz place nodes instead of pinning them")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func (o renderOpts) pipelineOptions(c *CLI) pipeline.Options {
	opts := pipeline.Options{
		Formats:  o.formats,
		Detailed: o.detailed,
		Free:     o.free,
		Scale:    o.scale,
	}
	c.layoutOptions(&opts)
	return opts
}

// isGraphFile reports whether path holds a positioned graph rather than a
// mapping.
func isGraphFile(path string) bool {
	return strings.HasSuffix(path, ".graph.json")
}

func (c *CLI) runRenderLocal(ctx context.Context, input string, opts renderOpts) error {
	if err := apperrors.ValidatePath(input); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, nil, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := opts.pipelineOptions(c)

	var (
		g       *hierarchy.Graph
		classes int
	)
	if isGraphFile(input) {
		if g, err = hierarchy.ReadGraphFile(input); err != nil {
			return fmt.Errorf("read graph: %w", err)
		}
		classes = g.NodeCount()
	} else {
		m, err := hierarchy.ReadMappingFile(input)
		if err != nil {
			return fmt.Errorf("read mapping: %w", err)
		}
		g = runner.Build(ctx, m, popts)
		classes = m.Len()
		warnIfRootless(m, g)
	}

	prog := newProgress(loggerFromContext(ctx))
	artifacts, _, hit, err := runner.RenderWithCacheInfo(ctx, g, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", strings.Join(popts.Formats, ", ")))

	paths, err := writeArtifacts(artifacts, outputBase(opts.output, input), opts.output)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", filepath.Base(input))
	st := pipeline.Stats{ClassCount: classes}
	st.Measure(g)
	printStats(st, hit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

func (c *CLI) runRenderRemote(ctx context.Context, opts renderOpts) error {
	src, closeSource, err := c.newSource(ctx, opts.dir, opts.noCache)
	if err != nil {
		return err
	}
	defer closeSource()

	runner, err := c.newRunner(ctx, src, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := opts.pipelineOptions(c)
	popts.File = opts.file

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", opts.file))
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Rendering %s failed", opts.file))
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, outputBase(opts.output, opts.file), opts.output)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", opts.file)
	printStats(result.Stats, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// outputBase derives the base output path. An explicit output loses a known
// format extension; otherwise the input's extensions are stripped.
func outputBase(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	base := strings.TrimSuffix(input, ".graph.json")
	if base == input {
		base = strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".hierarchy")
	}
	return base
}

// writeArtifacts writes each artifact to base.<format>, or a single artifact
// to output exactly when one was given. Paths are returned in format order.
func writeArtifacts(artifacts map[string][]byte, base, output string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	var paths []string
	for _, f := range formats {
		path := base + "." + f
		if len(formats) == 1 && output != "" {
			path = output
		}
		if f == pipeline.FormatJSON && path == base+".json" && !strings.HasSuffix(base, ".graph") {
			path = base + ".graph.json"
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

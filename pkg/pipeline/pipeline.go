// Package pipeline runs the fetch → build → render pipeline for classview.
//
// The CLI and the HTTP service both go through this package, so a hierarchy
// rendered from the command line and one rendered by the service come out
// the same.
//
// # Stages
//
//  1. Fetch: resolve the class mapping for a file through a [source.Source],
//     or take a mapping supplied directly
//  2. Build: run hierarchy.Build and hierarchy.Layout
//  3. Render: produce artifacts (SVG, DOT, PNG, PDF, graph JSON)
//
// Each stage can be run on its own.
//
// # Usage
//
//	runner := pipeline.NewRunner(src, cache, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    File:    "models.py",
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/render"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Options configures one pipeline run.
type Options struct {
	// Fetch options. Mapping, when set, is used instead of fetching File.
	File    string             `json:"file,omitempty"`
	Mapping *hierarchy.Mapping `json:"-"`

	// Build options
	Spacing  hierarchy.Spacing `json:"spacing"`
	NodeSize hierarchy.Size    `json:"node_size"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Depth and slot in node labels
	Free     bool     `json:"free,omitempty"`     // Let Graphviz rank nodes instead of pinning them
	Scale    float64  `json:"scale,omitempty"`    // PNG scale factor

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Mapping   *hierarchy.Mapping
	Graph     *hierarchy.Graph
	GraphHash string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ClassCount int
	NodeCount  int
	EdgeCount  int
	Layers     int // Number of depth layers
	Widest     int // Node count of the most populated layer
	FetchTime  time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// Measure fills the graph counts of s from g.
func (s *Stats) Measure(g *hierarchy.Graph) {
	s.NodeCount = g.NodeCount()
	s.EdgeCount = g.EdgeCount()
	s.Layers = g.MaxDepth() + 1
	s.Widest = 0
	for d := range s.Layers {
		s.Widest = max(s.Widest, len(g.NodesAtDepth(d)))
	}
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.File == "" && o.Mapping == nil {
		return fmt.Errorf("file or mapping is required")
	}
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// SetRenderDefaults fills render defaults: SVG output, default node size.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.NodeSize.Width == 0 {
		o.NodeSize.Width = hierarchy.DefaultNodeSize.Width
	}
	if o.NodeSize.Height == 0 {
		o.NodeSize.Height = hierarchy.DefaultNodeSize.Height
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
}

// artifactKeyOpts are the options that change a rendered artifact.
func (o *Options) artifactKeyOpts() []any {
	return []any{o.NodeSize.Width, o.NodeSize.Height, o.Detailed, o.Free, o.Scale}
}

// renderFormat maps a pipeline format to a render format.
func renderFormat(format string) render.Format {
	return render.Format(format)
}

package hierarchy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Mapping Documents
// =============================================================================

// Format names a mapping document encoding.
type Format string

// Supported mapping document formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported mapping file extension %q", filepath.Ext(path))
	}
}

// ReadMapping decodes a mapping document from r, preserving key order.
// A syntactically invalid document is an error; a valid document that is not
// a mapping (null, a list) decodes to an empty mapping.
func ReadMapping(r io.Reader, f Format) (*Mapping, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	m := NewMapping()
	switch f {
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return m, nil
		}
		if err := json.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		return decodeTOML(data)
	default:
		return nil, fmt.Errorf("unsupported mapping format %q", f)
	}
	return m, nil
}

// ReadMappingFile reads a mapping document, choosing the decoder from the
// file extension.
func ReadMappingFile(path string) (*Mapping, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return ReadMapping(file, f)
}

// WriteMapping encodes m to w. TOML output is not supported.
func WriteMapping(w io.Writer, m *Mapping, f Format) error {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}
}

// decodeTOML reads top-level array keys in document order:
//
//	Animal = ["Dog", "Cat"]
//	Dog = ["Puppy"]
func decodeTOML(data []byte) (*Mapping, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}

	m := NewMapping()
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue
		}
		name := key[0]
		switch v := raw[name].(type) {
		case []any:
			m.Set(name, stringsOf(v)...)
		case []string:
			m.Set(name, v...)
		default:
			m.Set(name)
		}
	}
	return m, nil
}

// =============================================================================
// Graph Documents
// =============================================================================

// GraphData is the wire format of a positioned graph.
//
//	{
//	  "nodes": [{"id": "A", "label": "A", "depth": 0, "slot": 0, "position": {"x": 0, "y": 0}}],
//	  "edges": [{"id": "edge-A-B", "source": "A", "target": "B"}]
//	}
type GraphData struct {
	Nodes []NodeData `json:"nodes" bson:"nodes"`
	Edges []EdgeData `json:"edges" bson:"edges"`
}

// NodeData is the wire format of a node.
type NodeData struct {
	ID       string `json:"id" bson:"id"`
	Label    string `json:"label,omitempty" bson:"label,omitempty"`
	Depth    int    `json:"depth" bson:"depth"`
	Slot     int    `json:"slot" bson:"slot"`
	Position Point  `json:"position" bson:"position"`
	Manual   bool   `json:"manual,omitempty" bson:"manual,omitempty"`
}

// EdgeData is the wire format of an edge.
type EdgeData struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// Data converts the graph to its wire format. Node and edge order is kept.
func (g *Graph) Data() GraphData {
	out := GraphData{
		Nodes: make([]NodeData, len(g.nodes)),
		Edges: make([]EdgeData, len(g.edges)),
	}
	for i, n := range g.nodes {
		out.Nodes[i] = NodeData{
			ID:       n.ID,
			Label:    n.Label,
			Depth:    n.Depth,
			Slot:     n.Slot,
			Position: n.Position,
			Manual:   n.Manual,
		}
	}
	for i, e := range g.edges {
		out.Edges[i] = EdgeData{ID: e.ID, Source: e.Source, Target: e.Target}
	}
	return out
}

// FromData rebuilds a graph from its wire format. It fails on duplicate
// node IDs and on edges whose endpoints are missing.
func FromData(d GraphData) (*Graph, error) {
	g := NewGraph()
	for _, n := range d.Nodes {
		err := g.AddNode(Node{
			ID:       n.ID,
			Label:    n.Label,
			Depth:    n.Depth,
			Slot:     n.Slot,
			Position: n.Position,
			Manual:   n.Manual,
		})
		if err != nil {
			return nil, fmt.Errorf("add node %q: %w", n.ID, err)
		}
	}
	for _, e := range d.Edges {
		if err := g.AddEdge(Edge{ID: e.ID, Source: e.Source, Target: e.Target}); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", e.Source, e.Target, err)
		}
	}
	return g, nil
}

// MarshalJSON encodes the graph in its wire format.
func (g *Graph) MarshalJSON() ([]byte, error) { return json.Marshal(g.Data()) }

// UnmarshalJSON decodes the wire format into g.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var d GraphData
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	decoded, err := FromData(d)
	if err != nil {
		return err
	}
	*g = *decoded
	return nil
}

// WriteGraph writes g as indented JSON.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.Data()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraph decodes a JSON graph from r.
func ReadGraph(r io.Reader) (*Graph, error) {
	var d GraphData
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromData(d)
}

// WriteGraphFile writes g to a JSON file.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

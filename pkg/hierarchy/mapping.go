package hierarchy

import (
	"bytes"
	"encoding/json"
	"slices"

	"gopkg.in/yaml.v3"
)

// Entry is a single class together with its direct children.
type Entry struct {
	Name     string
	Children []string
}

// Mapping associates class names with the ordered list of their direct
// children. Key order is preserved: it is the order in which classes first
// appeared in the source document (or were added with [Mapping.Set]).
//
// Child names may repeat across parents (multiple inheritance) and may name
// classes that have no entry of their own (leaves).
//
// The zero value is an empty mapping ready to use.
type Mapping struct {
	keys     []string
	children map[string][]string
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{children: make(map[string][]string)}
}

// MappingOf builds a mapping from entries in the given order.
// Later entries with a repeated name replace the children of earlier ones
// but keep the original key position.
func MappingOf(entries ...Entry) *Mapping {
	m := NewMapping()
	for _, e := range entries {
		m.Set(e.Name, e.Children...)
	}
	return m
}

// Set records the children of name. A new name is appended to the key order;
// an existing name keeps its position and has its children replaced.
// Empty names are not class names and are dropped, both as keys and children.
func (m *Mapping) Set(name string, children ...string) {
	if name == "" {
		return
	}
	if m.children == nil {
		m.children = make(map[string][]string)
	}
	if _, ok := m.children[name]; !ok {
		m.keys = append(m.keys, name)
	}
	kept := make([]string, 0, len(children))
	for _, c := range children {
		if c != "" {
			kept = append(kept, c)
		}
	}
	m.children[name] = kept
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the class names in key order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Has reports whether name is a key of the mapping.
func (m *Mapping) Has(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.children[name]
	return ok
}

// Children returns the children listed for name, or nil if name is not a key.
// The returned slice must not be modified.
func (m *Mapping) Children(name string) []string {
	if m == nil {
		return nil
	}
	return m.children[name]
}

// Entries returns the mapping as a slice of entries in key order.
func (m *Mapping) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.keys))
	for i, k := range m.keys {
		out[i] = Entry{Name: k, Children: slices.Clone(m.children[k])}
	}
	return out
}

// ChildSet returns every name that appears as a child of some entry.
func (m *Mapping) ChildSet() map[string]struct{} {
	set := make(map[string]struct{})
	if m == nil {
		return set
	}
	for _, k := range m.keys {
		for _, c := range m.children[k] {
			set[c] = struct{}{}
		}
	}
	return set
}

// Roots returns the keys that never appear as a child, in key order.
// An empty mapping, or one where every key is someone's child, has no roots.
func (m *Mapping) Roots() []string {
	if m == nil {
		return nil
	}
	childSet := m.ChildSet()
	var roots []string
	for _, k := range m.keys {
		if _, isChild := childSet[k]; !isChild {
			roots = append(roots, k)
		}
	}
	return roots
}

// =============================================================================
// JSON
// =============================================================================

// UnmarshalJSON decodes a JSON object while keeping its key order.
//
// Anything other than an object (null, arrays, scalars) decodes to an empty
// mapping without error: the backend's "no hierarchy data" shape. Entry
// values that are not arrays yield a class with no children, and non-string
// array elements are skipped.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	*m = Mapping{children: make(map[string][]string)}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		m.Set(name, jsonChildren(raw)...)
	}
	return nil
}

func jsonChildren(raw json.RawMessage) []string {
	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return stringsOf(values)
}

// MarshalJSON encodes the mapping as a JSON object in key order.
func (m Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		children := m.children[k]
		if children == nil {
			children = []string{}
		}
		val, err := json.Marshal(children)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// =============================================================================
// YAML
// =============================================================================

// UnmarshalYAML decodes a YAML mapping node in document order. Non-mapping
// documents decode to an empty mapping, mirroring [Mapping.UnmarshalJSON].
func (m *Mapping) UnmarshalYAML(value *yaml.Node) error {
	*m = Mapping{children: make(map[string][]string)}

	if value.Kind == yaml.DocumentNode && len(value.Content) > 0 {
		value = value.Content[0]
	}
	if value.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		var children []string
		if val.Kind == yaml.SequenceNode {
			for _, c := range val.Content {
				if c.Kind == yaml.ScalarNode {
					children = append(children, c.Value)
				}
			}
		}
		m.Set(key.Value, children...)
	}
	return nil
}

// MarshalYAML encodes the mapping as an ordered YAML mapping with flow-style
// child lists.
func (m Mapping) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range m.keys {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, c := range m.children[k] {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: c})
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			seq,
		)
	}
	return node, nil
}

func stringsOf(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

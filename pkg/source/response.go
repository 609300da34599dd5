package source

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/classview/pkg/hierarchy"
)

// Response is the backend's reply body.
type Response struct {
	Classes hierarchy.Mapping `json:"classes"`
}

// DecodeResponse extracts the mapping from a backend reply. Bodies that are
// valid JSON but not an object, and objects without a usable "classes"
// field, yield an empty mapping, as does an empty body. Only malformed JSON
// is an error.
func DecodeResponse(data []byte) (*hierarchy.Mapping, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return hierarchy.NewMapping(), nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("decode response: invalid JSON")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return hierarchy.NewMapping(), nil
	}
	m := hierarchy.NewMapping()
	classes, ok := raw["classes"]
	if !ok {
		return m, nil
	}
	if err := json.Unmarshal(classes, m); err != nil {
		return nil, fmt.Errorf("decode classes: %w", err)
	}
	return m, nil
}

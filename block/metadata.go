package block

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FlexInt is an int that also accepts JSON/YAML string encodings ("12").
// Models routinely quote numeric fields; the wire format legally allows it.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not an integer: %s", data)
	}
	*f = FlexInt(n)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(f))), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FlexInt) UnmarshalYAML(value *yaml.Node) error {
	n, err := strconv.Atoi(strings.TrimSpace(value.Value))
	if err != nil {
		return fmt.Errorf("not an integer: %s", value.Value)
	}
	*f = FlexInt(n)
	return nil
}

// Metadata is the structured object between @@start and @@code/@@end. All
// line numbers on the wire are 1-indexed; start-line/end-line ranges are
// inclusive. Which fields are required depends on the action.
type Metadata struct {
	// File is the target path, relative to the project root.
	File string `json:"file" yaml:"file" jsonschema:"required,description=Target file path relative to the project root"`

	// Action is one of insert, replace, delete, create-file, delete-file,
	// rename-file.
	Action string `json:"action" yaml:"action" jsonschema:"required,enum=insert,enum=replace,enum=delete,enum=create-file,enum=delete-file,enum=rename-file"`

	// InsertBefore and InsertAfter position an insert action. At least
	// one is required for insert; when both are present they must agree.
	InsertBefore *FlexInt `json:"insert-before-line,omitempty" yaml:"insert-before-line,omitempty" jsonschema:"description=1-indexed line the insertion goes before"`
	InsertAfter  *FlexInt `json:"insert-after-line,omitempty" yaml:"insert-after-line,omitempty" jsonschema:"description=1-indexed line the insertion goes after"`

	// StartLine and EndLine bound a replace or delete action, inclusive.
	StartLine *FlexInt `json:"start-line,omitempty" yaml:"start-line,omitempty" jsonschema:"description=First affected line (1-indexed, inclusive)"`
	EndLine   *FlexInt `json:"end-line,omitempty" yaml:"end-line,omitempty" jsonschema:"description=Last affected line (1-indexed, inclusive)"`

	// Name is the new path for rename-file.
	Name string `json:"name,omitempty" yaml:"name,omitempty" jsonschema:"description=New file path for rename-file"`
}

// decodeMetadata parses the metadata text. JSON is the wire format; YAML is
// accepted as a fallback for model output with unquoted keys.
func decodeMetadata(text string) (*Metadata, error) {
	var m Metadata
	jsonErr := json.Unmarshal([]byte(text), &m)
	if jsonErr == nil {
		return &m, nil
	}
	if yamlMapping(text) {
		if yamlErr := yaml.Unmarshal([]byte(text), &m); yamlErr == nil {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("malformed metadata: %v", jsonErr)
}

// yamlMapping reports whether text is a YAML mapping whose values are all
// set. A truncated JSON object like {"file": } is itself valid YAML (a
// mapping with a null value), so the fallback must not accept it.
func yamlMapping(text string) bool {
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return false
	}
	if len(raw) == 0 {
		return false
	}
	for _, v := range raw {
		if v == nil {
			return false
		}
	}
	return true
}

package block

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// MetadataSchema returns the JSON Schema of the block metadata object, for
// embedding in system prompts so models learn the exact field names and
// required combinations.
func MetadataSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	return r.Reflect(&Metadata{})
}

// MetadataSchemaJSON returns the schema as indented JSON text.
func MetadataSchemaJSON() (string, error) {
	data, err := json.MarshalIndent(MetadataSchema(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

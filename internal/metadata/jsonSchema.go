package metadata

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// JSONSchema describes the descriptor file format so editors can validate schema files.
func JSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true, // inline defs
		ExpandedStruct: true, // put Schema at root
	}
	s := r.Reflect(new(Schema))
	s.Title = "napigen binding descriptors"
	return s
}

// Indented JSON rendering of JSONSchema.
func JSONSchemaDocument() ([]byte, error) {
	return json.MarshalIndent(JSONSchema(), "", "  ")
}

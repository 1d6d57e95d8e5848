package definition

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// DocumentSchema returns the JSON Schema for the definition document,
// derived from the Go model. Editors and external validators consume
// this; the parser itself validates natively.
func DocumentSchema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	schema := reflector.Reflect(&Document{})
	schema.Title = "Scenario Definition Schema"
	return json.MarshalIndent(schema, "", "  ")
}

package settings

import (
	"github.com/invopop/jsonschema"
)

// Schema reflects the JSON schema of the settings document for t. Unknown
// properties are tolerated because Convert ignores them.
func Schema(t Type) (*jsonschema.Schema, error) {
	s, err := New(t)
	if err != nil {
		return nil, err
	}
	reflector := jsonschema.Reflector{AllowAdditionalProperties: true}
	schema := reflector.Reflect(s)
	schema.Title = t.String() + " settings"
	schema.Description = "Gamemode settings document. Fields left out keep the variant defaults."
	return schema, nil
}

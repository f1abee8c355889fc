package serialize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/ajmazurie/spate/internal/spateerr"
)

// documentSchema constrains the on-disk document shape before it is
// decoded into Go structs, so a malformed file is rejected with a single
// SerializationError rather than a confusing struct-decode failure.
const documentSchema = `{
  "type": "object",
  "required": ["name", "jobs"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "engine": {"type": "string"},
    "jobs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "inputs", "outputs", "created_at"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "inputs": {"type": "array", "items": {"type": "string"}},
          "outputs": {"type": "array", "items": {"type": "string"}},
          "template": {"type": ["string", "null"]},
          "data": {"type": "object"},
          "created_at": {"type": "integer"}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// validateSchema decodes raw as YAML into a generic tree, re-encodes it as
// JSON, and validates the result against documentSchema. YAML is a
// superset of JSON in structure, so this lets one schema cover documents
// written by either encoding.
func validateSchema(raw []byte) error {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return spateerr.New(spateerr.SerializationError, "document is not valid YAML").WithCause(err)
	}

	asJSON, err := json.Marshal(normalizeForJSON(generic))
	if err != nil {
		return spateerr.New(spateerr.SerializationError, "document cannot be represented as JSON").WithCause(err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(asJSON))
	if err != nil {
		return spateerr.New(spateerr.SerializationError, "schema validation failed to run").WithCause(err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return spateerr.New(spateerr.SerializationError, "document does not match workflow schema: "+strings.Join(msgs, "; "))
	}
	return nil
}

// normalizeForJSON rewrites map[any]any nodes (which yaml.v3 can, in
// nested contexts, still produce under interface{} decoding for certain
// non-string keys) into map[string]any so encoding/json can marshal them.
func normalizeForJSON(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalizeForJSON(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprintf("%v", k)] = normalizeForJSON(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalizeForJSON(val)
		}
		return out
	default:
		return x
	}
}

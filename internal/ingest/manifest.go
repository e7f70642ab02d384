package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// manifestSchema constrains a batch manifest before anything is unmarshaled
// into typed structs.
var manifestSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []any{"documents"},
	"properties": map[string]any{
		"documents": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []any{"year", "month", "path"},
				"properties": map[string]any{
					"year":  map[string]any{"type": "integer", "minimum": 1984},
					"month": map[string]any{"type": "string", "pattern": `^(0[1-9]|1[0-2])$`},
					"path":  map[string]any{"type": "string", "minLength": 1},
				},
			},
		},
	},
}

type manifest struct {
	Documents []Document `json:"documents"`
}

// LoadManifest reads a JSON batch manifest, validates it against the schema
// and returns its documents in submission order (the manifest's order is the
// caller's to choose; no sort is applied).
func LoadManifest(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if err := validateManifest(data); err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return m.Documents, nil
}

func validateManifest(data []byte) error {
	b, err := json.Marshal(manifestSchema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("manifest.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("manifest.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal manifest: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("manifest does not match schema: %w", err)
	}
	return nil
}

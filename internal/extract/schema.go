package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildResultJSONSchema returns the JSON-Schema for one ExtractionResult object.
// Only file_name and success are required: per-item failures in a batch may omit the rest.
func BuildResultJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_name":         map[string]any{"type": "string"},
			"page_count":        map[string]any{"type": []string{"integer", "null"}, "minimum": 0},
			"extraction_method": map[string]any{"type": []string{"string", "null"}},
			"extracted_text":    map[string]any{"type": []string{"string", "null"}},
			"success":           map[string]any{"type": "boolean"},
		},
		"required": []string{"file_name", "success"},
	}
}

// BuildBatchJSONSchema returns the JSON-Schema for the /extract/batch envelope.
func BuildBatchJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"results": map[string]any{
				"type":  "array",
				"items": BuildResultJSONSchema(),
			},
			"total": map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []string{"results"},
	}
}

var (
	resultSchema = mustCompileSchema("extraction_result.json", BuildResultJSONSchema())
	batchSchema  = mustCompileSchema("extraction_batch.json", BuildBatchJSONSchema())
)

func compileSchema(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func mustCompileSchema(name string, schemaMap map[string]any) *jsonschema.Schema {
	schema, err := compileSchema(name, schemaMap)
	if err != nil {
		panic(err)
	}
	return schema
}

// validateJSON checks raw against schema. Failures wrap ErrInvalidResponse.
func validateJSON(schema *jsonschema.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: unmarshal data: %v", ErrInvalidResponse, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: json does not match schema: %v", ErrInvalidResponse, err)
	}
	return nil
}

package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SubmissionFieldsSchema returns the JSON-Schema (draft 2020-12 subset) for a
// validated document-path extraction. Used only when validated mode is on;
// the archived output stays the raw text either way.
func SubmissionFieldsSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"named_insured":         map[string]any{"type": "string", "minLength": 1},
			"dba_name":              map[string]any{"type": "string"},
			"renewal_of_account_id": map[string]any{"type": "string"},
			"coverage":              map[string]any{"type": "string"},
			"inception_date":        map[string]any{"type": "string"},
			"expiration_date":       map[string]any{"type": "string"},
		},
		"required": []string{"named_insured"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

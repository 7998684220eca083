package toolguard

import (
	"bytes"
	"encoding/json"
	"errors"
	"maps"

	invopop "github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v6"
)

// contractURL names the compiled Clean schema inside the compiler; it is never fetched.
const contractURL = "https://github.com/skosovsky/toolguard/clean.schema.json"

var errNilSchema = errors.New("schema reflection returned nil")

// generateSchema produces the JSON Schema of Clean as a map. It is reflected from the
// struct tags on Clean, then the conditional q rule is added by hand because tags cannot
// express it.
func generateSchema() (map[string]any, error) {
	r := &invopop.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := r.Reflect(&Clean{})
	if schema == nil {
		return nil, errNilSchema
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return nil, err
	}
	schemaMap["additionalProperties"] = false
	schemaMap["if"] = map[string]any{
		"properties": map[string]any{
			KeyAction: map[string]any{"const": string(ActionSearch)},
		},
		"required": []any{KeyAction},
	}
	schemaMap["then"] = map[string]any{"required": []any{KeyQuery}}
	schemaMap["else"] = map[string]any{"not": map[string]any{"required": []any{KeyQuery}}}
	stripSchemaIDs(schemaMap)
	return schemaMap, nil
}

// walkSchema recursively visits every map node in the schema tree.
func walkSchema(schemaMap map[string]any, visit func(map[string]any)) {
	if schemaMap == nil {
		return
	}
	visit(schemaMap)
	for _, val := range schemaMap {
		switch v := val.(type) {
		case map[string]any:
			walkSchema(v, visit)
		case []any:
			for _, item := range v {
				if m2, ok := item.(map[string]any); ok {
					walkSchema(m2, visit)
				}
			}
		}
	}
}

// stripSchemaIDs removes id and $id so resolution does not depend on them.
func stripSchemaIDs(schemaMap map[string]any) {
	walkSchema(schemaMap, func(n map[string]any) {
		delete(n, "id")
		delete(n, "$id")
	})
}

// compileContract compiles the schema map into a validator. The map is not mutated.
func compileContract(schemaMap map[string]any) (*santhosh.Schema, error) {
	data, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, err
	}
	doc, err := santhosh.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	c := santhosh.NewCompiler()
	if err := c.AddResource(contractURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(contractURL)
}

// checkContract validates an accepted Clean against the compiled schema.
func checkContract(contract *santhosh.Schema, c Clean) error {
	data, err := json.Marshal(c)
	if err != nil {
		return &SystemError{Err: err}
	}
	inst, err := santhosh.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &SystemError{Err: err}
	}
	if err := contract.Validate(inst); err != nil {
		return &SystemError{Err: errors.Join(ErrContract, err)}
	}
	return nil
}

// Definition is an LLM-facing tool definition whose Parameters describe a Clean call.
type Definition struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Parameters  map[string]any `json:"parameters" yaml:"parameters"`
}

// Default definition name and description used by the CLI and the web endpoint.
const (
	DefaultToolName        = "search_or_answer"
	DefaultToolDescription = "Search for up to k results for query q, or answer directly."
)

// NewDefinition builds a Definition from the Clean schema.
func NewDefinition(name, description string) (Definition, error) {
	schemaMap, err := generateSchema()
	if err != nil {
		return Definition{}, err
	}
	return Definition{Name: name, Description: description, Parameters: schemaMap}, nil
}

// cloneSchema returns a shallow copy (top-level keys only); nested maps are shared.
func cloneSchema(schemaMap map[string]any) map[string]any {
	return maps.Clone(schemaMap)
}

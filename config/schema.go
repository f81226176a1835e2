package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// schemaJSON is the draft-07 JSON Schema for a graph description,
// restoring original_source/src/graph/yaml_schema.py's
// YAMLConfigSchema.get_schema(), adapted to this package's lowercase node
// taxonomy and start/ends field names.
const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "flowgraph graph configuration",
  "type": "object",
  "required": ["name", "start", "nodes"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "start": {"type": "string", "minLength": 1},
    "ends": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    },
    "nodes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"type": "string", "enum": ` + nodeTypesJSON() + `},
          "name": {"type": "string"},
          "params": {"type": "object"}
        }
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["from", "to"],
        "properties": {
          "from": {"type": "string", "minLength": 1},
          "to": {"type": "string", "minLength": 1},
          "action": {"type": "string"},
          "weight": {"type": "number", "minimum": 0}
        }
      }
    }
  }
}`

func nodeTypesJSON() string {
	quoted := make([]string, len(NodeTypes))
	for i, t := range NodeTypes {
		quoted[i] = `"` + t + `"`
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// ValidationError aggregates every schema violation found, the way
// graph.ValidationReport aggregates graph invariant violations.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %d schema violation(s): %s", len(e.Errors), strings.Join(e.Errors, "; "))
}

// validateSchema checks raw (the document decoded into plain
// map[string]any/[]any/scalar values) against schemaJSON.
func validateSchema(raw any) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	docLoader := gojsonschema.NewGoLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("config: schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, re := range result.Errors() {
		verr.Errors = append(verr.Errors, re.String())
	}
	return verr
}

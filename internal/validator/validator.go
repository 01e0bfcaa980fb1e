// Package validator checks client-supplied command lists against the
// command JSON schema before they are interpreted for export.
package validator

import (
	"fmt"
	"os"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// commandSchema is the wire contract for one drawing command. Kept in sync
// with the command package and the model system instruction.
const commandSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": { "$ref": "#/definitions/command" },
  "definitions": {
    "command": {
      "type": "object",
      "required": ["type"],
      "oneOf": [
        {
          "properties": {
            "type": { "const": "text" },
            "text": { "type": "string" },
            "x": { "type": "number" },
            "y": { "type": "number" },
            "fontSize": { "type": "number" },
            "color": { "type": "string" }
          },
          "required": ["type", "text", "x", "y"]
        },
        {
          "properties": {
            "type": { "const": "equation" },
            "latex": { "type": "string" },
            "x": { "type": "number" },
            "y": { "type": "number" },
            "fontSize": { "type": "number" }
          },
          "required": ["type", "latex", "x", "y"]
        },
        {
          "properties": {
            "type": { "const": "line" },
            "points": {
              "type": "array",
              "items": { "type": "number" },
              "minItems": 4
            },
            "strokeWidth": { "type": "number" }
          },
          "required": ["type", "points"]
        },
        {
          "properties": {
            "type": { "const": "rect" },
            "x": { "type": "number" },
            "y": { "type": "number" },
            "width": { "type": "number", "minimum": 0 },
            "height": { "type": "number", "minimum": 0 }
          },
          "required": ["type", "x", "y", "width", "height"]
        },
        {
          "properties": {
            "type": { "const": "group" },
            "x": { "type": "number" },
            "y": { "type": "number" },
            "children": {
              "type": "array",
              "items": { "$ref": "#/definitions/command" }
            }
          },
          "required": ["type", "x", "y", "children"]
        }
      ]
    }
  }
}`

// Result of a validation pass.
type Result struct {
	Valid       bool      `json:"valid"`
	Errors      []string  `json:"errors,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Validator validates command-list payloads.
type Validator struct {
	schemaLoader gojsonschema.JSONLoader
}

// New creates a validator. When schemaPath is non-empty the schema is read
// from disk instead of the built-in contract.
func New(schemaPath string) (*Validator, error) {
	loader := gojsonschema.NewStringLoader(commandSchema)
	if schemaPath != "" {
		data, err := os.ReadFile(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema: %w", err)
		}
		loader = gojsonschema.NewBytesLoader(data)
	}
	return &Validator{schemaLoader: loader}, nil
}

// ValidateCommands checks a raw JSON command array against the schema.
func (v *Validator) ValidateCommands(payload []byte) Result {
	result := Result{Valid: true, GeneratedAt: time.Now()}
	if len(payload) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "command payload missing")
		return result
	}

	schemaResult, err := gojsonschema.Validate(v.schemaLoader, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("schema validation error: %v", err))
		return result
	}
	if !schemaResult.Valid() {
		result.Valid = false
		for _, e := range schemaResult.Errors() {
			result.Errors = append(result.Errors, e.String())
		}
	}
	return result
}

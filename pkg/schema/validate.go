package schema

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const configSchemaURL = "config.schema.json"

// configSchema mirrors the checks the inference server applies to every row:
// name, type and a supported kind. Values are optional on the wire.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["model_name", "input_features", "prediction_template"],
  "properties": {
    "model_name": {"type": "string"},
    "model_version": {"type": "string"},
    "input_features": {"type": "array", "items": {"$ref": "#/$defs/feature"}},
    "prediction_template": {"type": "array", "items": {"$ref": "#/$defs/feature"}}
  },
  "$defs": {
    "feature": {
      "type": "object",
      "required": ["name", "type"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "type": {"enum": ["string", "int", "float", "image"]}
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Validate checks a decoded JSON document (as produced by json.Unmarshal into
// an any) against the model schema contract.
func Validate(doc any) error {
	schema, err := configValidator()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

func configValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(configSchemaURL, strings.NewReader(configSchema)); err != nil {
			compileErr = fmt.Errorf("schema: add validator resource: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(configSchemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("schema: compile validator: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

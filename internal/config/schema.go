package config

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaDoc describes the recognized top-level config shape. Property
// names are lower-case because the merged document the loader validates
// has lower-cased keys. Validation failures never fail the load; they
// are reported as warnings and the merged values are kept as they are
// (no section is reset to defaults because of a schema warning).
const schemaDoc = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "hooks": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "command": {"type": "string"},
          "timeout": {"type": "number"},
          "enabled": {"type": "boolean"},
          "extraargs": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "codebasemap": {
      "type": "object",
      "properties": {
        "include": {"type": "array", "items": {"type": "string"}},
        "exclude": {"type": "array", "items": {"type": "string"}},
        "format": {"type": "string", "enum": ["dsl", "tree"]}
      }
    }
  }
}`

const schemaResourceURL = "claudekit://config-schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compiledConfigSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaResourceURL, strings.NewReader(schemaDoc)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaResourceURL)
	})
	return compiledSchema, schemaErr
}

// validateShape runs JSON-schema validation over the raw decoded config
// document and returns human-readable warnings. It never returns an
// error: a broken schema or validator is itself treated as "nothing to
// warn about" so it can never turn into a spurious fatal path.
func validateShape(doc map[string]any) []string {
	schema, err := compiledConfigSchema()
	if err != nil || schema == nil {
		return nil
	}

	if err := schema.Validate(doc); err != nil {
		return []string{err.Error()}
	}
	return nil
}

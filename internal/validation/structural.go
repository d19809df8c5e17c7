package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/rendis/interact/pkg/schema"
)

// JSON Schemas for the structural validation stage, embedded as constants to
// avoid filesystem dependencies. They assert shape only (required fields,
// enums, cardinality); cross-field rules live in the semantic stages.

const quizSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://interact.dev/schemas/quiz.json",
  "type": "object",
  "required": ["id", "type", "website_id", "questions", "results"],
  "properties": {
    "id": { "type": "string", "minLength": 1 },
    "type": { "const": "quiz" },
    "status": { "enum": ["draft", "published", "archived"] },
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "type", "prompt"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "type": { "enum": ["single_choice", "multiple_choice", "true_false", "image_choice", "text", "rating"] },
          "prompt": { "type": "string", "minLength": 1 },
          "weight": { "type": "number", "minimum": 0 },
          "time_limit": { "type": "integer", "minimum": 0 }
        }
      }
    },
    "results": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["min_score", "max_score", "title"],
        "properties": {
          "title": { "type": "string", "minLength": 1 }
        }
      }
    },
    "scoring": {
      "type": "object",
      "properties": {
        "type": { "enum": ["points", "percentage", "weighted", "custom"] }
      }
    }
  }
}`

const calculatorSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://interact.dev/schemas/calculator.json",
  "type": "object",
  "required": ["id", "type", "website_id", "inputs", "outputs"],
  "properties": {
    "id": { "type": "string", "minLength": 1 },
    "type": { "const": "calculator" },
    "status": { "enum": ["draft", "published", "archived"] },
    "inputs": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "label", "type"],
        "properties": {
          "name": { "type": "string", "pattern": "^[A-Za-z_][A-Za-z0-9_]*$" },
          "label": { "type": "string", "minLength": 1 },
          "type": { "enum": ["number", "slider", "select", "radio"] }
        }
      }
    },
    "outputs": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "label", "formula"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "formula": { "type": "string", "minLength": 1 },
          "format": { "enum": ["currency", "percentage", "number"] },
          "decimals": { "type": "integer", "minimum": 0 }
        }
      }
    },
    "breakdown": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["label", "formula"],
        "properties": {
          "formula": { "type": "string", "minLength": 1 },
          "format": { "enum": ["currency", "percentage", "number"] }
        }
      }
    }
  }
}`

const surveySchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://interact.dev/schemas/survey.json",
  "type": "object",
  "required": ["id", "type", "website_id", "questions"],
  "properties": {
    "id": { "type": "string", "minLength": 1 },
    "type": { "const": "survey" },
    "status": { "enum": ["draft", "published", "archived"] },
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "type", "prompt"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "type": { "enum": ["single_choice", "multiple_choice", "text", "rating", "nps"] },
          "prompt": { "type": "string", "minLength": 1 },
          "max_rating": { "type": "integer", "minimum": 2 },
          "logic": {
            "type": "object",
            "required": ["action", "conditions"],
            "properties": {
              "action": { "enum": ["show", "hide", "skip_to"] },
              "combinator": { "enum": ["and", "or"] },
              "conditions": {
                "type": "array",
                "minItems": 1,
                "items": {
                  "type": "object",
                  "required": ["question_id", "operator"],
                  "properties": {
                    "operator": { "enum": ["equals", "not_equals", "contains", "greater_than", "less_than"] }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

type compiledSchemas struct {
	quiz       *jsonschema.Schema
	calculator *jsonschema.Schema
	survey     *jsonschema.Schema
}

// loadSchemas compiles the embedded schemas once per process.
var loadSchemas = sync.OnceValues(func() (*compiledSchemas, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	compile := func(url, raw string) (*jsonschema.Schema, error) {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("unmarshal schema %s: %w", url, err)
		}
		if err := c.AddResource(url, doc); err != nil {
			return nil, fmt.Errorf("add schema resource %s: %w", url, err)
		}
		return c.Compile(url)
	}

	quiz, err := compile("https://interact.dev/schemas/quiz.json", quizSchemaJSON)
	if err != nil {
		return nil, err
	}
	calc, err := compile("https://interact.dev/schemas/calculator.json", calculatorSchemaJSON)
	if err != nil {
		return nil, err
	}
	survey, err := compile("https://interact.dev/schemas/survey.json", surveySchemaJSON)
	if err != nil {
		return nil, err
	}

	return &compiledSchemas{quiz: quiz, calculator: calc, survey: survey}, nil
})

// validateStructural round-trips cfg through JSON and validates it against
// the compiled schema, converting violations into ValidationResult errors.
func validateStructural(compiled *jsonschema.Schema, cfg any) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	doc, err := toJSONValue(cfg)
	if err != nil {
		result.AddError("/", schema.ErrCodeValidation, "failed to serialize configuration: "+err.Error())
		return result
	}

	if err := compiled.Validate(doc); err != nil {
		verr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			result.AddError("/", schema.ErrCodeValidation, err.Error())
			return result
		}
		for _, violation := range collectViolations(verr) {
			result.AddError(violation.field, schema.ErrCodeValidation, violation.message)
		}
	}

	return result
}

type violation struct {
	field   string
	message string
}

// collectViolations walks a ValidationError tree and collects leaf error
// messages with their instance locations.
func collectViolations(verr *jsonschema.ValidationError) []violation {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []violation{{field: loc, message: verr.Error()}}
	}

	var out []violation
	for _, cause := range verr.Causes {
		out = append(out, collectViolations(cause)...)
	}
	return out
}

// toJSONValue round-trips a Go value through JSON encoding/decoding so that
// numeric values become json.Number (required by the jsonschema library).
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
}

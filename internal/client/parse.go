// internal/client/parse.go
package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// One schema per variant. Validation runs before decoding so a field with
// the wrong type surfaces as a SchemaError naming the offending path, not a
// half-populated struct.
const legacySchema = `{
	"type": "object",
	"required": ["recommended_assessments"],
	"properties": {
		"recommended_assessments": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "url", "test_type", "duration"],
				"properties": {
					"name": {"type": "string"},
					"url": {"type": "string"},
					"test_type": {"type": "array", "items": {"type": "string"}},
					"duration": {"type": "number"},
					"adaptive_support": {"type": "string"},
					"remote_support": {"type": "string"},
					"description": {"type": "string"}
				}
			}
		}
	}
}`

const scoredSchema = `{
	"type": "object",
	"required": ["recommendations"],
	"properties": {
		"recommendations": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "url", "test_type", "duration_mins", "relevance_score"],
				"properties": {
					"name": {"type": "string"},
					"url": {"type": "string"},
					"test_type": {"type": "string"},
					"duration_mins": {"type": "number"},
					"skills": {"type": "string"},
					"relevance_score": {"type": "number", "minimum": 0, "maximum": 1}
				}
			}
		}
	}
}`

var (
	legacyLoader = gojsonschema.NewStringLoader(legacySchema)
	scoredLoader = gojsonschema.NewStringLoader(scoredSchema)
)

// ParseResponse classifies the body by its top-level field and decodes it
// strictly. A body carrying neither known field is a SchemaError, never an
// empty result.
func ParseResponse(body []byte) (*Result, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, &SchemaError{Detail: fmt.Sprintf("body is not a JSON object: %v", err)}
	}

	switch {
	case hasKey(probe, string(VariantScored)):
		if err := validateAgainst(scoredLoader, body); err != nil {
			return nil, err
		}
		var resp struct {
			Recommendations []ScoredRecord `json:"recommendations"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, &SchemaError{Detail: err.Error()}
		}
		return &Result{Variant: VariantScored, Scored: resp.Recommendations}, nil

	case hasKey(probe, string(VariantLegacy)):
		if err := validateAgainst(legacyLoader, body); err != nil {
			return nil, err
		}
		var resp struct {
			Assessments []LegacyRecord `json:"recommended_assessments"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, &SchemaError{Detail: err.Error()}
		}
		return &Result{Variant: VariantLegacy, Legacy: resp.Assessments}, nil

	default:
		return nil, &SchemaError{Detail: "no recommendations or recommended_assessments field"}
	}
}

func hasKey(m map[string]json.RawMessage, key string) bool {
	_, ok := m[key]
	return ok
}

func validateAgainst(schema gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &SchemaError{Detail: err.Error()}
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return &SchemaError{Detail: strings.Join(violations, "; ")}
}

// internal/api/schema.go
package api

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// queryRequestSchema rejects malformed payloads before decoding. The query
// field must be present and a string; emptiness is checked after trimming.
const queryRequestSchema = `{
	"type": "object",
	"required": ["query"],
	"properties": {
		"query": {"type": "string"}
	}
}`

var queryRequestLoader = gojsonschema.NewStringLoader(queryRequestSchema)

// validateQueryRequest returns a joined description of every schema
// violation, or nil when the body is well-formed.
func validateQueryRequest(body []byte) error {
	result, err := gojsonschema.Validate(queryRequestLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("request is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return fmt.Errorf("%s", strings.Join(violations, "; "))
}

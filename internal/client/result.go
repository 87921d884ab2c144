// internal/client/result.go
package client

import "fmt"

// Variant identifies which response schema the server spoke.
type Variant string

const (
	// VariantLegacy carries records under "recommended_assessments".
	VariantLegacy Variant = "recommended_assessments"
	// VariantScored carries records under "recommendations".
	VariantScored Variant = "recommendations"
)

// LegacyRecord is one assessment in the legacy response shape.
type LegacyRecord struct {
	Name            string   `json:"name"`
	URL             string   `json:"url"`
	TestTypes       []string `json:"test_type"`
	DurationMins    float64  `json:"duration"`
	AdaptiveSupport string   `json:"adaptive_support"`
	RemoteSupport   string   `json:"remote_support"`
	Description     string   `json:"description"`
}

// ScoredRecord is one assessment in the scored response shape.
type ScoredRecord struct {
	Name           string  `json:"name"`
	URL            string  `json:"url"`
	TestType       string  `json:"test_type"`
	DurationMins   int     `json:"duration_mins"`
	Skills         string  `json:"skills"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Result is a successfully parsed response. Exactly one of the record
// slices is populated, per the Variant tag.
type Result struct {
	Variant Variant
	Legacy  []LegacyRecord
	Scored  []ScoredRecord
}

// Len counts the records regardless of variant.
func (r *Result) Len() int {
	if r.Variant == VariantLegacy {
		return len(r.Legacy)
	}
	return len(r.Scored)
}

// HealthStatus is the GET /health response.
type HealthStatus struct {
	Status             string `json:"status"`
	Service            string `json:"service"`
	AssessmentsLoaded  int    `json:"assessments_loaded"`
	Model              string `json:"model"`
	EmbeddingDimension int    `json:"embedding_dimension"`
}

// SchemaError means the response body did not match any known variant.
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unexpected response shape: %s", e.Detail)
}

// TransportError means the request never produced a usable response body:
// connection failure, timeout, or a non-2xx status.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport failure: %v", e.Err)
	}
	return fmt.Sprintf("transport failure: HTTP %d", e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// internal/api/models.go
package api

// QueryRequest is the POST /recommend payload.
type QueryRequest struct {
	Query string `json:"query"`
}

// AssessmentResponse is one ranked assessment in the response.
type AssessmentResponse struct {
	Name           string  `json:"name"`
	URL            string  `json:"url"`
	TestType       string  `json:"test_type"`
	DurationMins   int     `json:"duration_mins"`
	Skills         string  `json:"skills"`
	Description    string  `json:"description"`
	RelevanceScore float64 `json:"relevance_score"`
}

// RecommendationResponse is the POST /recommend response body.
type RecommendationResponse struct {
	Query           string               `json:"query"`
	Count           int                  `json:"count"`
	Recommendations []AssessmentResponse `json:"recommendations"`
}

// HealthResponse is the GET /health response body.
type HealthResponse struct {
	Status             string `json:"status"`
	Service            string `json:"service"`
	AssessmentsLoaded  int    `json:"assessments_loaded"`
	Model              string `json:"model"`
	EmbeddingDimension int    `json:"embedding_dimension"`
}

// ServiceInfo is the GET / response body.
type ServiceInfo struct {
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// ErrorResponse carries a failed request's detail message plus the
// structured error code for programmatic consumers.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
	Extra  string `json:"extra,omitempty"`
}

// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"assessment-recommender/internal/common/errors"
	"assessment-recommender/internal/common/metrics"
	"assessment-recommender/internal/recommender"
)

const serviceName = "Assessment Recommender"

// maxRequestBody caps /recommend payloads at 1 MiB. Queries are sentences,
// not documents.
const maxRequestBody = 1 << 20

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, r, errors.NewInvalidRequestError("method not allowed, use POST"), http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.writeError(w, r, errors.NewInvalidRequestError("failed to read request body"), 0)
		return
	}

	if err := validateQueryRequest(body); err != nil {
		s.writeError(w, r, errors.NewInvalidRequestError(err.Error()), 0)
		return
	}

	var req QueryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, errors.NewInvalidRequestError(err.Error()), 0)
		return
	}

	start := time.Now()
	results, err := s.service.Recommend(r.Context(), req.Query)
	if err != nil {
		stdErr := errors.Normalize(err)
		s.recordRecommend(r.Context(), "error", start)
		s.writeError(w, r, stdErr, 0)
		return
	}
	s.recordRecommend(r.Context(), "success", start)
	metrics.RecommendResultCount.Observe(float64(len(results)))

	s.writeJSON(w, http.StatusOK, toResponse(req.Query, results))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	engine := s.service.Engine()
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:             "healthy",
		Service:            serviceName,
		AssessmentsLoaded:  engine.Size(),
		Model:              engine.ModelID(),
		EmbeddingDimension: engine.Dimension(),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, http.StatusOK, ServiceInfo{
		Message: serviceName + " API",
		Status:  "active",
		Version: s.version,
		Endpoints: map[string]string{
			"health":    "/health",
			"recommend": "/recommend (POST)",
			"metrics":   "/metrics",
		},
	})
}

func toResponse(query string, results []recommender.Recommendation) RecommendationResponse {
	recs := make([]AssessmentResponse, 0, len(results))
	for _, r := range results {
		recs = append(recs, AssessmentResponse{
			Name:           r.Name,
			URL:            r.URL,
			TestType:       string(r.TestType),
			DurationMins:   r.DurationMins,
			Skills:         r.Skills,
			Description:    r.Description,
			RelevanceScore: round4(r.Score),
		})
	}
	return RecommendationResponse{
		Query:           query,
		Count:           len(recs),
		Recommendations: recs,
	}
}

// round4 keeps relevance scores at four decimal places on the wire.
func round4(f float64) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 4, 64), 64)
	if err != nil {
		return f
	}
	return v
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", map[string]interface{}{"error": err.Error()})
	}
}

// writeError renders a StandardError. A zero statusOverride defers to the
// error's own mapping.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, stdErr *errors.StandardError, statusOverride int) {
	status := stdErr.HTTPStatus()
	if statusOverride != 0 {
		status = statusOverride
	}

	s.logger.Warn("request failed", map[string]interface{}{
		"path":   r.URL.Path,
		"status": status,
		"code":   string(stdErr.Code),
		"detail": stdErr.Message,
	})

	s.writeJSON(w, status, ErrorResponse{
		Detail: stdErr.Message,
		Code:   string(stdErr.Code),
		Extra:  stdErr.Details,
	})
}

func (s *Server) recordRecommend(ctx context.Context, status string, start time.Time) {
	elapsed := time.Since(start)
	metrics.RecommendRequests.WithLabelValues(status).Inc()
	metrics.RecommendDuration.WithLabelValues(status).Observe(elapsed.Seconds())
	if s.obs != nil {
		s.obs.RecordRequest(ctx, "/recommend", status)
		s.obs.RecordRequestDuration(ctx, "/recommend", elapsed)
	}
}

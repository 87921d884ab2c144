// internal/api/handlers_test.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessment-recommender/internal/catalog"
	"assessment-recommender/internal/common/config"
	"assessment-recommender/internal/common/logger"
	"assessment-recommender/internal/index"
	"assessment-recommender/internal/recommender"
)

// stubEmbedder hands back one fixed vector for any query.
type stubEmbedder struct {
	vec []float32
}

func (s *stubEmbedder) EmbedText(context.Context, string) ([]float32, error) {
	return s.vec, nil
}

func (s *stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = s.vec
	}
	return out, nil
}

func (s *stubEmbedder) Dimension() int  { return len(s.vec) }
func (s *stubEmbedder) ModelID() string { return "sentence-transformers/all-MiniLM-L6-v2" }
func (s *stubEmbedder) Close() error    { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	assessments := []catalog.Assessment{
		{ID: 1, Name: "Java 8 New", URL: "https://x/java/", TestType: catalog.TypeKnowledge, DurationMins: 35, Skills: "Java", Description: "Java test"},
		{ID: 2, Name: "OPQ Personality", URL: "https://x/opq/", TestType: catalog.TypePersonality, DurationMins: 25, Skills: "General Skills", Description: "Personality test"},
		{ID: 3, Name: "Numerical Reasoning", URL: "https://x/numerical/", TestType: catalog.TypeAbility, DurationMins: 30, Skills: "Analytical Thinking", Description: "Ability test"},
	}

	ix := index.NewInMemoryIndex()
	ix.Replace([]index.Item{
		{ID: 1, Vector: []float32{1, 0, 0}},
		{ID: 2, Vector: []float32{0, 1, 0}},
		{ID: 3, Vector: []float32{0, 0, 1}},
	})

	emb := &stubEmbedder{vec: []float32{0.9, 0.5, 0.1}}
	cfg := config.RecommenderConfig{TopK: 10, MinResults: 5, DurationRelaxMins: 10, EntryLevelBoost: 0.1}
	engine := recommender.NewEngine(cfg, logger.NewTestLogger(t), emb, ix, assessments)
	svc := recommender.NewService(engine, nil, 0, logger.NewTestLogger(t))

	return NewServer(config.ServerConfig{Address: ":0"}, "1.0.0", logger.NewTestLogger(t), svc, nil)
}

func postRecommend(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestRecommendEndpoint_RanksAssessments(t *testing.T) {
	srv := newTestServer(t)

	w := postRecommend(t, srv, `{"query": "Java developer"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "Java developer", resp.Query)
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Recommendations, 3)
	assert.Equal(t, "Java 8 New", resp.Recommendations[0].Name)
	assert.Equal(t, "K", resp.Recommendations[0].TestType)
	assert.InDelta(t, 0.9, resp.Recommendations[0].RelevanceScore, 1e-4)
}

func TestRecommendEndpoint_EmptyQuery(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{`{"query": ""}`, `{"query": "   "}`} {
		w := postRecommend(t, srv, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Query cannot be empty", resp.Detail)
	}
}

func TestRecommendEndpoint_MissingQueryField(t *testing.T) {
	srv := newTestServer(t)

	w := postRecommend(t, srv, `{"q": "java"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
}

func TestRecommendEndpoint_MalformedJSON(t *testing.T) {
	srv := newTestServer(t)

	w := postRecommend(t, srv, `{"query": `)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendEndpoint_QueryWrongType(t *testing.T) {
	srv := newTestServer(t)

	w := postRecommend(t, srv, `{"query": 42}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendEndpoint_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/recommend", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 3, resp.AssessmentsLoaded)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", resp.Model)
	assert.Equal(t, 3, resp.EmbeddingDimension)
}

func TestRootEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ServiceInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "/recommend (POST)", resp.Endpoints["recommend"])
}

func TestUnknownPathReturns404(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestIDHeaderEchoed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

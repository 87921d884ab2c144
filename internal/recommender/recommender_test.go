// internal/recommender/recommender_test.go
package recommender

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessment-recommender/internal/catalog"
	"assessment-recommender/internal/common/config"
	"assessment-recommender/internal/common/errors"
	"assessment-recommender/internal/common/logger"
	"assessment-recommender/internal/index"
)

// mapEmbedder returns pre-baked vectors per query, letting tests pin the
// similarity each assessment gets.
type mapEmbedder struct {
	vectors map[string][]float32
	dim     int
}

func (m *mapEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return make([]float32, m.dim), nil
}

func (m *mapEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := m.EmbedText(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *mapEmbedder) Dimension() int  { return m.dim }
func (m *mapEmbedder) ModelID() string { return "test-model" }
func (m *mapEmbedder) Close() error    { return nil }

// testCatalog builds assessments whose index vectors are unit axes, so a
// query vector's i-th component is exactly assessment i+1's similarity.
func testCatalog() []catalog.Assessment {
	return []catalog.Assessment{
		{ID: 1, Name: "Java 8 New", URL: "https://x/java-8-new/", TestType: catalog.TypeKnowledge, DurationMins: 35, Skills: "Java"},
		{ID: 2, Name: "Python Entry Level", URL: "https://x/python-entry/", TestType: catalog.TypeKnowledge, DurationMins: 30, Skills: "Python"},
		{ID: 3, Name: "OPQ Personality", URL: "https://x/opq/", TestType: catalog.TypePersonality, DurationMins: 25, Skills: "General Skills"},
		{ID: 4, Name: "Teamwork Styles", URL: "https://x/teamwork/", TestType: catalog.TypePersonality, DurationMins: 20, Skills: "Teamwork"},
		{ID: 5, Name: "Inductive Reasoning", URL: "https://x/inductive/", TestType: catalog.TypeAbility, DurationMins: 40, Skills: "Analytical Thinking"},
		{ID: 6, Name: "Sales Sift Out", URL: "https://x/sales-sift/", TestType: catalog.TypeBiodata, DurationMins: 20, Skills: "Sales"},
		{ID: 7, Name: "SQL Server Advanced", URL: "https://x/sql-advanced/", TestType: catalog.TypeKnowledge, DurationMins: 60, Skills: "SQL"},
	}
}

func axisItems(n int) []index.Item {
	items := make([]index.Item, n)
	for i := 0; i < n; i++ {
		vec := make([]float32, n)
		vec[i] = 1
		items[i] = index.Item{ID: i + 1, Vector: vec}
	}
	return items
}

func testConfig() config.RecommenderConfig {
	return config.RecommenderConfig{
		TopK:              10,
		MinResults:        5,
		DurationRelaxMins: 10,
		EntryLevelBoost:   0.1,
	}
}

func newTestEngine(t *testing.T, vectors map[string][]float32) *Engine {
	t.Helper()
	assessments := testCatalog()
	ix := index.NewInMemoryIndex()
	ix.Replace(axisItems(len(assessments)))
	emb := &mapEmbedder{vectors: vectors, dim: len(assessments)}
	return NewEngine(testConfig(), logger.NewTestLogger(t), emb, ix, assessments)
}

func TestRecommend_RanksBySimilarity(t *testing.T) {
	engine := newTestEngine(t, map[string][]float32{
		"database administrator": {0.2, 0.1, 0.05, 0.04, 0.03, 0.02, 0.9},
	})

	got, err := engine.Recommend(context.Background(), "database administrator")
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.Equal(t, "SQL Server Advanced", got[0].Name)
	assert.Equal(t, "Java 8 New", got[1].Name)
	assert.InDelta(t, 0.9, got[0].Score, 1e-6)
}

func TestRecommend_EmptyQueryRejected(t *testing.T) {
	engine := newTestEngine(t, nil)

	_, err := engine.Recommend(context.Background(), "   ")

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeEmptyQuery, stdErr.Code)
}

func TestRecommend_DurationFilterStrict(t *testing.T) {
	engine := newTestEngine(t, map[string][]float32{
		"screening under 30 minutes": {0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.95},
	})

	got, err := engine.Recommend(context.Background(), "screening under 30 minutes")
	require.NoError(t, err)

	// Strict cut keeps the four <=30 min tests, under MinResults, so the
	// limit relaxes to 40 and admits the 35 and 40 minute tests too.
	names := resultNames(got)
	assert.NotContains(t, names, "SQL Server Advanced")
	assert.Contains(t, names, "Java 8 New")
	assert.Contains(t, names, "Inductive Reasoning")
}

func TestRecommend_DurationFilterKeepsStrictWhenEnough(t *testing.T) {
	engine := newTestEngine(t, map[string][]float32{
		"quick check 40 minutes max": {0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.95},
	})

	got, err := engine.Recommend(context.Background(), "quick check 40 minutes max")
	require.NoError(t, err)

	// Six tests run 40 minutes or less, enough to satisfy the strict cut.
	names := resultNames(got)
	assert.NotContains(t, names, "SQL Server Advanced")
	assert.Len(t, got, 6)
}

func TestRecommend_EntryLevelBoostReorders(t *testing.T) {
	engine := newTestEngine(t, map[string][]float32{
		"graduate hiring": {0.55, 0.5, 0.1, 0.1, 0.1, 0.1, 0.1},
	})

	got, err := engine.Recommend(context.Background(), "graduate hiring")
	require.NoError(t, err)

	// Python Entry Level starts behind Java but the 0.1 boost flips them.
	assert.Equal(t, "Python Entry Level", got[0].Name)
	assert.InDelta(t, 0.6, got[0].Score, 1e-6)
	assert.Equal(t, "Java 8 New", got[1].Name)
}

func TestRecommend_BalancedMixesKnowledgeAndPersonality(t *testing.T) {
	// Tech plus soft keywords force balancing. Personality tests score low
	// but must still appear alongside the knowledge tests.
	engine := newTestEngine(t, map[string][]float32{
		"Java developer with communication skills": {0.9, 0.8, 0.2, 0.15, 0.5, 0.4, 0.7},
	})

	got, err := engine.Recommend(context.Background(), "Java developer with communication skills")
	require.NoError(t, err)

	names := resultNames(got)
	assert.Contains(t, names, "OPQ Personality")
	assert.Contains(t, names, "Teamwork Styles")
	// Ability and blended tests drop out of a tech+soft balance.
	assert.NotContains(t, names, "Inductive Reasoning")
	assert.NotContains(t, names, "Sales Sift Out")
	// Still sorted by score after the balance.
	assert.Equal(t, "Java 8 New", got[0].Name)
}

func TestRecommend_BalancedIncludesAbilityForCognitiveQueries(t *testing.T) {
	engine := newTestEngine(t, map[string][]float32{
		"python developer aptitude screening": {0.9, 0.8, 0.2, 0.15, 0.6, 0.4, 0.7},
	})

	got, err := engine.Recommend(context.Background(), "python developer aptitude screening")
	require.NoError(t, err)

	assert.Contains(t, resultNames(got), "Inductive Reasoning")
}

func TestRecommend_IndexNotReady(t *testing.T) {
	emb := &mapEmbedder{dim: 3}
	engine := NewEngine(testConfig(), logger.NewTestLogger(t), emb, index.NewInMemoryIndex(), nil)

	_, err := engine.Recommend(context.Background(), "anything")

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeIndexNotReady, stdErr.Code)
}

func TestRecommend_CapsAtTopK(t *testing.T) {
	assessments := make([]catalog.Assessment, 15)
	for i := range assessments {
		assessments[i] = catalog.Assessment{
			ID:           i + 1,
			Name:         "Test",
			URL:          "https://x/" + string(rune('a'+i)) + "/",
			TestType:     catalog.TypeKnowledge,
			DurationMins: 30,
		}
	}
	ix := index.NewInMemoryIndex()
	ix.Replace(axisItems(len(assessments)))
	vec := make([]float32, len(assessments))
	for i := range vec {
		vec[i] = float32(len(assessments)-i) / float32(len(assessments))
	}
	emb := &mapEmbedder{vectors: map[string][]float32{"broad role": vec}, dim: len(assessments)}
	engine := NewEngine(testConfig(), logger.NewTestLogger(t), emb, ix, assessments)

	got, err := engine.Recommend(context.Background(), "broad role")
	require.NoError(t, err)

	assert.Len(t, got, 10)
}

func resultNames(recs []Recommendation) []string {
	names := make([]string, 0, len(recs))
	for _, r := range recs {
		names = append(names, r.Name)
	}
	return names
}

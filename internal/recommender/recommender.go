// internal/recommender/recommender.go
package recommender

import (
	"context"
	"sort"
	"strings"

	"assessment-recommender/internal/catalog"
	"assessment-recommender/internal/common/config"
	"assessment-recommender/internal/common/errors"
	"assessment-recommender/internal/common/logger"
	"assessment-recommender/internal/embedding"
	"assessment-recommender/internal/index"
)

// Recommendation pairs an assessment with its relevance score for a query.
type Recommendation struct {
	catalog.Assessment
	Score float64 `json:"relevance_score"`
}

// Engine ranks the catalog against a query: semantic similarity first, then
// duration filtering, entry-level boosting and type balancing on top.
type Engine struct {
	cfg      config.RecommenderConfig
	logger   logger.Logger
	embedder embedding.Embedder
	index    index.VectorIndex
	byID     map[int]catalog.Assessment
	size     int
}

func NewEngine(cfg config.RecommenderConfig, log logger.Logger, embedder embedding.Embedder, ix index.VectorIndex, assessments []catalog.Assessment) *Engine {
	byID := make(map[int]catalog.Assessment, len(assessments))
	for _, a := range assessments {
		byID[a.ID] = a
	}
	return &Engine{
		cfg:      cfg,
		logger:   log,
		embedder: embedder,
		index:    ix,
		byID:     byID,
		size:     len(assessments),
	}
}

// Size reports how many assessments the engine ranks over.
func (e *Engine) Size() int { return e.size }

// ModelID reports the embedding model backing the engine.
func (e *Engine) ModelID() string { return e.embedder.ModelID() }

// Dimension reports the embedding dimension backing the engine.
func (e *Engine) Dimension() int { return e.embedder.Dimension() }

// Recommend returns between MinResults and TopK assessments for the query,
// balanced across test types when the query mixes skill classes.
func (e *Engine) Recommend(ctx context.Context, query string) ([]Recommendation, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.NewEmptyQueryError()
	}
	if e.index.Size() == 0 {
		return nil, errors.NewIndexNotReadyError()
	}

	reqs := ParseQuery(query)

	queryVec, err := e.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, errors.NewEmbeddingFailedError(err)
	}

	ranked := e.rankAll(queryVec)
	ranked = e.filterByDuration(ranked, reqs)

	if reqs.IsEntryLevel {
		boostEntryLevel(ranked, e.cfg.EntryLevelBoost)
	}
	sortByScore(ranked)

	if reqs.NeedsBalanced {
		ranked = balanceTypes(ranked, reqs.NeedsCognitive)
	}

	finalCount := len(ranked)
	if finalCount > e.cfg.TopK {
		finalCount = e.cfg.TopK
	}
	results := ranked[:finalCount]

	e.logger.Debug("ranked recommendations", map[string]interface{}{
		"query":          query,
		"candidates":     len(ranked),
		"returned":       len(results),
		"max_duration":   reqs.MaxDurationMins,
		"needs_balanced": reqs.NeedsBalanced,
	})
	return results, nil
}

// RankAllURLs returns every catalog URL ordered by raw similarity to the
// query, skipping the duration, boost and balance stages. The evaluator
// uses it to backfill sparse prediction sets.
func (e *Engine) RankAllURLs(ctx context.Context, query string) ([]string, error) {
	queryVec, err := e.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, errors.NewEmbeddingFailedError(err)
	}
	ranked := e.rankAll(queryVec)
	urls := make([]string, 0, len(ranked))
	for _, r := range ranked {
		urls = append(urls, r.URL)
	}
	return urls, nil
}

// rankAll scores every assessment against the query vector, best first.
func (e *Engine) rankAll(queryVec []float32) []Recommendation {
	hits := e.index.Search(queryVec, 0)
	ranked := make([]Recommendation, 0, len(hits))
	for _, hit := range hits {
		a, ok := e.byID[hit.ID]
		if !ok {
			continue
		}
		ranked = append(ranked, Recommendation{Assessment: a, Score: hit.Score})
	}
	return ranked
}

// filterByDuration keeps assessments within the requested limit, relaxing it
// by DurationRelaxMins when the strict cut leaves too few candidates.
func (e *Engine) filterByDuration(ranked []Recommendation, reqs Requirements) []Recommendation {
	if reqs.MaxDurationMins <= 0 {
		return ranked
	}

	strict := withinDuration(ranked, reqs.MaxDurationMins)
	if len(strict) >= e.cfg.MinResults {
		return strict
	}
	return withinDuration(ranked, reqs.MaxDurationMins+e.cfg.DurationRelaxMins)
}

func withinDuration(ranked []Recommendation, limit int) []Recommendation {
	kept := make([]Recommendation, 0, len(ranked))
	for _, r := range ranked {
		if r.DurationMins <= limit {
			kept = append(kept, r)
		}
	}
	return kept
}

func boostEntryLevel(ranked []Recommendation, boost float64) {
	for i := range ranked {
		name := strings.ToLower(ranked[i].Name)
		if strings.Contains(name, "entry") || strings.Contains(name, "graduate") || strings.Contains(name, "junior") {
			ranked[i].Score += boost
		}
	}
}

// balanceTypes mixes the top knowledge and personality assessments, plus the
// top ability ones when the query asks for cognitive skills, deduplicated by
// URL and re-ranked by score.
func balanceTypes(ranked []Recommendation, needsCognitive bool) []Recommendation {
	balanced := topByType(ranked, catalog.TypeKnowledge, 5)
	balanced = append(balanced, topByType(ranked, catalog.TypePersonality, 5)...)
	if needsCognitive {
		balanced = append(balanced, topByType(ranked, catalog.TypeAbility, 3)...)
	}

	seen := make(map[string]bool, len(balanced))
	deduped := balanced[:0]
	for _, r := range balanced {
		if seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		deduped = append(deduped, r)
	}
	sortByScore(deduped)
	return deduped
}

func topByType(ranked []Recommendation, tt catalog.TestType, limit int) []Recommendation {
	top := make([]Recommendation, 0, limit)
	for _, r := range ranked {
		if r.TestType != tt {
			continue
		}
		top = append(top, r)
		if len(top) == limit {
			break
		}
	}
	return top
}

func sortByScore(ranked []Recommendation) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
}

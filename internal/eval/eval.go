// internal/eval/eval.go
package eval

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"assessment-recommender/internal/common/logger"
	"assessment-recommender/internal/recommender"
)

// LabeledQuery is one ground-truth pair: a query and a relevant URL.
type LabeledQuery struct {
	Query string
	URL   string
}

// QueryRecall is the per-query evaluation outcome.
type QueryRecall struct {
	Query     string
	Truth     int
	Predicted int
	Matches   int
	Recall    float64
}

// Report aggregates recall over every unique query in the labeled set.
type Report struct {
	K          int
	PerQuery   []QueryRecall
	MeanRecall float64
}

// Recommender is the slice of the engine the evaluator needs.
type Recommender interface {
	Recommend(ctx context.Context, query string) ([]recommender.Recommendation, error)
}

type Evaluator struct {
	rec    Recommender
	logger logger.Logger
}

func NewEvaluator(rec Recommender, log logger.Logger) *Evaluator {
	return &Evaluator{rec: rec, logger: log}
}

// RecallAtK computes Mean Recall@K over labeled data, grouping labels by
// query. A query's recall is the fraction of its ground-truth URLs that
// appear in the top K predictions.
func (e *Evaluator) RecallAtK(ctx context.Context, labeled []LabeledQuery, k int) (*Report, error) {
	truthByQuery := make(map[string]map[string]bool)
	order := make([]string, 0)
	for _, l := range labeled {
		if truthByQuery[l.Query] == nil {
			truthByQuery[l.Query] = make(map[string]bool)
			order = append(order, l.Query)
		}
		truthByQuery[l.Query][l.URL] = true
	}

	report := &Report{K: k}
	var total float64
	for _, query := range order {
		truth := truthByQuery[query]

		recs, err := e.rec.Recommend(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("recommend for %q: %w", query, err)
		}
		if len(recs) > k {
			recs = recs[:k]
		}

		matches := 0
		seen := make(map[string]bool, len(recs))
		for _, r := range recs {
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			if truth[r.URL] {
				matches++
			}
		}

		recall := 0.0
		if len(truth) > 0 {
			recall = float64(matches) / float64(len(truth))
		}
		total += recall

		report.PerQuery = append(report.PerQuery, QueryRecall{
			Query:     query,
			Truth:     len(truth),
			Predicted: len(seen),
			Matches:   matches,
			Recall:    recall,
		})
		e.logger.Info("query evaluated", map[string]interface{}{
			"query":   query,
			"truth":   len(truth),
			"matches": matches,
			"recall":  recall,
		})
	}

	if len(report.PerQuery) > 0 {
		report.MeanRecall = total / float64(len(report.PerQuery))
	}
	return report, nil
}

// Predict builds the submission rows for a set of test queries: between 5
// and 10 unique URLs per query, backfilled from the global ranking when the
// balanced pipeline returns fewer than 5.
func (e *Evaluator) Predict(ctx context.Context, queries []string, backfill GlobalRanker) ([]LabeledQuery, error) {
	var rows []LabeledQuery
	for _, query := range queries {
		urls, err := e.predictOne(ctx, query, backfill)
		if err != nil {
			return nil, err
		}
		for _, url := range urls {
			rows = append(rows, LabeledQuery{Query: query, URL: url})
		}
	}
	return rows, nil
}

// GlobalRanker returns every catalog URL ordered by raw similarity to the
// query, ignoring filters and balancing.
type GlobalRanker interface {
	RankAllURLs(ctx context.Context, query string) ([]string, error)
}

func (e *Evaluator) predictOne(ctx context.Context, query string, backfill GlobalRanker) ([]string, error) {
	recs, err := e.rec.Recommend(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("recommend for %q: %w", query, err)
	}

	seen := make(map[string]bool)
	urls := make([]string, 0, 10)
	for _, r := range recs {
		if seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		urls = append(urls, r.URL)
	}

	if len(urls) < 5 && backfill != nil {
		ranked, err := backfill.RankAllURLs(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("backfill for %q: %w", query, err)
		}
		for _, url := range ranked {
			if seen[url] {
				continue
			}
			seen[url] = true
			urls = append(urls, url)
			if len(urls) >= 10 {
				break
			}
		}
	}

	if len(urls) > 10 {
		urls = urls[:10]
	}
	return urls, nil
}

// LoadLabeledCSV reads rows with Query and Assessment_url columns.
func LoadLabeledCSV(path string) ([]LabeledQuery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"Query", "Assessment_url"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("labeled csv missing column %q", required)
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	labeled := make([]LabeledQuery, 0, len(rows))
	for _, row := range rows {
		labeled = append(labeled, LabeledQuery{
			Query: row[col["Query"]],
			URL:   row[col["Assessment_url"]],
		})
	}
	return labeled, nil
}

// LoadQueriesCSV reads the distinct queries from a CSV with a Query column,
// in first-seen order. Test sets carry no ground-truth URLs.
func LoadQueriesCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	queryCol := -1
	for i, name := range header {
		if name == "Query" {
			queryCol = i
			break
		}
	}
	if queryCol < 0 {
		return nil, fmt.Errorf("queries csv missing column %q", "Query")
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	queries := make([]string, 0, len(rows))
	for _, row := range rows {
		q := row[queryCol]
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		queries = append(queries, q)
	}
	return queries, nil
}

// SavePredictionsCSV writes submission rows in Query,Assessment_url order.
func SavePredictionsCSV(path string, rows []LabeledQuery) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Query", "Assessment_url"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write([]string{row.Query, row.URL}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// UniqueQueries returns the distinct queries in first-seen order.
func UniqueQueries(labeled []LabeledQuery) []string {
	seen := make(map[string]bool)
	queries := make([]string, 0)
	for _, l := range labeled {
		if seen[l.Query] {
			continue
		}
		seen[l.Query] = true
		queries = append(queries, l.Query)
	}
	return queries
}

// ValidatePredictions checks every query got 5 to 10 unique URLs.
func ValidatePredictions(rows []LabeledQuery) []string {
	counts := make(map[string]map[string]bool)
	for _, row := range rows {
		if counts[row.Query] == nil {
			counts[row.Query] = make(map[string]bool)
		}
		counts[row.Query][row.URL] = true
	}

	var problems []string
	for query, urls := range counts {
		if len(urls) < 5 || len(urls) > 10 {
			problems = append(problems, fmt.Sprintf("%s: %d unique urls", query, len(urls)))
		}
	}
	sort.Strings(problems)
	return problems
}

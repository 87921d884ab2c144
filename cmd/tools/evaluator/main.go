// cmd/tools/evaluator/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"assessment-recommender/internal/catalog"
	"assessment-recommender/internal/common/config"
	"assessment-recommender/internal/common/logger"
	"assessment-recommender/internal/embedding"
	"assessment-recommender/internal/eval"
	"assessment-recommender/internal/index"
	"assessment-recommender/internal/recommender"
)

func main() {
	recallCmd := flag.NewFlagSet("recall", flag.ExitOnError)
	predictCmd := flag.NewFlagSet("predict", flag.ExitOnError)

	// Recall command flags
	labeledPath := recallCmd.String("labeled", "data/train.csv", "Labeled CSV with Query and Assessment_url columns")
	k := recallCmd.Int("k", 10, "Recall cutoff")
	recallConfig := recallCmd.String("config", "", "Config file (default: configs/config.yaml)")
	verbose := recallCmd.Bool("verbose", false, "Print per-query recall")

	// Predict command flags
	queriesPath := predictCmd.String("queries", "data/test.csv", "CSV with a Query column listing queries to predict for")
	outPath := predictCmd.String("out", "data/predictions.csv", "Output predictions CSV")
	predictConfig := predictCmd.String("config", "", "Config file (default: configs/config.yaml)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "recall":
		recallCmd.Parse(os.Args[2:])
		if err := recall(*recallConfig, *labeledPath, *k, *verbose); err != nil {
			fmt.Printf("Error computing recall: %v\n", err)
			os.Exit(1)
		}

	case "predict":
		predictCmd.Parse(os.Args[2:])
		if err := predict(*predictConfig, *queriesPath, *outPath); err != nil {
			fmt.Printf("Error generating predictions: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func recall(configPath, labeledPath string, k int, verbose bool) error {
	ctx := context.Background()

	engine, closeEngine, err := buildEngine(ctx, configPath)
	if err != nil {
		return err
	}
	defer closeEngine()

	labeled, err := eval.LoadLabeledCSV(labeledPath)
	if err != nil {
		return fmt.Errorf("failed to load labeled data: %w", err)
	}

	evaluator := eval.NewEvaluator(engine, toolLogger())
	report, err := evaluator.RecallAtK(ctx, labeled, k)
	if err != nil {
		return err
	}

	if verbose {
		for _, q := range report.PerQuery {
			fmt.Printf("  %-60s recall=%.4f (%d/%d)\n", q.Query, q.Recall, q.Matches, q.Truth)
		}
	}
	fmt.Printf("Queries evaluated: %d\n", len(report.PerQuery))
	fmt.Printf("Mean Recall@%d: %.4f\n", report.K, report.MeanRecall)
	return nil
}

func predict(configPath, queriesPath, outPath string) error {
	ctx := context.Background()

	engine, closeEngine, err := buildEngine(ctx, configPath)
	if err != nil {
		return err
	}
	defer closeEngine()

	queries, err := eval.LoadQueriesCSV(queriesPath)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	evaluator := eval.NewEvaluator(engine, toolLogger())
	rows, err := evaluator.Predict(ctx, queries, engine)
	if err != nil {
		return err
	}

	if problems := eval.ValidatePredictions(rows); len(problems) > 0 {
		for _, p := range problems {
			fmt.Printf("Warning: %s\n", p)
		}
	}

	if err := eval.SavePredictionsCSV(outPath, rows); err != nil {
		return fmt.Errorf("failed to write predictions: %w", err)
	}
	fmt.Printf("Wrote %d prediction rows for %d queries: %s\n", len(rows), len(queries), outPath)
	return nil
}

// buildEngine loads the catalog, embeds it, and returns a ready engine.
// The caller must invoke the returned cleanup.
func buildEngine(ctx context.Context, configPath string) (*recommender.Engine, func(), error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	assessments, err := catalog.NewCSVStore(cfg.Catalog.CSVPath).LoadAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(assessments) == 0 {
		return nil, nil, fmt.Errorf("catalog %s is empty", cfg.Catalog.CSVPath)
	}

	encoder, err := embedding.NewEncoder(cfg.Embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init embedder: %w", err)
	}

	var embedder embedding.Embedder = encoder
	if cfg.Embedder.CacheDir != "" {
		embedder, err = embedding.NewCachingEmbedder(encoder, cfg.Embedder.CacheDir)
		if err != nil {
			encoder.Close()
			return nil, nil, fmt.Errorf("failed to init embedding cache: %w", err)
		}
	}

	texts := make([]string, len(assessments))
	for i, a := range assessments {
		texts[i] = a.SearchText()
	}
	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		encoder.Close()
		return nil, nil, fmt.Errorf("failed to embed catalog: %w", err)
	}

	items := make([]index.Item, len(assessments))
	for i, a := range assessments {
		items[i] = index.Item{ID: a.ID, Vector: vectors[i]}
	}
	ix := index.NewInMemoryIndex()
	ix.Replace(items)

	engine := recommender.NewEngine(cfg.Recommender, toolLogger(), embedder, ix, assessments)
	return engine, func() { encoder.Close() }, nil
}

func toolLogger() logger.Logger {
	return logger.NewZapAdapter(logger.New("warn", "console"))
}

func help() {
	fmt.Print(`
Usage: evaluator <command> [flags]

Commands:
  recall   Compute Mean Recall@K against a labeled CSV
  predict  Generate prediction rows for a query set
  help     Show this help message

Examples:
  evaluator recall -labeled data/train.csv -k 10 -verbose
  evaluator predict -queries data/test.csv -out data/predictions.csv

Use 'evaluator <command> -h' for more information about a command.
` + "\n")
}

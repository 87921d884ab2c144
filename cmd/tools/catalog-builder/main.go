// cmd/tools/catalog-builder/main.go
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"assessment-recommender/internal/catalog"
	"assessment-recommender/internal/common/config"
	"assessment-recommender/internal/common/database"
)

func main() {
	buildCmd := flag.NewFlagSet("build", flag.ExitOnError)
	pushCmd := flag.NewFlagSet("push", flag.ExitOnError)

	// Build command flags
	urlsPath := buildCmd.String("urls", "", "Text file with one assessment URL per line")
	csvOut := buildCmd.String("csv", "", "Output CSV path (default: catalog.csv_path from config)")
	jsonOut := buildCmd.String("json", "", "Output JSON path (default: catalog.json_path from config)")
	buildConfig := buildCmd.String("config", "", "Config file (default: configs/config.yaml)")

	// Push command flags
	csvIn := pushCmd.String("csv", "data/assessments_enriched_db.csv", "Catalog CSV to push")
	configPath := pushCmd.String("config", "", "Config file with the PostgreSQL connection (default: configs/config.yaml)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		buildCmd.Parse(os.Args[2:])
		if *urlsPath == "" {
			fmt.Println("Error: -urls is required for build.")
			buildCmd.Usage()
			os.Exit(1)
		}
		if err := build(*buildConfig, *urlsPath, *csvOut, *jsonOut); err != nil {
			fmt.Printf("Error building catalog: %v\n", err)
			os.Exit(1)
		}

	case "push":
		pushCmd.Parse(os.Args[2:])
		if err := push(*csvIn, *configPath); err != nil {
			fmt.Printf("Error pushing catalog: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

// build enriches a raw URL list into the full catalog and writes it out.
// Output paths fall back to the catalog section of the config.
func build(configPath, urlsPath, csvOut, jsonOut string) error {
	if csvOut == "" || jsonOut == "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if csvOut == "" {
			csvOut = cfg.Catalog.CSVPath
		}
		if jsonOut == "" {
			jsonOut = cfg.Catalog.JSONPath
		}
	}

	urls, err := readURLs(urlsPath)
	if err != nil {
		return fmt.Errorf("failed to read urls: %w", err)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no urls found in %s", urlsPath)
	}

	assessments := catalog.BuildCatalog(urls)
	fmt.Printf("Enriched %d assessments from %d urls.\n", len(assessments), len(urls))

	store := catalog.NewCSVStore(csvOut)
	if err := store.SaveAll(assessments); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	fmt.Printf("Wrote catalog CSV: %s\n", csvOut)

	if jsonOut != "" {
		if err := catalog.SaveJSON(jsonOut, assessments); err != nil {
			return fmt.Errorf("failed to write json: %w", err)
		}
		fmt.Printf("Wrote catalog JSON: %s\n", jsonOut)
	}
	return nil
}

// push upserts a catalog CSV into the configured PostgreSQL database.
func push(csvIn, configPath string) error {
	ctx := context.Background()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	assessments, err := catalog.NewCSVStore(csvIn).LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(assessments) == 0 {
		return fmt.Errorf("catalog %s is empty", csvIn)
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pg.Close()

	if err := pg.Ping(ctx); err != nil {
		return fmt.Errorf("postgres unreachable: %w", err)
	}

	store := catalog.NewPostgresStore(pg.DB)
	if err := store.UpsertAll(ctx, assessments); err != nil {
		return fmt.Errorf("failed to upsert assessments: %w", err)
	}

	fmt.Printf("Upserted %d assessments into postgres.\n", len(assessments))
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// readURLs loads a URL list, skipping blank lines and # comments.
func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := make(map[string]bool)
	var urls []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

func help() {
	fmt.Print(`
Usage: catalog-builder <command> [flags]

Commands:
  build  Enrich a raw URL list into the catalog CSV (and optional JSON)
  push   Upsert a catalog CSV into PostgreSQL
  help   Show this help message

Examples:
  catalog-builder build -urls data/assessment_urls.txt -csv data/assessments_enriched_db.csv -json data/assessments.json
  catalog-builder push -csv data/assessments_enriched_db.csv -config configs/config.yaml

Use 'catalog-builder <command> -h' for more information about a command.
` + "\n")
}

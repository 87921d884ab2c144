// internal/catalog/store.go
package catalog

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Store loads the assessment catalog from a backing source.
type Store interface {
	LoadAll(ctx context.Context) ([]Assessment, error)
}

// csvColumns is the fixed column layout of the enriched catalog file.
var csvColumns = []string{"id", "name", "url", "test_type", "duration_mins", "skills", "description"}

// CSVStore reads and writes the enriched catalog as a CSV file.
type CSVStore struct {
	Path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{Path: path}
}

// LoadAll reads every assessment record from the CSV file.
func (s *CSVStore) LoadAll(_ context.Context) ([]Assessment, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read catalog csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("catalog csv %s is empty", s.Path)
	}

	header := rows[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range csvColumns {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("catalog csv missing column %q", required)
		}
	}

	assessments := make([]Assessment, 0, len(rows)-1)
	for i, row := range rows[1:] {
		id, err := strconv.Atoi(row[col["id"]])
		if err != nil {
			return nil, fmt.Errorf("catalog csv row %d: bad id %q", i+2, row[col["id"]])
		}
		duration, err := strconv.Atoi(row[col["duration_mins"]])
		if err != nil {
			return nil, fmt.Errorf("catalog csv row %d: bad duration %q", i+2, row[col["duration_mins"]])
		}
		assessments = append(assessments, Assessment{
			ID:           id,
			Name:         row[col["name"]],
			URL:          row[col["url"]],
			TestType:     TestType(row[col["test_type"]]),
			DurationMins: duration,
			Skills:       row[col["skills"]],
			Description:  row[col["description"]],
		})
	}

	return assessments, nil
}

// SaveAll writes the catalog to the CSV file, creating parent directories.
func (s *CSVStore) SaveAll(assessments []Assessment) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("create catalog csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return err
	}
	for _, a := range assessments {
		record := []string{
			strconv.Itoa(a.ID),
			a.Name,
			a.URL,
			string(a.TestType),
			strconv.Itoa(a.DurationMins),
			a.Skills,
			a.Description,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// SaveJSON writes the catalog as an indented JSON array.
func SaveJSON(path string, assessments []Assessment) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(assessments, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

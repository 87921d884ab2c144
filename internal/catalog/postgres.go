// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore loads the catalog from the assessments table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectAssessments = `
	SELECT id, name, url, test_type, duration_mins, skills, description
	FROM assessments
	ORDER BY id`

// LoadAll reads every assessment record from PostgreSQL.
func (s *PostgresStore) LoadAll(ctx context.Context) ([]Assessment, error) {
	rows, err := s.db.QueryContext(ctx, selectAssessments)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var assessments []Assessment
	for rows.Next() {
		var a Assessment
		var testType string
		if err := rows.Scan(&a.ID, &a.Name, &a.URL, &testType, &a.DurationMins, &a.Skills, &a.Description); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		a.TestType = TestType(testType)
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}

	return assessments, nil
}

const upsertAssessment = `
	INSERT INTO assessments (id, name, url, test_type, duration_mins, skills, description)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (url) DO UPDATE SET
		name = EXCLUDED.name,
		test_type = EXCLUDED.test_type,
		duration_mins = EXCLUDED.duration_mins,
		skills = EXCLUDED.skills,
		description = EXCLUDED.description`

// UpsertAll writes the enriched catalog into PostgreSQL inside one transaction.
func (s *PostgresStore) UpsertAll(ctx context.Context, assessments []Assessment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}

	for _, a := range assessments {
		if _, err := tx.ExecContext(ctx, upsertAssessment,
			a.ID, a.Name, a.URL, string(a.TestType), a.DurationMins, a.Skills, a.Description); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert assessment %q: %w", a.URL, err)
		}
	}

	return tx.Commit()
}

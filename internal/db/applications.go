package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Application Methods
// -----------------------------------------------------------------------------

const applicationColumns = `id, job_title, job_url, job_description, resume_file_path,
        fit_score, insights, created_at`

// SaveApplication inserts a new application and returns the stored record.
func (db *DB) SaveApplication(ctx context.Context, input *ApplicationCreateInput) (*Application, error) {
	insights := input.Insights
	if insights == nil {
		insights = []string{}
	}
	insightsJSON, err := json.Marshal(insights)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal insights: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO applications (id, job_title, job_url, job_description, resume_file_path, fit_score, insights)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+applicationColumns,
		uuid.New(), nullIfEmpty(input.JobTitle), nullIfEmpty(input.JobURL),
		nullIfEmpty(input.JobDescription), input.ResumeFilePath, input.FitScore, insightsJSON,
	)

	app, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("failed to save application: %w", err)
	}
	return app, nil
}

// GetApplication retrieves an application by ID. It returns nil, nil when none exists.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*Application, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`,
		id,
	)

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ListApplications returns applications newest first.
func (db *DB) ListApplications(ctx context.Context, limit, offset int) ([]Application, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// DeleteApplication removes an application and reports whether a row existed.
func (db *DB) DeleteApplication(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete application: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanApplication(row pgx.Row) (*Application, error) {
	var app Application
	var insightsJSON []byte

	if err := row.Scan(&app.ID, &app.JobTitle, &app.JobURL, &app.JobDescription,
		&app.ResumeFilePath, &app.FitScore, &insightsJSON, &app.CreatedAt); err != nil {
		return nil, err
	}

	app.Insights = []string{}
	if insightsJSON != nil {
		if err := json.Unmarshal(insightsJSON, &app.Insights); err != nil {
			return nil, fmt.Errorf("failed to decode insights: %w", err)
		}
	}
	return &app, nil
}

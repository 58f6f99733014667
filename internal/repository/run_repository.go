package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/trajectory-features/internal/models"
)

// RunRepository handles database operations for preprocessing runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run in running state.
func (r *RunRepository) Create(ctx context.Context, run models.Run) error {
	query := `
		INSERT INTO preprocess_runs (id, status, source_folder, files_total, params_json, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, run.ID, models.RunStatusRunning, run.SourceFolder,
		run.FilesTotal, run.ParamsJSON, run.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// UpdateProgress records how many files and rows a run has produced so far.
func (r *RunRepository) UpdateProgress(ctx context.Context, id string, filesProcessed, rowsWritten int) error {
	query := `
		UPDATE preprocess_runs
		SET files_processed = ?,
		    rows_written = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query, filesProcessed, rowsWritten, id)
	if err != nil {
		return fmt.Errorf("failed to update run progress: %w", err)
	}
	return nil
}

// MarkCompleted marks a run as completed
func (r *RunRepository) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	return r.finish(ctx, id, models.RunStatusCompleted, "", at)
}

// MarkFailed marks a run as failed with an error message
func (r *RunRepository) MarkFailed(ctx context.Context, id string, errorMsg string, at time.Time) error {
	return r.finish(ctx, id, models.RunStatusFailed, errorMsg, at)
}

func (r *RunRepository) finish(ctx context.Context, id, status, errorMsg string, at time.Time) error {
	query := `
		UPDATE preprocess_runs
		SET status = ?,
		    error_message = ?,
		    completed_at = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query, status, errorMsg, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark run %s: %w", status, err)
	}
	return nil
}

// GetByID retrieves a run; it returns nil when the run does not exist.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.Run, error) {
	query := `
		SELECT id, status, source_folder, files_total, files_processed, rows_written,
		       COALESCE(params_json, ''), COALESCE(error_message, ''), started_at, completed_at
		FROM preprocess_runs
		WHERE id = ?
	`

	var run models.Run
	var completedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.Status, &run.SourceFolder, &run.FilesTotal, &run.FilesProcessed,
		&run.RowsWritten, &run.ParamsJSON, &run.ErrorMessage, &run.StartedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	return &run, nil
}

package models

import "time"

// Run is one execution of the preprocessing job as recorded in the
// feature store.
type Run struct {
	ID             string     `json:"id" db:"id"`
	Status         string     `json:"status" db:"status"` // running, completed, failed
	SourceFolder   string     `json:"source_folder" db:"source_folder"`
	FilesTotal     int        `json:"files_total" db:"files_total"`
	FilesProcessed int        `json:"files_processed" db:"files_processed"`
	RowsWritten    int        `json:"rows_written" db:"rows_written"`
	ParamsJSON     string     `json:"params_json,omitempty" db:"params_json"`
	ErrorMessage   string     `json:"error_message,omitempty" db:"error_message"`
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// RunStatus constants
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

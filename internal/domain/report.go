package domain

import (
	"errors"
	"fmt"
	"time"
)

// RunReport summarizes one batch run for the notification topic and the
// status endpoint. Message is the human-readable form; the remaining fields
// are structured so consumers do not have to parse it.
type RunReport struct {
	RunID        string    `json:"run_id"`
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	Stage        Stage     `json:"stage,omitempty"`
	Source       SourceID  `json:"source,omitempty"`
	RowsMerged   int       `json:"rows_merged"`
	RowsAppended int       `json:"rows_appended"`
	FinishedAt   time.Time `json:"finished_at"`
}

// NewSuccessReport builds the report for a completed run.
func NewSuccessReport(runID string, merged, appended int) RunReport {
	msg := fmt.Sprintf("covid dataset updated: %d new rows appended", appended)
	if appended == 0 {
		msg = "covid dataset is up to date: no new rows to append"
	}
	return RunReport{
		RunID:        runID,
		Success:      true,
		Message:      msg,
		RowsMerged:   merged,
		RowsAppended: appended,
		FinishedAt:   clock.Now().UTC(),
	}
}

// NewFailureReport builds the report for an aborted run. When err is a
// StageError the stage and source are lifted into their own fields.
func NewFailureReport(runID string, err error) RunReport {
	report := RunReport{
		RunID:      runID,
		Message:    fmt.Sprintf("covid dataset update failed: %v", err),
		FinishedAt: clock.Now().UTC(),
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		report.Stage = stageErr.Stage
		report.Source = stageErr.Source
	}
	return report
}

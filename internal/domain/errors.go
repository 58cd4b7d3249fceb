package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Stage names the pipeline step an error originated from. It travels with
// every failure so the operator notification can say where a run died.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageSchema    Stage = "schema_validation"
	StageValues    Stage = "value_validation"
	StageNormalize Stage = "normalize"
	StageProject   Stage = "project"
	StageMerge     Stage = "merge"
	StagePersist   Stage = "persist"
	StageExport    Stage = "export"
	StageNotify    Stage = "notify"
)

// ErrEmptyFeed marks a fetch that returned HTTP 200 but no data rows,
// distinct from transport and status failures.
var ErrEmptyFeed = errors.New("feed returned no data rows")

// SchemaMismatchError reports a dataset whose columns satisfy neither
// supported shape. It carries the actual columns and both expected sets.
type SchemaMismatchError struct {
	Source  SourceID
	Columns []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf(
		"dataset %q columns [%s] match neither shape: want {%s} or {%s}",
		e.Source,
		strings.Join(e.Columns, ", "),
		strings.Join(ShapeCasesDeaths.RequiredColumns(), ", "),
		strings.Join(ShapeRecoveredByCountry.RequiredColumns(), ", "),
	)
}

// ValueValidationError reports the first row-level constraint violation in a
// dataset. Row is the zero-based data row index.
type ValueValidationError struct {
	Column string
	Row    int
	Reason string
}

func (e *ValueValidationError) Error() string {
	return fmt.Sprintf("row %d column %q: %s", e.Row, e.Column, e.Reason)
}

// EmptyCountryFilterError reports that no row of the country-scoped feed
// matched the configured country exactly.
type EmptyCountryFilterError struct {
	Country string
}

func (e *EmptyCountryFilterError) Error() string {
	return fmt.Sprintf("no rows match country %q", e.Country)
}

// DateParseError reports a date cell that does not parse as YYYY-MM-DD.
type DateParseError struct {
	Value string
	Row   int
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("row %d: date %q is not a valid YYYY-MM-DD date", e.Row, e.Value)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// DuplicateDateError reports two rows carrying the same date within one
// projected dataset. Duplicates fail hard instead of silently picking a row.
type DuplicateDateError struct {
	Date string
}

func (e *DuplicateDateError) Error() string {
	return fmt.Sprintf("duplicate date %s in source data", e.Date)
}

// MergeError reports a join that cannot produce a meaningful dataset.
type MergeError struct {
	Reason string
}

func (e *MergeError) Error() string {
	return "merge: " + e.Reason
}

// StageError wraps any pipeline failure with the stage it happened in and,
// when applicable, the source the stage was processing. The orchestrator
// attaches it; the caller decides what to do with the run.
type StageError struct {
	Stage  Stage
	Source SourceID
	Err    error
}

func (e *StageError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s (source %s): %v", e.Stage, e.Source, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

package domain

import (
	"fmt"
	"strconv"
	"time"
)

// ValidateValues checks every row of a shape-matched dataset against the
// shape's per-column constraints and fails on the first violation. A value is
// valid when it coerces cleanly to the required type; a null (missing or
// empty) cell never is. Validation reads through raw or normalized column
// names, so it can run before Normalize.
//
// For the country-scoped shape, country_region must be non-null on every row
// and the recovered count is only required on rows matching country exactly
// (case-sensitive); the off-country rows are discarded by projection anyway.
// At least one row must match or the whole dataset fails.
func ValidateValues(d *RawDataset, shape SchemaShape, country string) error {
	switch shape {
	case ShapeCasesDeaths:
		return validateCasesDeaths(d)
	case ShapeRecoveredByCountry:
		return validateRecoveredByCountry(d, country)
	default:
		return fmt.Errorf("unsupported shape %v", shape)
	}
}

func validateCasesDeaths(d *RawDataset) error {
	for i, row := range d.Rows {
		if err := requireDate(d, row, i); err != nil {
			return err
		}
		if err := requireCount(d, row, i, colCases); err != nil {
			return err
		}
		if err := requireCount(d, row, i, colDeaths); err != nil {
			return err
		}
	}
	return nil
}

func validateRecoveredByCountry(d *RawDataset, country string) error {
	matched := false
	for i, row := range d.Rows {
		if err := requireDate(d, row, i); err != nil {
			return err
		}
		value, ok := d.Cell(row, colCountry)
		if !ok {
			return &ValueValidationError{Column: colCountry, Row: i, Reason: "value is null"}
		}
		if value != country {
			continue
		}
		matched = true
		if err := requireNumber(d, row, i, colRecovered); err != nil {
			return err
		}
	}
	if !matched {
		return &EmptyCountryFilterError{Country: country}
	}
	return nil
}

func requireDate(d *RawDataset, row Row, i int) error {
	value, ok := d.Cell(row, colDate)
	if !ok {
		return &ValueValidationError{Column: colDate, Row: i, Reason: "value is null"}
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		return &ValueValidationError{
			Column: colDate,
			Row:    i,
			Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", value),
		}
	}
	return nil
}

// requireCount accepts values that coerce to a non-negative integer.
func requireCount(d *RawDataset, row Row, i int, column string) error {
	value, ok := d.Cell(row, column)
	if !ok {
		return &ValueValidationError{Column: column, Row: i, Reason: "value is null"}
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return &ValueValidationError{
			Column: column,
			Row:    i,
			Reason: fmt.Sprintf("%q is not a non-negative integer", value),
		}
	}
	return nil
}

// requireNumber accepts values that coerce to a non-negative number. The
// Johns Hopkins feed writes recovered counts as floats ("5.0").
func requireNumber(d *RawDataset, row Row, i int, column string) error {
	value, ok := d.Cell(row, column)
	if !ok {
		return &ValueValidationError{Column: column, Row: i, Reason: "value is null"}
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		return &ValueValidationError{
			Column: column,
			Row:    i,
			Reason: fmt.Sprintf("%q is not a non-negative number", value),
		}
	}
	return nil
}

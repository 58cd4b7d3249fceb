package domain

import (
	"strconv"
	"time"
)

// CaseDeathPoint is one projected day of the cases/deaths source.
type CaseDeathPoint struct {
	Date   time.Time
	Cases  int64
	Deaths int64
}

// RecoveredPoint is one projected day of the country-filtered recovered source.
type RecoveredPoint struct {
	Date      time.Time
	Recovered int64
}

// ProjectCasesDeaths reduces a normalized, validated cases/deaths dataset to
// its merge columns, retaining every row. A duplicate date fails the run
// rather than silently preferring one row.
func ProjectCasesDeaths(d *RawDataset) ([]CaseDeathPoint, error) {
	points := make([]CaseDeathPoint, 0, len(d.Rows))
	seen := make(map[string]bool, len(d.Rows))

	for _, row := range d.Rows {
		date, cases, deaths := row[colDate], row[colCases], row[colDeaths]
		if seen[date] {
			return nil, &DuplicateDateError{Date: date}
		}
		seen[date] = true

		points = append(points, CaseDeathPoint{
			Date:   mustParseDate(date),
			Cases:  mustParseCount(cases),
			Deaths: mustParseCount(deaths),
		})
	}

	subsetColumns(d, ShapeCasesDeaths)
	return points, nil
}

// ProjectRecovered filters a normalized, validated country-scoped dataset to
// rows matching country exactly, then reduces it to {date, recovered}. A
// missing recovered cell defaults to zero. Duplicate dates for the target
// country fail the run.
func ProjectRecovered(d *RawDataset, country string) ([]RecoveredPoint, error) {
	points := make([]RecoveredPoint, 0, len(d.Rows))
	seen := make(map[string]bool)
	kept := d.Rows[:0]

	for _, row := range d.Rows {
		if row[colCountry] != country {
			continue
		}
		date := row[colDate]
		if seen[date] {
			return nil, &DuplicateDateError{Date: date}
		}
		seen[date] = true

		recovered := int64(0)
		if v, ok := d.Cell(row, colRecovered); ok {
			recovered = mustParseNumber(v)
		}
		points = append(points, RecoveredPoint{
			Date:      mustParseDate(date),
			Recovered: recovered,
		})
		kept = append(kept, row)
	}

	d.Rows = kept
	subsetColumns(d, ShapeRecoveredByCountry)
	return points, nil
}

// subsetColumns trims the dataset to the shape's projection columns, keeping
// the in-place RawDataset consistent with the typed points.
func subsetColumns(d *RawDataset, shape SchemaShape) {
	var projection []string
	for _, spec := range shapeSpecs {
		if spec.shape == shape {
			projection = spec.projection
			break
		}
	}

	keep := make(map[string]bool, len(projection))
	for _, col := range projection {
		keep[col] = true
	}

	d.Columns = append([]string(nil), projection...)
	for _, row := range d.Rows {
		for col := range row {
			if !keep[col] {
				delete(row, col)
			}
		}
	}
}

// The must* helpers run on cells that validation has already coerced once;
// failures there mean a bug, so these fall back to zero values rather than
// re-reporting.

func mustParseDate(value string) time.Time {
	t, _ := time.Parse(DateLayout, value)
	return t
}

func mustParseCount(value string) int64 {
	n, _ := strconv.ParseInt(value, 10, 64)
	return n
}

func mustParseNumber(value string) int64 {
	f, _ := strconv.ParseFloat(value, 64)
	return int64(f)
}

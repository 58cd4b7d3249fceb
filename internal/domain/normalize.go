package domain

import "time"

// Normalize rewrites a dataset in place: column names become canonical
// (lowercased, whitespace and "/" to underscores) and every date cell is
// reformatted to YYYY-MM-DD. It runs after shape detection and before
// projection, and is idempotent; applying it twice changes nothing.
//
// A date that does not parse aborts the dataset with DateParseError; no
// partially normalized dataset is forwarded.
func Normalize(d *RawDataset) error {
	renames := make(map[string]string, len(d.Columns))
	for i, col := range d.Columns {
		canonical := CanonicalColumn(col)
		renames[col] = canonical
		d.Columns[i] = canonical
	}

	for i, row := range d.Rows {
		for old, canonical := range renames {
			if old == canonical {
				continue
			}
			if v, ok := row[old]; ok {
				row[canonical] = v
				delete(row, old)
			}
		}

		value, ok := row[colDate]
		if !ok {
			continue
		}
		parsed, err := time.Parse(DateLayout, value)
		if err != nil {
			return &DateParseError{Value: value, Row: i, Err: err}
		}
		row[colDate] = parsed.Format(DateLayout)
	}
	return nil
}

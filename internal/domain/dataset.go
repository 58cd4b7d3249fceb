package domain

import "strings"

// SourceID identifies one of the two configured feed sources. It is a label
// for logs, errors, and notifications only; pipeline behavior branches on the
// detected SchemaShape, never on the source id.
type SourceID string

const (
	// SourceNYT is the New York Times US aggregate feed (us.csv).
	SourceNYT SourceID = "nyt"
	// SourceJH is the Johns Hopkins multi-country combined time series.
	SourceJH SourceID = "jh"
)

// Row is one record of a raw feed, keyed by column name. Cell values are the
// strings read from the CSV; typing happens at validation and projection time
// via coercion. A missing key or an empty cell counts as null.
type Row map[string]string

// RawDataset is a fully materialized feed as produced by the fetch adapter.
// It lives for the duration of one pipeline run. Normalize and the projection
// functions mutate it in place; shape detection and value validation only read it.
type RawDataset struct {
	Source  SourceID
	Columns []string
	Rows    []Row
}

// Cell returns the value of the column whose canonical name matches name,
// resolving the raw header spelling if the dataset has not been normalized
// yet. The second return is false when the row has no such column or the
// cell is null.
func (d *RawDataset) Cell(row Row, name string) (string, bool) {
	for _, col := range d.Columns {
		if CanonicalColumn(col) != name {
			continue
		}
		v, ok := row[col]
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	}
	return "", false
}

// CanonicalColumn maps a raw CSV header to its canonical spelling: lowercased,
// trimmed, with internal whitespace and "/" replaced by underscores. The "/"
// mapping exists because the Johns Hopkins feed spells its country column
// "Country/Region".
func CanonicalColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "/", " ")
	return strings.Join(strings.Fields(name), "_")
}

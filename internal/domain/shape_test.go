package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDataset(source SourceID, columns []string, rows ...Row) *RawDataset {
	return &RawDataset{Source: source, Columns: columns, Rows: rows}
}

func TestDetectShape_CasesDeaths(t *testing.T) {
	cases := []struct {
		name    string
		columns []string
	}{
		{name: "exact", columns: []string{"date", "cases", "deaths"}},
		{name: "extra columns", columns: []string{"date", "cases", "deaths", "other"}},
		{name: "mixed case", columns: []string{"Date", "CASES", "Deaths"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shape, err := DetectShape(newDataset(SourceNYT, tc.columns))
			require.NoError(t, err)
			assert.Equal(t, ShapeCasesDeaths, shape)
		})
	}
}

func TestDetectShape_RecoveredByCountry(t *testing.T) {
	cases := []struct {
		name    string
		columns []string
	}{
		{name: "underscore header", columns: []string{"date", "country_region", "recovered"}},
		{name: "raw johns hopkins header", columns: []string{"Date", "Country/Region", "Province/State", "Lat", "Long", "Confirmed", "Recovered", "Deaths"}},
		{name: "spaced header", columns: []string{"date", "country region", "recovered", "other"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shape, err := DetectShape(newDataset(SourceJH, tc.columns))
			require.NoError(t, err)
			assert.Equal(t, ShapeRecoveredByCountry, shape)
		})
	}
}

func TestDetectShape_Mismatch(t *testing.T) {
	cases := []struct {
		name    string
		columns []string
	}{
		{name: "punctuated date column", columns: []string{"date!", "cases", "deaths"}},
		{name: "missing required column", columns: []string{"date", "cases", "columndoesnotexist"}},
		{name: "unrelated columns", columns: []string{"TEST1", "TEST2", "TEST3"}},
		{name: "date only", columns: []string{"date"}},
		{name: "empty", columns: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DetectShape(newDataset(SourceNYT, tc.columns))

			var mismatch *SchemaMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, SourceNYT, mismatch.Source)
			assert.Equal(t, tc.columns, mismatch.Columns)
		})
	}
}

func TestDetectShape_AmbiguousPrefersCasesDeaths(t *testing.T) {
	// Superset of both required sets; declaration order breaks the tie.
	columns := []string{"date", "cases", "deaths", "country_region", "recovered"}

	shape, err := DetectShape(newDataset(SourceNYT, columns))
	require.NoError(t, err)
	assert.Equal(t, ShapeCasesDeaths, shape)
}

func TestDetectShape_ErrorComparesWithErrorsAs(t *testing.T) {
	_, err := DetectShape(newDataset(SourceJH, []string{"nope"}))
	assert.True(t, errors.As(err, new(*SchemaMismatchError)))
	assert.Contains(t, err.Error(), "country_region")
}

func TestCanonicalColumn(t *testing.T) {
	cases := map[string]string{
		"Date":             "date",
		"  cases  ":        "cases",
		"Country/Region":   "country_region",
		"country region":   "country_region",
		"Country / Region": "country_region",
		"recovered":        "recovered",
	}
	for raw, want := range cases {
		assert.Equal(t, want, CanonicalColumn(raw), "raw header %q", raw)
	}
}

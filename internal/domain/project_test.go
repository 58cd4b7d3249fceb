package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(value string) time.Time {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestProjectCasesDeaths(t *testing.T) {
	ds := newDataset(SourceNYT,
		[]string{"date", "cases", "deaths", "other"},
		Row{"date": "2020-01-21", "cases": "1", "deaths": "0", "other": "x"},
		Row{"date": "2020-01-22", "cases": "2", "deaths": "1", "other": "y"},
	)
	require.NoError(t, Normalize(ds))

	points, err := ProjectCasesDeaths(ds)
	require.NoError(t, err)

	assert.Equal(t, []CaseDeathPoint{
		{Date: date("2020-01-21"), Cases: 1, Deaths: 0},
		{Date: date("2020-01-22"), Cases: 2, Deaths: 1},
	}, points)

	// Projection also trims the in-place dataset to merge columns.
	assert.Equal(t, []string{"date", "cases", "deaths"}, ds.Columns)
	assert.NotContains(t, ds.Rows[0], "other")
}

func TestProjectCasesDeaths_DuplicateDate(t *testing.T) {
	ds := newDataset(SourceNYT,
		[]string{"date", "cases", "deaths"},
		Row{"date": "2020-01-21", "cases": "1", "deaths": "0"},
		Row{"date": "2020-01-21", "cases": "2", "deaths": "0"},
	)
	require.NoError(t, Normalize(ds))

	_, err := ProjectCasesDeaths(ds)

	var dup *DuplicateDateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "2020-01-21", dup.Date)
}

func TestProjectRecovered_FiltersAndProjects(t *testing.T) {
	ds := newDataset(SourceJH,
		[]string{"Date", "Country/Region", "Recovered", "Lat"},
		Row{"Date": "2020-01-21", "Country/Region": "US", "Recovered": "0", "Lat": "37.1"},
		Row{"Date": "2020-01-21", "Country/Region": "CN", "Recovered": "5", "Lat": "35.9"},
		Row{"Date": "2020-01-22", "Country/Region": "US", "Recovered": "3.0", "Lat": "37.1"},
	)
	require.NoError(t, Normalize(ds))

	points, err := ProjectRecovered(ds, "US")
	require.NoError(t, err)

	assert.Equal(t, []RecoveredPoint{
		{Date: date("2020-01-21"), Recovered: 0},
		{Date: date("2020-01-22"), Recovered: 3},
	}, points)

	assert.Equal(t, []string{"date", "recovered"}, ds.Columns)
	assert.Len(t, ds.Rows, 2)
	assert.NotContains(t, ds.Rows[0], "country_region")
}

func TestProjectRecovered_MissingRecoveredDefaultsToZero(t *testing.T) {
	ds := newDataset(SourceJH,
		[]string{"date", "country_region", "recovered"},
		Row{"date": "2020-01-21", "country_region": "US"},
	)
	require.NoError(t, Normalize(ds))

	points, err := ProjectRecovered(ds, "US")
	require.NoError(t, err)
	assert.Equal(t, int64(0), points[0].Recovered)
}

func TestProjectRecovered_DuplicateDateForCountry(t *testing.T) {
	ds := newDataset(SourceJH,
		[]string{"date", "country_region", "recovered"},
		Row{"date": "2020-01-21", "country_region": "US", "recovered": "1"},
		Row{"date": "2020-01-21", "country_region": "US", "recovered": "2"},
	)
	require.NoError(t, Normalize(ds))

	_, err := ProjectRecovered(ds, "US")

	var dup *DuplicateDateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "2020-01-21", dup.Date)
}

func TestProjectRecovered_DuplicateDateOtherCountryIsFine(t *testing.T) {
	ds := newDataset(SourceJH,
		[]string{"date", "country_region", "recovered"},
		Row{"date": "2020-01-21", "country_region": "CN", "recovered": "1"},
		Row{"date": "2020-01-21", "country_region": "CN", "recovered": "2"},
		Row{"date": "2020-01-21", "country_region": "US", "recovered": "3"},
	)
	require.NoError(t, Normalize(ds))

	points, err := ProjectRecovered(ds, "US")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, int64(3), points[0].Recovered)
}

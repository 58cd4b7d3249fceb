// Package domain models the two public COVID-19 case-count feeds and the
// validation-and-merge pipeline that unifies them.
//
// # Data Sources
//
// The cases/deaths series comes from the New York Times US aggregate CSV
// (us.csv): one row per date with cumulative case and death counts. The
// recovered series comes from the Johns Hopkins combined time-series CSV:
// one row per date per country, with the country column spelled
// "Country/Region".
//
// # Feed Shapes
//
// A dataset is identified by which required column set its headers contain,
// matched case-insensitively with extra columns ignored:
//
//	cases_deaths:          date, cases, deaths
//	recovered_by_country:  date, country_region, recovered
//
// Cases/deaths wins when a column set satisfies both. Column names are
// canonicalized by lowercasing and mapping whitespace and "/" to underscores,
// so the raw Johns Hopkins header "Country/Region" becomes country_region.
//
// # Validation
//
// A cell is valid when it coerces cleanly to the required type: dates must
// parse as YYYY-MM-DD, case and death counts as non-negative integers, and
// recovered counts as non-negative numbers (the Johns Hopkins feed writes
// them as floats). Null means a missing column or an empty cell and is never
// valid. Country filtering is exact, case-sensitive equality; "us" or
// "United States of America" do not match "US".
//
// # Merge Semantics
//
// The join is keyed by date and anchored on the cases/deaths side: its dates
// define the output, a date without a recovery figure gets recovered = 0,
// and recovered-only dates are dropped. Duplicate dates within one projected
// source abort the run instead of silently preferring a row.
package domain

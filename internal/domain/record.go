package domain

import "time"

// DateLayout is the fixed calendar-date format both feeds use.
const DateLayout = "2006-01-02"

// CanonicalRecord is one day of the unified output, keyed by date.
type CanonicalRecord struct {
	Date      time.Time
	Cases     int64
	Deaths    int64
	Recovered int64
}

// CanonicalDataset is the pipeline's terminal artifact: one record per date,
// sorted ascending. The caller owns it after the pipeline returns.
type CanonicalDataset []CanonicalRecord

package domain

import "sort"

// Merge joins the two projections on date into the canonical output. The join
// is anchored on the cases/deaths side: every one of its dates appears exactly
// once in the output, dates known only to the recovered side are dropped, and
// a date without a recovery figure gets recovered = 0. The cases/deaths feed
// is the authoritative series; a lagging recovered feed must never cost a day
// of case data.
//
// Output is sorted ascending by date. An empty anchor, or a non-empty
// recovered side sharing no date with the anchor, is a MergeError.
func Merge(cases []CaseDeathPoint, recovered []RecoveredPoint) (CanonicalDataset, error) {
	if len(cases) == 0 {
		return nil, &MergeError{Reason: "cases/deaths projection is empty"}
	}

	recoveredByDate := make(map[string]int64, len(recovered))
	for _, p := range recovered {
		recoveredByDate[p.Date.Format(DateLayout)] = p.Recovered
	}

	merged := make(CanonicalDataset, 0, len(cases))
	overlap := 0
	for _, p := range cases {
		rec, ok := recoveredByDate[p.Date.Format(DateLayout)]
		if ok {
			overlap++
		}
		merged = append(merged, CanonicalRecord{
			Date:      p.Date,
			Cases:     p.Cases,
			Deaths:    p.Deaths,
			Recovered: rec,
		})
	}

	if len(recovered) > 0 && overlap == 0 {
		return nil, &MergeError{Reason: "no overlapping dates between the two sources"}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})
	return merged, nil
}

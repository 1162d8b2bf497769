// Package stats computes summary figures over the full dataset and the
// current view. Everything is recomputed from scratch per call; aggregation
// runs far less often than filtering or sorting, so incremental maintenance
// is not worth its complexity.
package stats

import (
	"time"

	"disclose/internal/record"
)

// UnknownFilingType buckets records with an empty filing type.
const UnknownFilingType = "Unknown"

// Summary is one aggregation pass over the dataset and view.
type Summary struct {
	Total    int
	Filtered int

	// HasDates distinguishes "no data" (empty dataset) from "no dates
	// available" (records exist, none with a valid filing date).
	HasDates       bool
	EarliestFiling time.Time
	LatestFiling   time.Time

	DistinctStates int
	ByFilingType   map[string]int
}

// Aggregate computes a Summary from the full dataset and the current view.
func Aggregate(dataset, view []record.Record) Summary {
	s := Summary{
		Total:        len(dataset),
		Filtered:     len(view),
		ByFilingType: make(map[string]int),
	}

	states := make(map[string]struct{})
	for _, r := range dataset {
		if r.HasFilingDate() {
			d := r.FilingDate
			if !s.HasDates || d.Before(s.EarliestFiling) {
				s.EarliestFiling = d
			}
			if !s.HasDates || d.After(s.LatestFiling) {
				s.LatestFiling = d
			}
			s.HasDates = true
		}

		if r.StateDst != "" {
			states[r.StateDst] = struct{}{}
		}

		ft := r.FilingType
		if ft == "" {
			ft = UnknownFilingType
		}
		s.ByFilingType[ft]++
	}
	s.DistinctStates = len(states)
	return s
}

// DateRangeText renders the filing-date range for display, covering the
// empty-dataset and no-valid-dates cases.
func (s Summary) DateRangeText() string {
	switch {
	case s.Total == 0:
		return "no data"
	case !s.HasDates:
		return "no dates available"
	}
	return s.EarliestFiling.Format("2006-01-02") + " to " + s.LatestFiling.Format("2006-01-02")
}

package query

import (
	"sort"
	"strconv"
	"strings"

	"disclose/internal/record"
)

// Direction orders a sorted view ascending or descending.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortState is the active sort column and direction. Without an active
// column the view stays in insertion order. It persists across filter
// changes so filtering reapplies the last sort.
type SortState struct {
	Column    record.Column
	HasColumn bool
	Direction Direction
}

// Sort orders view in place by the given column, stably, and returns the
// view. Precedence of the comparator rules:
//
//  1. absent values sort last in either direction
//  2. date columns compare by instant, raw-text fallback
//  3. numeric columns compare as integers when both sides parse
//  4. everything else compares case-insensitively as text
//
// Direction inverts comparisons between present values only; absent values
// stay pinned at the end, so sorting year descending over [2020, -, 2023]
// yields [2023, 2020, -].
//
// Sorting an already-sorted view by the same column and direction leaves the
// order unchanged.
func Sort(view []record.Record, col record.Column, dir Direction) []record.Record {
	sort.SliceStable(view, func(i, j int) bool {
		_, aok := value(view[i], col)
		_, bok := value(view[j], col)
		switch {
		case !aok && !bok:
			return false
		case !aok:
			return false
		case !bok:
			return true
		}

		c := compare(view[i], view[j], col)
		if dir == Descending {
			c = -c
		}
		return c < 0
	})
	return view
}

// compare returns the ascending-order comparison of a and b on col. Both
// sides are known to have a value.
func compare(a, b record.Record, col record.Column) int {
	av := a.Field(col)
	bv := b.Field(col)

	if col.IsDate() {
		if a.HasFilingDate() && b.HasFilingDate() {
			return a.FilingDate.Compare(b.FilingDate)
		}
		// At least one side has only raw text; compare what is displayed.
		return strings.Compare(av, bv)
	}

	if col.IsNumeric() {
		ai, aerr := strconv.Atoi(av)
		bi, berr := strconv.Atoi(bv)
		if aerr == nil && berr == nil {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			}
			return 0
		}
	}

	return strings.Compare(strings.ToLower(av), strings.ToLower(bv))
}

// value returns the comparable string for the column and whether the record
// has any value there at all.
func value(r record.Record, col record.Column) (string, bool) {
	switch {
	case col == record.ColYear:
		return r.YearText(), r.HasYear
	case col.IsDate():
		s := r.FilingDateText()
		return s, s != ""
	}
	s := r.Field(col)
	return s, s != ""
}

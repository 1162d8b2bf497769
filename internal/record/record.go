// Package record defines the typed model for one financial-disclosure
// filing and the derived search key used by the filter engine. Records are
// value objects: all derived state is computed at construction and never
// recomputed or mutated afterwards.
package record

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Year bounds for a plausible filing year. Values outside this range are
// retained as parsed but flagged so the caller can surface a warning.
const (
	MinYear = 1900
	MaxYear = 2100
)

// ErrNoName is returned when a record carries neither a last nor a first
// name. Such records are unusable for display or search and are dropped by
// ingestion.
var ErrNoName = errors.New("record has no last or first name")

// Fields is the raw, trimmed field set extracted from one record element.
type Fields struct {
	Prefix     string
	LastName   string
	FirstName  string
	Suffix     string
	FilingType string
	StateDst   string
	Year       string
	FilingDate string
	DocID      string
}

// Record is one validated disclosure filing.
//
// Year carries HasYear/YearFlagged rather than a pointer so the zero value
// stays comparable. FilingDate uses the zero time for "no valid date"; the
// original text survives in FilingDateRaw for display and export.
type Record struct {
	Prefix     string
	LastName   string
	FirstName  string
	Suffix     string
	FilingType string
	StateDst   string

	Year        int
	HasYear     bool
	YearFlagged bool

	FilingDate    time.Time
	FilingDateRaw string

	DocID string

	searchKey string
}

// New validates raw fields and constructs a Record. It fails only when both
// name fields are empty. Field-level anomalies (out-of-range year,
// unparsable date) never fail construction: the anomaly is recorded on the
// Record itself and the caller decides whether to warn.
func New(f Fields) (Record, error) {
	if f.LastName == "" && f.FirstName == "" {
		return Record{}, ErrNoName
	}

	r := Record{
		Prefix:        f.Prefix,
		LastName:      f.LastName,
		FirstName:     f.FirstName,
		Suffix:        f.Suffix,
		FilingType:    f.FilingType,
		StateDst:      f.StateDst,
		FilingDateRaw: f.FilingDate,
		DocID:         f.DocID,
	}

	if f.Year != "" {
		if y, err := strconv.Atoi(f.Year); err == nil {
			r.Year = y
			r.HasYear = true
			r.YearFlagged = y < MinYear || y > MaxYear
		} else {
			// Non-numeric year text: no value to keep, but flag it.
			r.YearFlagged = true
		}
	}

	if d, ok := ParseFilingDate(f.FilingDate); ok {
		r.FilingDate = d
	}

	r.searchKey = buildSearchKey(r)
	return r, nil
}

// buildSearchKey joins every displayable field with single spaces and
// lowercases the result. Space-joining lets a search term match across
// field boundaries ("smith ny").
func buildSearchKey(r Record) string {
	parts := []string{
		r.Prefix,
		r.LastName,
		r.FirstName,
		r.Suffix,
		r.FilingType,
		r.StateDst,
		r.YearText(),
		r.FilingDateRaw,
		r.DocID,
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// SearchKey returns the precomputed lowercase haystack for substring search.
func (r Record) SearchKey() string { return r.searchKey }

// HasFilingDate reports whether the record carries a validated calendar date.
func (r Record) HasFilingDate() bool { return !r.FilingDate.IsZero() }

// YearText returns the year as entered, or "" when absent.
func (r Record) YearText() string {
	if !r.HasYear {
		return ""
	}
	return strconv.Itoa(r.Year)
}

// FilingDateText returns the canonical YYYY-MM-DD form when a valid date
// exists, otherwise the raw text as a display fallback.
func (r Record) FilingDateText() string {
	if r.HasFilingDate() {
		return r.FilingDate.Format("2006-01-02")
	}
	return r.FilingDateRaw
}

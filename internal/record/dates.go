package record

import (
	"regexp"
	"strconv"
	"time"
)

// The source documents mix date formats, so parsing is a three-tier
// fallback: strict patterns with round-trip verification, then a
// best-effort pass over common layouts, then absent.

type strictPattern struct {
	re         *regexp.Regexp
	yi, mi, di int // capture-group indices for year/month/day
}

var strictPatterns = []strictPattern{
	{regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), 3, 1, 2}, // MM/DD/YYYY
	{regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`), 3, 1, 2}, // MM-DD-YYYY
	{regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`), 1, 2, 3}, // YYYY-MM-DD
}

// looseLayouts is the best-effort tier, tried only after every strict
// pattern has failed.
var looseLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006/01/02",
	"01/02/06",
	time.RFC3339,
}

// ParseFilingDate parses a filing-date string. It never fails loudly: the
// second return is false when no tier produced a valid calendar date.
func ParseFilingDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}

	for _, p := range strictPatterns {
		m := p.re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		y, _ := strconv.Atoi(m[p.yi])
		mo, _ := strconv.Atoi(m[p.mi])
		d, _ := strconv.Atoi(m[p.di])

		t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes out-of-range components (Feb 31 becomes
		// Mar 3), so verify the round trip to reject impossible dates.
		// A failed round trip falls through to the loose tier.
		if t.Year() == y && t.Month() == time.Month(mo) && t.Day() == d {
			return t, true
		}
		break
	}

	for _, layout := range looseLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

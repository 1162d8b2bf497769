// Package export renders the current view as a comma-separated table with
// the fixed nine-column disclosure header. Quoting follows the usual CSV
// contract: any field containing a comma, quote, or newline is wrapped in
// quotes with internal quotes doubled, which encoding/csv implements
// byte-exactly.
package export

import (
	"encoding/csv"
	"errors"
	"io"

	"disclose/internal/record"
)

// ErrEmptyView is reported before any output is produced when there is
// nothing to export.
var ErrEmptyView = errors.New("export: no records in current view")

// Header is the fixed column order of the export format.
var Header = []string{
	"Prefix", "Last Name", "First Name", "Suffix", "Filing Type",
	"State/District", "Year", "Filing Date", "Document ID",
}

// WriteCSV writes the view to w. Dates render as YYYY-MM-DD, falling back
// to the original raw text when no valid date exists.
func WriteCSV(w io.Writer, view []record.Record) error {
	if len(view) == 0 {
		return ErrEmptyView
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range view {
		row := []string{
			r.Prefix,
			r.LastName,
			r.FirstName,
			r.Suffix,
			r.FilingType,
			r.StateDst,
			r.YearText(),
			r.FilingDateText(),
			r.DocID,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

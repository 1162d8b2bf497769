// Package ingest turns the House Clerk's financial-disclosure index XML
// into a validated dataset. The document as a whole must be well-formed;
// individual records are extracted independently, so partial success is the
// normal case, not an exception path.
package ingest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"disclose/internal/record"
)

// ErrMalformedDocument marks a document-level parse failure. No partial
// dataset is produced when it is returned.
var ErrMalformedDocument = errors.New("ingest: malformed document")

// memberXML mirrors one <Member> element of the index document.
type memberXML struct {
	Prefix     string `xml:"Prefix"`
	Last       string `xml:"Last"`
	First      string `xml:"First"`
	Suffix     string `xml:"Suffix"`
	FilingType string `xml:"FilingType"`
	StateDst   string `xml:"StateDst"`
	Year       string `xml:"Year"`
	FilingDate string `xml:"FilingDate"`
	DocID      string `xml:"DocID"`
}

// Report summarizes one ingestion pass. LoadID correlates the pass's log
// lines.
type Report struct {
	LoadID   string
	Parsed   int
	Dropped  int
	Warnings []string
}

// Parser ingests disclosure documents.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a Parser. A nil logger falls back to a no-op.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// Parse reads the whole document from r and extracts every <Member>
// element. A record missing both name fields is dropped with a warning;
// field-level anomalies (out-of-range year, unparsable date) are flagged on
// the record and warned about, but the record is kept. Only a structurally
// broken document fails the load.
func (p *Parser) Parse(r io.Reader) ([]record.Record, Report, error) {
	report := Report{LoadID: uuid.NewString()}
	log := p.logger.With(zap.String("load_id", report.LoadID))

	var records []record.Record
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Error("document parse failed", zap.Error(err))
			return nil, report, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Member" {
			continue
		}

		var m memberXML
		if err := dec.DecodeElement(&m, &start); err != nil {
			// DecodeElement fails only on structural errors, which
			// poison the rest of the stream as well.
			log.Error("document parse failed", zap.Error(err))
			return nil, report, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		rec, warns, err := buildRecord(m)
		if err != nil {
			report.Dropped++
			w := fmt.Sprintf("record %d dropped: %v", report.Parsed+report.Dropped, err)
			report.Warnings = append(report.Warnings, w)
			log.Warn("record dropped", zap.Int("index", report.Parsed+report.Dropped), zap.Error(err))
			continue
		}
		for _, w := range warns {
			report.Warnings = append(report.Warnings, w)
			log.Warn(w, zap.String("doc_id", rec.DocID))
		}
		records = append(records, rec)
		report.Parsed++
	}

	log.Info("ingestion complete",
		zap.Int("parsed", report.Parsed),
		zap.Int("dropped", report.Dropped),
		zap.Int("warnings", len(report.Warnings)))
	return records, report, nil
}

// buildRecord trims the raw fields, constructs the Record, and collects
// field-anomaly warnings.
func buildRecord(m memberXML) (record.Record, []string, error) {
	f := record.Fields{
		Prefix:     strings.TrimSpace(m.Prefix),
		LastName:   strings.TrimSpace(m.Last),
		FirstName:  strings.TrimSpace(m.First),
		Suffix:     strings.TrimSpace(m.Suffix),
		FilingType: strings.TrimSpace(m.FilingType),
		StateDst:   strings.TrimSpace(m.StateDst),
		Year:       strings.TrimSpace(m.Year),
		FilingDate: strings.TrimSpace(m.FilingDate),
		DocID:      strings.TrimSpace(m.DocID),
	}

	rec, err := record.New(f)
	if err != nil {
		return record.Record{}, nil, err
	}

	var warns []string
	if rec.YearFlagged {
		warns = append(warns, fmt.Sprintf("record %s %s: year %q outside [%d, %d]",
			rec.LastName, rec.FirstName, f.Year, record.MinYear, record.MaxYear))
	}
	if f.FilingDate != "" && !rec.HasFilingDate() {
		warns = append(warns, fmt.Sprintf("record %s %s: unparsable filing date %q",
			rec.LastName, rec.FirstName, f.FilingDate))
	}
	return rec, warns, nil
}

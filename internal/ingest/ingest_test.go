package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<FinancialDisclosure>
  <Member>
    <Prefix>Hon.</Prefix>
    <Last>Smith</Last>
    <First>Jane</First>
    <FilingType>P</FilingType>
    <StateDst>NY12</StateDst>
    <Year>2024</Year>
    <FilingDate>03/15/2024</FilingDate>
    <DocID>20012345</DocID>
  </Member>
  <Member>
    <Last></Last>
    <First></First>
    <Year>2024</Year>
  </Member>
</FinancialDisclosure>`

func TestParse_DropsNamelessRecords(t *testing.T) {
	records, report, err := NewParser(nil).Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, 1, report.Parsed)
	assert.Equal(t, 1, report.Dropped)
	assert.NotEmpty(t, report.LoadID)

	r := records[0]
	assert.Equal(t, "Smith", r.LastName)
	assert.Equal(t, "Jane", r.FirstName)
	require.True(t, r.HasFilingDate())
	assert.Equal(t, "2024-03-15", r.FilingDate.Format("2006-01-02"))
}

func TestParse_WellFormedRecordsAllSurvive(t *testing.T) {
	var b strings.Builder
	b.WriteString("<FinancialDisclosure>")
	for i := 0; i < 50; i++ {
		b.WriteString("<Member><Last>Member</Last><First>Test</First></Member>")
	}
	b.WriteString("</FinancialDisclosure>")

	records, report, err := NewParser(nil).Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Len(t, records, 50)
	assert.Equal(t, 0, report.Dropped)
	assert.Empty(t, report.Warnings)
}

func TestParse_FieldAnomaliesKeepTheRecord(t *testing.T) {
	doc := `<FinancialDisclosure>
  <Member><Last>Old</Last><Year>1776</Year></Member>
  <Member><Last>Vague</Last><FilingDate>sometime soon</FilingDate></Member>
</FinancialDisclosure>`

	records, report, err := NewParser(nil).Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.True(t, records[0].YearFlagged)
	assert.Equal(t, 1776, records[0].Year, "flagged year must be retained as given")
	assert.False(t, records[1].HasFilingDate())
	assert.Equal(t, "sometime soon", records[1].FilingDateRaw)
	assert.Len(t, report.Warnings, 2)
}

func TestParse_MalformedDocumentIsFatal(t *testing.T) {
	doc := `<FinancialDisclosure><Member><Last>Smith</Last>` // truncated

	records, _, err := NewParser(nil).Parse(strings.NewReader(doc))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDocument))
	assert.Nil(t, records, "no partial dataset on document failure")
}

func TestParse_TrimsFieldWhitespace(t *testing.T) {
	doc := `<FinancialDisclosure>
  <Member><Last>  Smith  </Last><First>
    Jane
  </First></Member>
</FinancialDisclosure>`

	records, _, err := NewParser(nil).Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Smith", records[0].LastName)
	assert.Equal(t, "Jane", records[0].FirstName)
}

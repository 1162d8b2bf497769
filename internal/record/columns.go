package record

// Column identifies one sortable/displayable field of a Record.
type Column int

const (
	ColPrefix Column = iota
	ColLastName
	ColFirstName
	ColSuffix
	ColFilingType
	ColStateDst
	ColYear
	ColFilingDate
	ColDocID

	NumColumns int = iota
)

// Title returns the human-facing header for the column, matching the CSV
// export header.
func (c Column) Title() string {
	switch c {
	case ColPrefix:
		return "Prefix"
	case ColLastName:
		return "Last Name"
	case ColFirstName:
		return "First Name"
	case ColSuffix:
		return "Suffix"
	case ColFilingType:
		return "Filing Type"
	case ColStateDst:
		return "State/District"
	case ColYear:
		return "Year"
	case ColFilingDate:
		return "Filing Date"
	case ColDocID:
		return "Document ID"
	}
	return ""
}

// IsNumeric reports whether the column should compare numerically when both
// sides parse as integers.
func (c Column) IsNumeric() bool {
	return c == ColYear || c == ColDocID
}

// IsDate reports whether the column compares by calendar instant.
func (c Column) IsDate() bool {
	return c == ColFilingDate
}

// Field returns the record's display string for the column.
func (r Record) Field(c Column) string {
	switch c {
	case ColPrefix:
		return r.Prefix
	case ColLastName:
		return r.LastName
	case ColFirstName:
		return r.FirstName
	case ColSuffix:
		return r.Suffix
	case ColFilingType:
		return r.FilingType
	case ColStateDst:
		return r.StateDst
	case ColYear:
		return r.YearText()
	case ColFilingDate:
		return r.FilingDateText()
	case ColDocID:
		return r.DocID
	}
	return ""
}

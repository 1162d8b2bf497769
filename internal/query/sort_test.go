package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"disclose/internal/record"
)

func lastNames(view []record.Record) []string {
	out := make([]string, len(view))
	for i, r := range view {
		out[i] = r.LastName
	}
	return out
}

func TestSort_YearDescendingPinsAbsentLast(t *testing.T) {
	view := []record.Record{
		mustRecord(t, record.Fields{LastName: "A", Year: "2020"}),
		mustRecord(t, record.Fields{LastName: "B"}),
		mustRecord(t, record.Fields{LastName: "C", Year: "2023"}),
	}

	Sort(view, record.ColYear, Descending)
	if diff := cmp.Diff([]string{"C", "A", "B"}, lastNames(view)); diff != "" {
		t.Errorf("descending year order wrong:\n%s", diff)
	}

	Sort(view, record.ColYear, Ascending)
	if diff := cmp.Diff([]string{"A", "C", "B"}, lastNames(view)); diff != "" {
		t.Errorf("ascending year order wrong:\n%s", diff)
	}
}

func TestSort_StableOnTies(t *testing.T) {
	view := []record.Record{
		mustRecord(t, record.Fields{LastName: "First", Year: "2024"}),
		mustRecord(t, record.Fields{LastName: "Second", Year: "2024"}),
		mustRecord(t, record.Fields{LastName: "Third", Year: "2024"}),
	}

	Sort(view, record.ColYear, Ascending)
	if diff := cmp.Diff([]string{"First", "Second", "Third"}, lastNames(view)); diff != "" {
		t.Errorf("tied records must keep input order:\n%s", diff)
	}
}

func TestSort_IdempotentAndReversible(t *testing.T) {
	base := []record.Record{
		mustRecord(t, record.Fields{LastName: "Young", Year: "2022"}),
		mustRecord(t, record.Fields{LastName: "Old", Year: "2019"}),
		mustRecord(t, record.Fields{LastName: "Mid", Year: "2021"}),
	}

	Sort(base, record.ColYear, Ascending)
	once := lastNames(base)
	Sort(base, record.ColYear, Ascending)
	if diff := cmp.Diff(once, lastNames(base)); diff != "" {
		t.Errorf("re-sorting changed order:\n%s", diff)
	}

	Sort(base, record.ColYear, Descending)
	want := []string{once[2], once[1], once[0]}
	if diff := cmp.Diff(want, lastNames(base)); diff != "" {
		t.Errorf("flipping direction did not reverse:\n%s", diff)
	}
}

func TestSort_NumericDocIDs(t *testing.T) {
	view := []record.Record{
		mustRecord(t, record.Fields{LastName: "A", DocID: "10010000"}),
		mustRecord(t, record.Fields{LastName: "B", DocID: "9000000"}),
	}

	// Lexicographically "10010000" < "9000000"; numerically it is larger.
	Sort(view, record.ColDocID, Ascending)
	if view[0].LastName != "B" {
		t.Error("doc ids should compare numerically when both parse")
	}

	// A non-numeric id on either side falls back to string comparison.
	view = append(view, mustRecord(t, record.Fields{LastName: "C", DocID: "PTR-77"}))
	Sort(view, record.ColDocID, Ascending)
	if lastNames(view)[2] != "C" {
		t.Errorf("mixed ids sorted as %v", lastNames(view))
	}
}

func TestSort_DatesByInstantWithRawFallback(t *testing.T) {
	view := []record.Record{
		mustRecord(t, record.Fields{LastName: "Late", FilingDate: "12/01/2024"}),
		mustRecord(t, record.Fields{LastName: "Early", FilingDate: "2024-02-05"}),
		mustRecord(t, record.Fields{LastName: "Raw", FilingDate: "awaiting filing"}),
	}

	Sort(view, record.ColFilingDate, Ascending)
	if diff := cmp.Diff([]string{"Early", "Late", "Raw"}, lastNames(view)); diff != "" {
		t.Errorf("date order wrong (raw text compares lexically):\n%s", diff)
	}
}

func TestSort_TextCaseInsensitive(t *testing.T) {
	view := []record.Record{
		mustRecord(t, record.Fields{LastName: "smith"}),
		mustRecord(t, record.Fields{LastName: "ADAMS"}),
	}
	Sort(view, record.ColLastName, Ascending)
	if view[0].LastName != "ADAMS" {
		t.Error("text comparison should ignore case")
	}
}

func TestPipeline_FilterReappliesSort(t *testing.T) {
	p := NewPipeline(nil, nil)
	p.SetDataset([]record.Record{
		mustRecord(t, record.Fields{LastName: "Smith", Year: "2020"}),
		mustRecord(t, record.Fields{LastName: "Smythe", Year: "2024"}),
		mustRecord(t, record.Fields{LastName: "Doe", Year: "2022"}),
	})

	p.ApplySort(record.ColYear, Descending)
	view := p.ApplyFilter("sm")
	if diff := cmp.Diff([]string{"Smythe", "Smith"}, lastNames(view)); diff != "" {
		t.Errorf("filter did not reapply the active sort:\n%s", diff)
	}

	// Clearing the term restores the full dataset, still sorted.
	view = p.ApplyFilter("")
	if diff := cmp.Diff([]string{"Smythe", "Doe", "Smith"}, lastNames(view)); diff != "" {
		t.Errorf("empty term should return the full dataset sorted:\n%s", diff)
	}
}

func TestPipeline_ToggleSortFlipsDirection(t *testing.T) {
	p := NewPipeline(nil, nil)
	p.SetDataset([]record.Record{
		mustRecord(t, record.Fields{LastName: "B"}),
		mustRecord(t, record.Fields{LastName: "A"}),
	})

	p.ToggleSort(record.ColLastName)
	if got := p.SortState(); !got.HasColumn || got.Direction != Ascending {
		t.Fatalf("first toggle should sort ascending, got %+v", got)
	}
	p.ToggleSort(record.ColLastName)
	if got := p.SortState(); got.Direction != Descending {
		t.Fatalf("second toggle should flip to descending, got %+v", got)
	}
	if lastNames(p.View())[0] != "B" {
		t.Error("view not descending after toggle")
	}
}

func TestPipeline_SetDatasetResetsState(t *testing.T) {
	p := NewPipeline(nil, nil)
	p.SetDataset([]record.Record{mustRecord(t, record.Fields{LastName: "Old"})})
	p.ApplyFilter("old")
	p.ApplySort(record.ColLastName, Descending)

	p.SetDataset([]record.Record{
		mustRecord(t, record.Fields{LastName: "B"}),
		mustRecord(t, record.Fields{LastName: "A"}),
	})
	if p.Term() != "" || p.SortState().HasColumn {
		t.Error("reload should clear term and sort state")
	}
	if diff := cmp.Diff([]string{"B", "A"}, lastNames(p.View())); diff != "" {
		t.Errorf("view should be insertion order after reload:\n%s", diff)
	}
}

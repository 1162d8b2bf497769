// Package query derives the current view over the full dataset: substring
// filtering against the precomputed search keys, stable type-aware sorting,
// and the pipeline that owns both.
package query

import (
	"strings"

	"disclose/internal/record"
)

// Filter narrows the full dataset to the records whose search key contains
// term as a substring. It is stateless and total: every call starts from the
// full dataset, never from a previous view. An empty or whitespace-only term
// returns a copy of the dataset in its original order.
func Filter(dataset []record.Record, term string) []record.Record {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		out := make([]record.Record, len(dataset))
		copy(out, dataset)
		return out
	}

	out := make([]record.Record, 0, len(dataset))
	for _, r := range dataset {
		if strings.Contains(r.SearchKey(), term) {
			out = append(out, r)
		}
	}
	return out
}

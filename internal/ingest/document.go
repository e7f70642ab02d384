// Package ingest enumerates the (year, month, document) triples a batch run
// processes: from a reports directory, a year/month range, or a JSON
// manifest. The core only consumes the resulting Document slice.
package ingest

import (
	"fmt"
	"sort"
	"strconv"
)

// Document identifies one monthly report. Month keeps the external two-digit
// string contract; ID is whatever the line extractor understands (a file path
// for the PDF adapter).
type Document struct {
	Year  int    `json:"year"`
	Month string `json:"month"`
	ID    string `json:"path"`
}

// MonthInt converts the two-digit month to its integer form.
func (d Document) MonthInt() (int, error) {
	m, err := strconv.Atoi(d.Month)
	if err != nil || m < 1 || m > 12 {
		return 0, fmt.Errorf("document %s: bad month %q", d.ID, d.Month)
	}
	return m, nil
}

// SortDocuments orders documents by year then month, the definitive dataset
// order. The sort is stable so duplicate (year, month) submissions keep their
// relative order.
func SortDocuments(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Year != docs[j].Year {
			return docs[i].Year < docs[j].Year
		}
		return docs[i].Month < docs[j].Month
	})
}

package table

import (
	"strings"

	"github.com/hopsdata/beerstats/constants"
	"github.com/hopsdata/beerstats/internal/common"
)

// Segment is a contiguous run of records belonging to one of the two
// sub-tables.
type Segment struct {
	Kind    constants.DatasetKind
	Records []Record
}

// BoundaryError reports a document whose table lacks the two-part layout the
// report family promises.
type BoundaryError struct {
	Labels []string
}

func (e *BoundaryError) Error() string {
	return "no segment boundary label among " + strings.Join(e.Labels, ", ")
}

func (e *BoundaryError) Unwrap() error {
	return common.ErrBoundaryNotFound
}

// boundaryLabels mark the first row of the materials sub-table.
var boundaryLabels = []string{"MATERIALS USED", "IN POUNDS"}

// sectionHeaders are structural rows, never data; removed after tagging.
var sectionHeaders = []string{"IN POUNDS", "MATERIALS USED", "MANUFACTURE OF BEER", "BARRELS"}

// SegmentRecords splits a parsed record sequence into the production and
// materials segments at the first record carrying a boundary label. Section
// header rows are dropped from both segments after the split. Fails with a
// *BoundaryError when no boundary label occurs; one empty segment is never
// silently returned.
func SegmentRecords(records []Record) (Segment, Segment, error) {
	boundary := -1
	for i, rec := range records {
		if containsAny(rec.Label, boundaryLabels) {
			boundary = i
			break
		}
	}
	if boundary < 0 {
		return Segment{}, Segment{}, &BoundaryError{Labels: boundaryLabels}
	}

	production := Segment{
		Kind:    constants.ProductionVolumes,
		Records: dropSectionHeaders(records[:boundary]),
	}
	materials := Segment{
		Kind:    constants.MaterialsUsed,
		Records: dropSectionHeaders(records[boundary:]),
	}
	return production, materials, nil
}

func dropSectionHeaders(records []Record) []Record {
	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if containsAny(rec.Label, sectionHeaders) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

func containsAny(label string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(label, c) {
			return true
		}
	}
	return false
}

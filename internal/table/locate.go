// Package table recovers the embedded statistical table from the raw text
// lines of a monthly report: locating it between anchor phrases, splitting
// whitespace-aligned columns, typing the rows and splitting the result into
// the production and materials sub-tables.
package table

import (
	"fmt"
	"strings"

	"github.com/hopsdata/beerstats/internal/common"
)

// Window is a contiguous slice of report lines bounded by two anchors,
// inclusive. Start and End are 1-based positions in the source document;
// Lines are trimmed of leading/trailing whitespace.
type Window struct {
	Start int
	End   int
	Lines []string
}

// AnchorError reports which anchor phrase was missing from the document.
type AnchorError struct {
	Anchor string
}

func (e *AnchorError) Error() string {
	return fmt.Sprintf("anchor %q not found", e.Anchor)
}

func (e *AnchorError) Unwrap() error {
	return common.ErrAnchorNotFound
}

// Locate scans lines for the first occurrence of startAnchor, then for the
// first occurrence of endAnchor at or after it, and returns the inclusive
// window between them. Matching is a case-sensitive substring test. A missing
// anchor yields an *AnchorError naming it; the window is never silently empty.
func Locate(lines []string, startAnchor, endAnchor string) (Window, error) {
	start := -1
	for i, line := range lines {
		if strings.Contains(line, startAnchor) {
			start = i
			break
		}
	}
	if start < 0 {
		return Window{}, &AnchorError{Anchor: startAnchor}
	}

	end := -1
	for i := start; i < len(lines); i++ {
		if strings.Contains(lines[i], endAnchor) {
			end = i
			break
		}
	}
	if end < 0 {
		return Window{}, &AnchorError{Anchor: endAnchor}
	}

	trimmed := make([]string, 0, end-start+1)
	for _, line := range lines[start : end+1] {
		trimmed = append(trimmed, strings.TrimSpace(line))
	}
	return Window{Start: start + 1, End: end + 1, Lines: trimmed}, nil
}

package table

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hopsdata/beerstats/internal/common"
)

var reportLines = []string{
	"                 STATISTICAL RELEASE",
	"  Production of beer remained steady.",
	"  MANUFACTURE OF BEER (BARRELS)      Current Month    Prior Year",
	"  Production                          15,191,907    15,941,520",
	"  In bottles and cans                 11,720,938    12,321,070",
	"  MATERIALS USED (IN POUNDS)",
	"  Malt and malt products             372,214,342   392,727,819",
	"  Total Used                         547,254,837   585,102,454",
	"  FOOTNOTES",
}

func TestLocateWindow(t *testing.T) {
	w, err := Locate(reportLines, "MANUFACTURE OF BEER", "Total Used")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if w.Start != 3 || w.End != 8 {
		t.Errorf("window bounds = (%d, %d), want (3, 8)", w.Start, w.End)
	}
	if len(w.Lines) != 6 {
		t.Fatalf("window has %d lines, want 6", len(w.Lines))
	}
	if !strings.HasPrefix(w.Lines[0], "MANUFACTURE OF BEER") {
		t.Errorf("first window line = %q, should start at the header row", w.Lines[0])
	}
	for i, line := range w.Lines {
		if line != strings.TrimSpace(line) {
			t.Errorf("line %d not trimmed: %q", i, line)
		}
	}
}

func TestLocateRoundTrip(t *testing.T) {
	w, err := Locate(reportLines, "MANUFACTURE OF BEER", "Total Used")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	// the window reproduces the contiguous source slice modulo trimming
	for i, line := range w.Lines {
		src := strings.TrimSpace(reportLines[w.Start-1+i])
		if line != src {
			t.Errorf("line %d = %q, want %q", i, line, src)
		}
	}
}

func TestLocateIdempotent(t *testing.T) {
	w1, err := Locate(reportLines, "MANUFACTURE OF BEER", "Total Used")
	if err != nil {
		t.Fatalf("first Locate failed: %v", err)
	}
	w2, err := Locate(reportLines, "MANUFACTURE OF BEER", "Total Used")
	if err != nil {
		t.Fatalf("second Locate failed: %v", err)
	}
	if !reflect.DeepEqual(w1, w2) {
		t.Error("repeated Locate with same anchors returned different windows")
	}
}

func TestLocateLoosePairStartsEarlier(t *testing.T) {
	strict, err := Locate(reportLines, "MANUFACTURE OF BEER", "Total Used")
	if err != nil {
		t.Fatalf("strict Locate failed: %v", err)
	}
	loose, err := Locate(reportLines, "Production", "Total Used")
	if err != nil {
		t.Fatalf("loose Locate failed: %v", err)
	}
	if loose.Start >= strict.Start {
		t.Errorf("loose window starts at %d, want before strict start %d", loose.Start, strict.Start)
	}
}

func TestLocateMissingAnchors(t *testing.T) {
	tests := []struct {
		name        string
		startAnchor string
		endAnchor   string
		wantMissing string
	}{
		{"missing start", "NO SUCH TABLE", "Total Used", "NO SUCH TABLE"},
		{"missing end", "MANUFACTURE OF BEER", "Grand Total", "Grand Total"},
		{"end before start only", "Total Used", "MANUFACTURE OF BEER", "MANUFACTURE OF BEER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Locate(reportLines, tt.startAnchor, tt.endAnchor)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, common.ErrAnchorNotFound) {
				t.Errorf("error %v should wrap ErrAnchorNotFound", err)
			}
			var anchorErr *AnchorError
			if !errors.As(err, &anchorErr) {
				t.Fatalf("error %v is not an *AnchorError", err)
			}
			if anchorErr.Anchor != tt.wantMissing {
				t.Errorf("reported anchor = %q, want %q", anchorErr.Anchor, tt.wantMissing)
			}
		})
	}
}

package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMonthInt(t *testing.T) {
	tests := []struct {
		month   string
		want    int
		wantErr bool
	}{
		{"01", 1, false},
		{"09", 9, false},
		{"12", 12, false},
		{"00", 0, true},
		{"13", 0, true},
		{"jan", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := Document{Month: tt.month}.MonthInt()
		if tt.wantErr {
			if err == nil {
				t.Errorf("MonthInt(%q) should fail", tt.month)
			}
			continue
		}
		if err != nil {
			t.Errorf("MonthInt(%q) failed: %v", tt.month, err)
			continue
		}
		if got != tt.want {
			t.Errorf("MonthInt(%q) = %d, want %d", tt.month, got, tt.want)
		}
	}
}

func TestSortDocuments(t *testing.T) {
	docs := []Document{
		{Year: 2017, Month: "02", ID: "a"},
		{Year: 2016, Month: "12", ID: "b"},
		{Year: 2017, Month: "01", ID: "c"},
		{Year: 2017, Month: "01", ID: "d"}, // duplicate month keeps submission order
	}
	SortDocuments(docs)
	wantIDs := []string{"b", "c", "d", "a"}
	for i, want := range wantIDs {
		if docs[i].ID != want {
			t.Errorf("docs[%d].ID = %q, want %q", i, docs[i].ID, want)
		}
	}
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"ttb_beer_2016_02.pdf",
		"ttb_beer_2016_01.pdf",
		"TTB_BEER_2017-03.PDF", // case and dash variants both match
		"readme.txt",
		"ttb_beer_2016_13.pdf", // month out of range
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "archive"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "archive", "ttb_beer_2015_12.pdf"), []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}

	docs, stats, err := ScanDirectory(dir, nil)
	if err != nil {
		t.Fatalf("ScanDirectory failed: %v", err)
	}
	if stats.Matched != 4 {
		t.Errorf("matched = %d, want 4", stats.Matched)
	}
	if stats.Skipped != 1 {
		t.Errorf("skipped = %d, want 1 (the out-of-range month)", stats.Skipped)
	}

	want := []struct {
		year  int
		month string
	}{
		{2015, "12"},
		{2016, "01"},
		{2016, "02"},
		{2017, "03"},
	}
	if len(docs) != len(want) {
		t.Fatalf("got %d documents, want %d: %+v", len(docs), len(want), docs)
	}
	for i, w := range want {
		if docs[i].Year != w.year || docs[i].Month != w.month {
			t.Errorf("docs[%d] = (%d, %s), want (%d, %s)", i, docs[i].Year, docs[i].Month, w.year, w.month)
		}
	}
}

func TestScanDirectoryRequiresRoot(t *testing.T) {
	if _, _, err := ScanDirectory("  ", nil); err == nil {
		t.Error("blank root should be rejected")
	}
}

func TestRange(t *testing.T) {
	docs, err := Range(
		MonthRef{Year: 2016, Month: "11"},
		MonthRef{Year: 2017, Month: "02"},
		"reports/ttb_beer_%d_%s.pdf",
	)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	want := []Document{
		{Year: 2016, Month: "11", ID: "reports/ttb_beer_2016_11.pdf"},
		{Year: 2016, Month: "12", ID: "reports/ttb_beer_2016_12.pdf"},
		{Year: 2017, Month: "01", ID: "reports/ttb_beer_2017_01.pdf"},
		{Year: 2017, Month: "02", ID: "reports/ttb_beer_2017_02.pdf"},
	}
	if len(docs) != len(want) {
		t.Fatalf("got %d documents, want %d", len(docs), len(want))
	}
	for i, w := range want {
		if docs[i] != w {
			t.Errorf("docs[%d] = %+v, want %+v", i, docs[i], w)
		}
	}
}

func TestRangeSingleMonth(t *testing.T) {
	docs, err := Range(MonthRef{2020, "06"}, MonthRef{2020, "06"}, "%d_%s")
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "2020_06" {
		t.Errorf("docs = %+v, want the single June 2020 document", docs)
	}
}

func TestRangeValidation(t *testing.T) {
	tests := []struct {
		name string
		from MonthRef
		to   MonthRef
	}{
		{"from after to", MonthRef{2017, "02"}, MonthRef{2016, "11"}},
		{"month not two digits", MonthRef{2016, "1"}, MonthRef{2016, "02"}},
		{"month out of range", MonthRef{2016, "13"}, MonthRef{2016, "12"}},
		{"year before archive start", MonthRef{1960, "01"}, MonthRef{2016, "01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Range(tt.from, tt.to, "%d_%s"); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	body := `{
  "documents": [
    {"year": 2017, "month": "02", "path": "reports/ttb_beer_2017_02.pdf"},
    {"year": 2016, "month": "11", "path": "reports/ttb_beer_2016_11.pdf"}
  ]
}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	docs, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	// manifest order is preserved, not sorted
	if len(docs) != 2 || docs[0].Year != 2017 || docs[1].Year != 2016 {
		t.Errorf("docs = %+v, want manifest order preserved", docs)
	}
	if docs[1].ID != "reports/ttb_beer_2016_11.pdf" {
		t.Errorf("docs[1].ID = %q", docs[1].ID)
	}
}

func TestLoadManifestRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty documents", `{"documents": []}`},
		{"missing path", `{"documents": [{"year": 2016, "month": "01"}]}`},
		{"bad month", `{"documents": [{"year": 2016, "month": "13", "path": "a.pdf"}]}`},
		{"year too early", `{"documents": [{"year": 1970, "month": "01", "path": "a.pdf"}]}`},
		{"unknown field", `{"documents": [{"year": 2016, "month": "01", "path": "a.pdf", "notes": "x"}]}`},
		{"not json", `documents:`},
	}
	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "manifest.json")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadManifest(path); err == nil {
				t.Error("invalid manifest should be rejected")
			}
		})
	}
}

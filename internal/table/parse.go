package table

import (
	"strconv"
	"strings"
)

// Record is one typed table row. The four measures are nil when the source
// cell was blank or non-numeric; Year and Month are the report's, supplied by
// the caller, never read from the document body. SourceRow is the 1-based row
// position inside the table window.
type Record struct {
	Label          string
	MonthCurrent   *float64
	MonthPriorYear *float64
	YTDCurrent     *float64
	YTDPriorYear   *float64
	Year           int
	Month          int
	SourceRow      int
}

// Anomaly records a row whose field count ruled it out of the dataset. Kept in
// a diagnostic list so every rejected row stays accounted for.
type Anomaly struct {
	Year       int
	Month      int
	SourceRow  int
	Raw        string
	FieldCount int
}

// expected shape: label + four numeric columns.
const fieldsPerRow = 5

// ParseRow types one delimited row. A 5-field row becomes a full record; a
// lone label (section headers, boundary markers) becomes a record with nil
// measures so the segmenter still sees it; anything else is an anomaly.
// Trailing colons are stripped from labels.
func ParseRow(fields []string, raw string, sourceRow, year, month int) (Record, *Anomaly) {
	switch len(fields) {
	case fieldsPerRow:
		return Record{
			Label:          normalizeLabel(fields[0]),
			MonthCurrent:   parseMeasure(fields[1]),
			MonthPriorYear: parseMeasure(fields[2]),
			YTDCurrent:     parseMeasure(fields[3]),
			YTDPriorYear:   parseMeasure(fields[4]),
			Year:           year,
			Month:          month,
			SourceRow:      sourceRow,
		}, nil
	case 1:
		return Record{
			Label:     normalizeLabel(fields[0]),
			Year:      year,
			Month:     month,
			SourceRow: sourceRow,
		}, nil
	default:
		return Record{}, &Anomaly{
			Year:       year,
			Month:      month,
			SourceRow:  sourceRow,
			Raw:        raw,
			FieldCount: len(fields),
		}
	}
}

// Parse types every row of a table window. The first window line is always the
// column-header row and is discarded; blank lines are skipped. Anomalous rows
// are excluded from the record sequence but returned alongside it.
func Parse(w Window, year, month int) ([]Record, []Anomaly) {
	var records []Record
	var anomalies []Anomaly
	for i, line := range w.Lines {
		if i == 0 {
			continue // column-header row
		}
		fields := Split(line)
		if len(fields) == 0 {
			continue
		}
		rec, anom := ParseRow(fields, line, i+1, year, month)
		if anom != nil {
			anomalies = append(anomalies, *anom)
			continue
		}
		records = append(records, rec)
	}
	return records, anomalies
}

func normalizeLabel(label string) string {
	return strings.TrimSuffix(strings.TrimSpace(label), ":")
}

func parseMeasure(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

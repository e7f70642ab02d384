package ingest

import (
	"fmt"

	"github.com/hopsdata/beerstats/internal/common"
)

// MonthRef is one end of an inclusive year/month span.
type MonthRef struct {
	Year  int
	Month string
}

// Range generates Documents for every month of the inclusive [from, to] span.
// pattern is a fmt string receiving (year int, month string), e.g.
// "reports/ttb_beer_%d_%s.pdf". The archive starts in 1984.
func Range(from, to MonthRef, pattern string) ([]Document, error) {
	v := common.NewValidator()
	v.Field("from.year", from.Year, common.YearInRange(1984, 2100))
	v.Field("to.year", to.Year, common.YearInRange(1984, 2100))
	v.Field("from.month", from.Month, common.Required, common.TwoDigitMonth)
	v.Field("to.month", to.Month, common.Required, common.TwoDigitMonth)
	v.Field("pattern", pattern, common.Required)
	if err := v.Error(); err != nil {
		return nil, err
	}

	fromDoc := Document{Year: from.Year, Month: from.Month}
	toDoc := Document{Year: to.Year, Month: to.Month}
	fm, _ := fromDoc.MonthInt()
	tm, _ := toDoc.MonthInt()
	if from.Year > to.Year || (from.Year == to.Year && fm > tm) {
		return nil, common.NewAppError("RANGE_ERROR", "from is after to", common.ErrInvalidInput)
	}

	var docs []Document
	for y, m := from.Year, fm; y < to.Year || (y == to.Year && m <= tm); {
		month := fmt.Sprintf("%02d", m)
		docs = append(docs, Document{
			Year:  y,
			Month: month,
			ID:    fmt.Sprintf(pattern, y, month),
		})
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return docs, nil
}

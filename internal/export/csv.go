// Package export serializes the two final datasets and the diagnostics trail
// to CSV and XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/hopsdata/beerstats/constants"
	"github.com/hopsdata/beerstats/internal/batch"
	"github.com/hopsdata/beerstats/internal/classify"
)

var productionHeader = []string{
	"data_type", "tax_status", "tax_rate", "year", "month", "type",
	"month_current", "month_prior_year", "ytd_current", "ytd_prior_year",
}

var materialsHeader = []string{
	"data_type", "material_type", "year", "month", "type",
	"month_current", "month_prior_year", "ytd_current", "ytd_prior_year",
}

// WriteProductionCSV writes the production dataset. Null measures become
// empty cells.
func WriteProductionCSV(w io.Writer, rows []classify.ProductionRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(productionHeader); err != nil {
		return err
	}
	for _, row := range rows {
		rec := row.Record
		out := []string{
			constants.ProductionDataType,
			string(row.TaxStatus),
			row.TaxRate,
			strconv.Itoa(rec.Year),
			fmt.Sprintf("%02d", rec.Month),
			rec.Label,
			measure(rec.MonthCurrent),
			measure(rec.MonthPriorYear),
			measure(rec.YTDCurrent),
			measure(rec.YTDPriorYear),
		}
		if err := cw.Write(out); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMaterialsCSV writes the materials dataset.
func WriteMaterialsCSV(w io.Writer, rows []classify.MaterialsRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(materialsHeader); err != nil {
		return err
	}
	for _, row := range rows {
		rec := row.Record
		out := []string{
			constants.MaterialsDataType,
			row.MaterialType,
			strconv.Itoa(rec.Year),
			fmt.Sprintf("%02d", rec.Month),
			rec.Label,
			measure(rec.MonthCurrent),
			measure(rec.MonthPriorYear),
			measure(rec.YTDCurrent),
			measure(rec.YTDPriorYear),
		}
		if err := cw.Write(out); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDiagnosticsCSV writes the document-error and parse-anomaly trail; one
// row per rejected document or row, so every rejection stays accounted for.
func WriteDiagnosticsCSV(w io.Writer, res batch.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"kind", "year", "month", "document", "row", "reason", "detail"}); err != nil {
		return err
	}
	for _, e := range res.Errors {
		out := []string{"document_error", strconv.Itoa(e.Year), e.Month, e.DocumentID, "", e.Reason, e.Detail}
		if err := cw.Write(out); err != nil {
			return err
		}
	}
	for _, a := range res.Anomalies {
		out := []string{
			"parse_anomaly",
			strconv.Itoa(a.Year),
			fmt.Sprintf("%02d", a.Month),
			"",
			strconv.Itoa(a.SourceRow),
			fmt.Sprintf("field_count=%d", a.FieldCount),
			a.Raw,
		}
		if err := cw.Write(out); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func measure(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hopsdata/beerstats/constants"
	"github.com/hopsdata/beerstats/internal/batch"
)

// XLSXService produces a workbook (as bytes) with one sheet per dataset plus
// a diagnostics sheet.
type XLSXService struct {
	logger *slog.Logger
}

func NewXLSXService(logger *slog.Logger) *XLSXService {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXService{logger: logger}
}

const (
	sheetProduction  = "Production"
	sheetMaterials   = "Materials Used"
	sheetDiagnostics = "Diagnostics"
)

// BuildWorkbook renders a batch result into an XLSX workbook.
func (s *XLSXService) BuildWorkbook(res batch.Result) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()

	for _, sheet := range []string{sheetProduction, sheetMaterials, sheetDiagnostics} {
		if index, _ := f.GetSheetIndex(sheet); index == -1 {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
		}
	}
	// drop the default sheet excelize creates
	_ = f.DeleteSheet("Sheet1")
	if idx, _ := f.GetSheetIndex(sheetProduction); idx != -1 {
		f.SetActiveSheet(idx)
	}

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
	writeHeader := func(sheet string, headers []string) {
		for i, h := range headers {
			write(sheet, i+1, 1, h)
		}
	}

	writeHeader(sheetProduction, productionHeader)
	row := 2
	for _, p := range res.Production {
		rec := p.Record
		cells := []any{
			constants.ProductionDataType, string(p.TaxStatus), p.TaxRate,
			rec.Year, fmt.Sprintf("%02d", rec.Month), rec.Label,
		}
		cells = append(cells, measureCells(rec.MonthCurrent, rec.MonthPriorYear, rec.YTDCurrent, rec.YTDPriorYear)...)
		for i, v := range cells {
			write(sheetProduction, i+1, row, v)
		}
		row++
	}

	writeHeader(sheetMaterials, materialsHeader)
	row = 2
	for _, m := range res.Materials {
		rec := m.Record
		cells := []any{
			constants.MaterialsDataType, m.MaterialType,
			rec.Year, fmt.Sprintf("%02d", rec.Month), rec.Label,
		}
		cells = append(cells, measureCells(rec.MonthCurrent, rec.MonthPriorYear, rec.YTDCurrent, rec.YTDPriorYear)...)
		for i, v := range cells {
			write(sheetMaterials, i+1, row, v)
		}
		row++
	}

	writeHeader(sheetDiagnostics, []string{"kind", "year", "month", "document", "row", "reason", "detail"})
	row = 2
	for _, e := range res.Errors {
		for i, v := range []any{"document_error", e.Year, e.Month, e.DocumentID, "", e.Reason, e.Detail} {
			write(sheetDiagnostics, i+1, row, v)
		}
		row++
	}
	for _, a := range res.Anomalies {
		cells := []any{"parse_anomaly", a.Year, fmt.Sprintf("%02d", a.Month), "", a.SourceRow,
			fmt.Sprintf("field_count=%d", a.FieldCount), a.Raw}
		for i, v := range cells {
			write(sheetDiagnostics, i+1, row, v)
		}
		row++
	}

	// Widen the label and detail columns
	_ = f.SetColWidth(sheetProduction, "F", "F", 36)
	_ = f.SetColWidth(sheetProduction, "B", "C", 20)
	_ = f.SetColWidth(sheetMaterials, "B", "B", 24)
	_ = f.SetColWidth(sheetMaterials, "E", "E", 36)
	_ = f.SetColWidth(sheetDiagnostics, "D", "D", 48)
	_ = f.SetColWidth(sheetDiagnostics, "G", "G", 64)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"batch_id", res.BatchID.String(),
		"production_rows", len(res.Production),
		"materials_rows", len(res.Materials),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func measureCells(vals ...*float64) []any {
	cells := make([]any, len(vals))
	for i, v := range vals {
		if v == nil {
			cells[i] = ""
		} else {
			cells[i] = *v
		}
	}
	return cells
}

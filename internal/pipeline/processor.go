// Package pipeline runs the per-document transformation: extract text lines,
// locate the table, type its rows, split the two sub-tables and classify
// them. Each document is a side-effect-free transformation; nothing is shared
// across documents.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hopsdata/beerstats/constants"
	"github.com/hopsdata/beerstats/internal/classify"
	"github.com/hopsdata/beerstats/internal/common"
	"github.com/hopsdata/beerstats/internal/extract"
	"github.com/hopsdata/beerstats/internal/ingest"
	"github.com/hopsdata/beerstats/internal/table"
)

// Processor coordinates the stages for one document.
type Processor struct {
	Logger     *slog.Logger
	Extractor  extract.LineExtractor
	Classifier *classify.Classifier
}

func NewProcessor(logger *slog.Logger, ex extract.LineExtractor, cl *classify.Classifier) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cl == nil {
		cl = classify.New(logger)
	}
	return &Processor{Logger: logger, Extractor: ex, Classifier: cl}
}

// DocumentResult carries one document's contribution to the two datasets plus
// its row-level diagnostics.
type DocumentResult struct {
	Document   ingest.Document
	JobID      uuid.UUID
	Production []classify.ProductionRow
	Materials  []classify.MaterialsRow
	Anomalies  []table.Anomaly
}

// Process runs extract -> locate -> parse -> segment -> classify for one
// document. Row anomalies are diagnostics, never errors; any returned error
// is fatal to this document only.
func (p *Processor) Process(ctx context.Context, doc ingest.Document) (DocumentResult, error) {
	jobID := uuid.New()
	ctx = common.WithJobID(ctx, jobID.String())
	res := DocumentResult{Document: doc, JobID: jobID}

	month, err := doc.MonthInt()
	if err != nil {
		return res, common.NewAppError("BAD_DOCUMENT", err.Error(), common.ErrInvalidInput)
	}

	extracted, err := p.Extractor.ExtractLines(ctx, doc.ID)
	if err != nil {
		p.Logger.Error("pipeline.extract.failed", "job_id", jobID, "document", doc.ID, "error", err)
		return res, fmt.Errorf("extract %s: %w", doc.ID, err)
	}
	p.Logger.Info("pipeline.extract.ok",
		"job_id", jobID,
		"document", doc.ID,
		"lines", len(extracted.Lines),
		"method", extracted.Method,
	)

	window, err := table.Locate(extracted.Lines, constants.StartAnchor, constants.EndAnchor)
	if err != nil {
		p.Logger.Error("pipeline.locate.failed", "job_id", jobID, "document", doc.ID, "error", err)
		return res, fmt.Errorf("locate table in %s: %w", doc.ID, err)
	}

	records, anomalies := table.Parse(window, doc.Year, month)
	res.Anomalies = anomalies
	if len(anomalies) > 0 {
		p.Logger.Warn("pipeline.parse.anomalies", "job_id", jobID, "document", doc.ID, "count", len(anomalies))
	}

	production, materials, err := table.SegmentRecords(records)
	if err != nil {
		p.Logger.Error("pipeline.segment.failed", "job_id", jobID, "document", doc.ID, "error", err)
		return res, fmt.Errorf("segment %s: %w", doc.ID, err)
	}

	res.Production = p.Classifier.Production(production)
	res.Materials = p.Classifier.Materials(materials)

	p.Logger.Info("pipeline.document.ok",
		"job_id", jobID,
		"document", doc.ID,
		"year", doc.Year, "month", doc.Month,
		"production_rows", len(res.Production),
		"materials_rows", len(res.Materials),
		"anomalies", len(res.Anomalies),
	)
	return res, nil
}

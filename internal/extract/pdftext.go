package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/tsawler/tabula"

	"github.com/hopsdata/beerstats/internal/common"
)

// PDFExtractor reads report text with layout preserved so the table's
// whitespace column alignment survives into the line sequence.
type PDFExtractor struct {
	logger *slog.Logger

	// The statistical table sits on the first page of every report in the
	// family; later pages are footnote continuation.
	firstPageOnly bool
}

func NewPDFExtractor(firstPageOnly bool, logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger, firstPageOnly: firstPageOnly}
}

// ExtractLines extracts the document text and returns its normalized lines.
// Corrupt or unreadable input surfaces as an error wrapping ErrExtraction;
// a cancelled or expired context is honored between phases.
func (e *PDFExtractor) ExtractLines(ctx context.Context, documentID string) (Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	ex := tabula.Open(documentID).PreserveLayout()
	if e.firstPageOnly {
		ex = ex.Pages(1)
	}
	text, warns, err := ex.Text()
	if err != nil {
		return Result{}, common.NewAppError("EXTRACTION_FAILED", documentID, common.ErrExtraction)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	warnings := make([]string, 0, len(warns))
	for _, w := range warns {
		warnings = append(warnings, w.Message)
	}

	res := Result{
		Lines:    Lines(text),
		Text:     text,
		Pages:    1,
		Method:   "pdf-text",
		Duration: time.Since(start),
		Warnings: warnings,
	}
	if !e.firstPageOnly {
		if n, err := tabula.Open(documentID).PageCount(); err == nil {
			res.Pages = n
		}
	}

	e.logger.Debug("extract.pdf.ok",
		"document", documentID,
		"lines", len(res.Lines),
		"warnings", len(warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

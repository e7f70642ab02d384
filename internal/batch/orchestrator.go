// Package batch fans the per-document pipeline out over a bounded worker
// pool. Documents fail independently; the batch always completes, and results
// are re-sorted by (year, month) so the final datasets are deterministic
// regardless of completion order.
package batch

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hopsdata/beerstats/internal/classify"
	"github.com/hopsdata/beerstats/internal/common"
	"github.com/hopsdata/beerstats/internal/ingest"
	"github.com/hopsdata/beerstats/internal/pipeline"
	"github.com/hopsdata/beerstats/internal/table"
)

// DocumentError captures one document's failure without aborting the batch.
type DocumentError struct {
	Year       int
	Month      string
	DocumentID string
	Reason     string
	Detail     string
}

// Document-level failure reasons.
const (
	ReasonAnchorNotFound   = "AnchorNotFound"
	ReasonBoundaryNotFound = "BoundaryNotFound"
	ReasonExtractionError  = "ExtractionError"
	ReasonTimeout          = "Timeout"
	ReasonInvalidDocument  = "InvalidDocument"
)

// Result is the concatenation of every successful document's contribution, in
// (year, month) order, plus the full diagnostics trail.
type Result struct {
	BatchID    uuid.UUID
	Production []classify.ProductionRow
	Materials  []classify.MaterialsRow
	Anomalies  []table.Anomaly
	Errors     []DocumentError
}

type Orchestrator struct {
	proc    *pipeline.Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration
}

type Option func(*Orchestrator)

func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

func WithDocTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func New(proc *pipeline.Processor, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type job struct {
	idx int
	doc ingest.Document
}

type outcome struct {
	idx int
	res pipeline.DocumentResult
	err error
}

// Run processes every document and returns the merged result. Duplicate
// (year, month) submissions both contribute; nothing is deduplicated or
// retried.
func (o *Orchestrator) Run(ctx context.Context, docs []ingest.Document) Result {
	start := time.Now()
	result := Result{BatchID: uuid.New()}
	ctx = common.WithBatchID(ctx, result.BatchID.String())

	o.logger.Info("batch.start",
		"batch_id", result.BatchID,
		"documents", len(docs),
		"workers", o.workers,
		"doc_timeout", o.timeout.String(),
	)

	jobs := make(chan job, len(docs))
	outcomes := make([]outcome, len(docs))

	var wg sync.WaitGroup
	for w := 1; w <= o.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := range jobs {
				docCtx, cancel := context.WithTimeout(ctx, o.timeout)
				res, err := o.proc.Process(docCtx, j.doc)
				cancel()
				if err != nil {
					o.logger.Error("batch.document.failed",
						"worker_id", workerID,
						"document", j.doc.ID,
						"year", j.doc.Year, "month", j.doc.Month,
						"error", err,
					)
				}
				outcomes[j.idx] = outcome{idx: j.idx, res: res, err: err}
			}
		}(w)
	}

	for i, doc := range docs {
		jobs <- job{idx: i, doc: doc}
	}
	close(jobs)
	wg.Wait()

	// deterministic merge: stable-sort per-document outcomes by (year, month),
	// submission order breaking ties
	sort.SliceStable(outcomes, func(i, j int) bool {
		a, b := outcomes[i].res.Document, outcomes[j].res.Document
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})

	for _, out := range outcomes {
		doc := out.res.Document
		if out.err != nil {
			result.Errors = append(result.Errors, DocumentError{
				Year:       doc.Year,
				Month:      doc.Month,
				DocumentID: doc.ID,
				Reason:     reasonFor(out.err),
				Detail:     out.err.Error(),
			})
			continue
		}
		result.Production = append(result.Production, out.res.Production...)
		result.Materials = append(result.Materials, out.res.Materials...)
		result.Anomalies = append(result.Anomalies, out.res.Anomalies...)
	}

	o.logger.Info("batch.done",
		"batch_id", result.BatchID,
		"production_rows", len(result.Production),
		"materials_rows", len(result.Materials),
		"anomalies", len(result.Anomalies),
		"document_errors", len(result.Errors),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, common.ErrAnchorNotFound):
		return ReasonAnchorNotFound
	case errors.Is(err, common.ErrBoundaryNotFound):
		return ReasonBoundaryNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, common.ErrInvalidInput):
		return ReasonInvalidDocument
	default:
		return ReasonExtractionError
	}
}

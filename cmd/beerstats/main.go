package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hopsdata/beerstats/internal/batch"
	"github.com/hopsdata/beerstats/internal/classify"
	"github.com/hopsdata/beerstats/internal/common"
	"github.com/hopsdata/beerstats/internal/export"
	"github.com/hopsdata/beerstats/internal/extract"
	"github.com/hopsdata/beerstats/internal/ingest"
	"github.com/hopsdata/beerstats/internal/pipeline"
	"github.com/hopsdata/beerstats/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir      = flag.String("dir", "", "directory of monthly report PDFs (ttb_beer_<year>_<month>.pdf)")
		manifest = flag.String("manifest", "", "JSON batch manifest path")
		fromStr  = flag.String("from", "", "range start YYYY-MM (requires -to and -pattern)")
		toStr    = flag.String("to", "", "range end YYYY-MM")
		pattern  = flag.String("pattern", "", "document path pattern for -from/-to, e.g. reports/ttb_beer_%d_%s.pdf")
		out      = flag.String("out", "", "output directory (defaults to BEERSTATS_OUT_DIR)")
		format   = flag.String("format", "", "output format: csv | xlsx | both (defaults to BEERSTATS_FORMAT)")
		dsn      = flag.String("db", "", "optional dataset store DSN (sqlite path or postgres:// URL)")
		workers  = flag.Int("workers", 0, "worker pool size (defaults to BEERSTATS_WORKERS)")
		timeout  = flag.Duration("timeout", 0, "per-document timeout (defaults to BEERSTATS_DOC_TIMEOUT)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *out != "" {
		cfg.Export.OutDir = *out
	}
	if *format != "" {
		cfg.Export.Format = *format
	}
	if *dsn != "" {
		cfg.DB.DSN = *dsn
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if *timeout > 0 {
		cfg.Batch.DocTimeout = *timeout
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	docs, err := enumerate(*dir, *manifest, *fromStr, *toStr, *pattern, logger)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		printError("Error: no documents to process\n")
		os.Exit(1)
	}

	ctx := context.Background()

	classifier := classify.New(logger)
	if cfg.Extract.RulesPath != "" {
		classifier, err = classify.Load(cfg.Extract.RulesPath, logger)
		if err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
	}

	extractor := extract.NewPDFExtractor(cfg.Extract.FirstPageOnly, logger)
	proc := pipeline.NewProcessor(logger, extractor, classifier)
	orch := batch.New(proc, logger,
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithDocTimeout(cfg.Batch.DocTimeout),
	)

	result := orch.Run(ctx, docs)

	if err := writeOutputs(cfg, result, logger); err != nil {
		logger.Error("failed to write outputs", "error", err)
		os.Exit(1)
	}

	if cfg.DB.DSN != "" {
		store, err := repository.Open(ctx, repository.Config{
			DSN:         cfg.DB.DSN,
			DialTimeout: cfg.DB.DialTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to open dataset store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		if err := store.SaveBatch(ctx, result); err != nil {
			logger.Error("failed to save batch", "error", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Batch complete!\n")
	fmt.Printf("- Documents processed: %d\n", len(docs)-len(result.Errors))
	fmt.Printf("- Document errors: %d\n", len(result.Errors))
	fmt.Printf("- Production rows: %d\n", len(result.Production))
	fmt.Printf("- Materials rows: %d\n", len(result.Materials))
	fmt.Printf("- Output: %s\n", cfg.Export.OutDir)
}

// enumerate picks the document source: a manifest, a directory scan, or a
// generated year/month range. Exactly one source must be given.
func enumerate(dir, manifest, fromStr, toStr, pattern string, logger *slog.Logger) ([]ingest.Document, error) {
	sources := 0
	for _, s := range []string{dir, manifest, fromStr} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return nil, fmt.Errorf("exactly one of -dir, -manifest or -from/-to is required")
	}

	switch {
	case manifest != "":
		return ingest.LoadManifest(manifest)
	case dir != "":
		docs, _, err := ingest.ScanDirectory(dir, logger)
		return docs, err
	default:
		from, err := parseMonthRef(fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid -from: %w", err)
		}
		to, err := parseMonthRef(toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid -to: %w", err)
		}
		return ingest.Range(from, to, pattern)
	}
}

func parseMonthRef(s string) (ingest.MonthRef, error) {
	var year int
	var month string
	if _, err := fmt.Sscanf(s, "%4d-%2s", &year, &month); err != nil {
		return ingest.MonthRef{}, fmt.Errorf("want YYYY-MM, got %q", s)
	}
	return ingest.MonthRef{Year: year, Month: month}, nil
}

func writeOutputs(cfg *common.Config, result batch.Result, logger *slog.Logger) error {
	if err := os.MkdirAll(cfg.Export.OutDir, 0755); err != nil {
		return err
	}

	if cfg.Export.Format == "csv" || cfg.Export.Format == "both" {
		files := []struct {
			name  string
			write func(f *os.File) error
		}{
			{"production.csv", func(f *os.File) error { return export.WriteProductionCSV(f, result.Production) }},
			{"materials_used.csv", func(f *os.File) error { return export.WriteMaterialsCSV(f, result.Materials) }},
			{"diagnostics.csv", func(f *os.File) error { return export.WriteDiagnosticsCSV(f, result) }},
		}
		for _, spec := range files {
			path := filepath.Join(cfg.Export.OutDir, spec.name)
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := spec.write(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			logger.Info("export.csv.ok", "path", path)
		}
	}

	if cfg.Export.Format == "xlsx" || cfg.Export.Format == "both" {
		xlsxBytes, err := export.NewXLSXService(logger).BuildWorkbook(result)
		if err != nil {
			return err
		}
		path := filepath.Join(cfg.Export.OutDir, "beer_statistics.xlsx")
		if err := os.WriteFile(path, xlsxBytes, 0644); err != nil {
			return err
		}
	}
	return nil
}

// Package repository persists batch results. SQLite is the default backing
// store; a postgres:// DSN switches to the pgx driver over the same
// database/sql surface.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/hopsdata/beerstats/constants"
	"github.com/hopsdata/beerstats/internal/batch"
	"github.com/hopsdata/beerstats/internal/common"
)

type Config struct {
	DSN         string
	DialTimeout time.Duration
}

type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// Open connects to the dataset store and initializes the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := "sqlite"
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		driver = "pgx"
	}
	logger.Info("connecting to database", "driver", driver)

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, common.NewAppError("DB_OPEN_FAILED", cfg.DSN, err)
	}
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, common.NewAppError("DB_PING_FAILED", cfg.DSN, err)
	}
	if driver == "sqlite" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &Store{db: db, driver: driver, logger: logger}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("successfully connected to database")
	return s, nil
}

// Close closes the database connection gracefully
func (s *Store) Close() error {
	s.logger.Info("closing database connection")
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS batches (
	batch_id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS production_volumes (
	batch_id TEXT NOT NULL,
	data_type TEXT NOT NULL,
	tax_status TEXT NOT NULL,
	tax_rate TEXT NOT NULL,
	year INTEGER NOT NULL,
	month TEXT NOT NULL,
	type TEXT NOT NULL,
	month_current REAL,
	month_prior_year REAL,
	ytd_current REAL,
	ytd_prior_year REAL
);

CREATE TABLE IF NOT EXISTS materials_used (
	batch_id TEXT NOT NULL,
	data_type TEXT NOT NULL,
	material_type TEXT NOT NULL,
	year INTEGER NOT NULL,
	month TEXT NOT NULL,
	type TEXT NOT NULL,
	month_current REAL,
	month_prior_year REAL,
	ytd_current REAL,
	ytd_prior_year REAL
);

CREATE TABLE IF NOT EXISTS document_errors (
	batch_id TEXT NOT NULL,
	year INTEGER NOT NULL,
	month TEXT NOT NULL,
	document TEXT NOT NULL,
	reason TEXT NOT NULL,
	detail TEXT
);

CREATE TABLE IF NOT EXISTS parse_anomalies (
	batch_id TEXT NOT NULL,
	year INTEGER NOT NULL,
	month INTEGER NOT NULL,
	source_row INTEGER NOT NULL,
	field_count INTEGER NOT NULL,
	raw TEXT
);`
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return common.NewAppError("DB_SCHEMA_FAILED", stmt, err)
		}
	}
	return nil
}

// SaveBatch writes a batch result atomically: both datasets plus the full
// diagnostics trail under one batch ID.
func (s *Store) SaveBatch(ctx context.Context, res batch.Result) error {
	start := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.WrapError(err, "begin batch tx")
	}
	defer tx.Rollback()

	batchID := res.BatchID.String()
	if _, err := tx.ExecContext(ctx,
		s.rebind("INSERT INTO batches (batch_id, created_at) VALUES (?, ?)"),
		batchID, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return common.WrapError(err, "insert batch")
	}

	prodStmt := s.rebind(`INSERT INTO production_volumes
		(batch_id, data_type, tax_status, tax_rate, year, month, type,
		 month_current, month_prior_year, ytd_current, ytd_prior_year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, p := range res.Production {
		rec := p.Record
		if _, err := tx.ExecContext(ctx, prodStmt,
			batchID, constants.ProductionDataType, string(p.TaxStatus), p.TaxRate,
			rec.Year, fmt.Sprintf("%02d", rec.Month), rec.Label,
			nullable(rec.MonthCurrent), nullable(rec.MonthPriorYear),
			nullable(rec.YTDCurrent), nullable(rec.YTDPriorYear),
		); err != nil {
			return common.WrapError(err, "insert production row")
		}
	}

	matStmt := s.rebind(`INSERT INTO materials_used
		(batch_id, data_type, material_type, year, month, type,
		 month_current, month_prior_year, ytd_current, ytd_prior_year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, m := range res.Materials {
		rec := m.Record
		if _, err := tx.ExecContext(ctx, matStmt,
			batchID, constants.MaterialsDataType, m.MaterialType,
			rec.Year, fmt.Sprintf("%02d", rec.Month), rec.Label,
			nullable(rec.MonthCurrent), nullable(rec.MonthPriorYear),
			nullable(rec.YTDCurrent), nullable(rec.YTDPriorYear),
		); err != nil {
			return common.WrapError(err, "insert materials row")
		}
	}

	errStmt := s.rebind(`INSERT INTO document_errors
		(batch_id, year, month, document, reason, detail) VALUES (?, ?, ?, ?, ?, ?)`)
	for _, e := range res.Errors {
		if _, err := tx.ExecContext(ctx, errStmt,
			batchID, e.Year, e.Month, e.DocumentID, e.Reason, e.Detail,
		); err != nil {
			return common.WrapError(err, "insert document error")
		}
	}

	anomStmt := s.rebind(`INSERT INTO parse_anomalies
		(batch_id, year, month, source_row, field_count, raw) VALUES (?, ?, ?, ?, ?, ?)`)
	for _, a := range res.Anomalies {
		if _, err := tx.ExecContext(ctx, anomStmt,
			batchID, a.Year, a.Month, a.SourceRow, a.FieldCount, a.Raw,
		); err != nil {
			return common.WrapError(err, "insert parse anomaly")
		}
	}

	if err := tx.Commit(); err != nil {
		return common.WrapError(err, "commit batch tx")
	}

	s.logger.Info("repository.batch.saved",
		"batch_id", batchID,
		"production_rows", len(res.Production),
		"materials_rows", len(res.Materials),
		"document_errors", len(res.Errors),
		"anomalies", len(res.Anomalies),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// rebind rewrites ? placeholders to $n for the pgx driver.
func (s *Store) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

package repository

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hopsdata/beerstats/constants"
	"github.com/hopsdata/beerstats/internal/batch"
	"github.com/hopsdata/beerstats/internal/classify"
	"github.com/hopsdata/beerstats/internal/table"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "beerstats.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(context.Background(), Config{DSN: dsn, DialTimeout: 3 * time.Second}, logger)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func fp(v float64) *float64 { return &v }

func TestSaveBatchRoundTrip(t *testing.T) {
	s := testStore(t)
	res := batch.Result{
		BatchID: uuid.New(),
		Production: []classify.ProductionRow{
			{
				Record: table.Record{
					Label:        "Production",
					MonthCurrent: fp(15191907),
					YTDCurrent:   fp(92697216),
					// prior-year columns absent from the source table
					Year:  2016,
					Month: 1,
				},
				TaxStatus: constants.Totals,
				TaxRate:   "$7/$18 per barrel",
			},
		},
		Materials: []classify.MaterialsRow{
			{
				Record: table.Record{
					Label:          "Malt and malt products",
					MonthCurrent:   fp(372214342),
					MonthPriorYear: fp(392727819),
					YTDCurrent:     fp(2283864065),
					YTDPriorYear:   fp(2378112484),
					Year:           2016,
					Month:          1,
				},
				MaterialType: "Grain Products",
			},
		},
		Errors: []batch.DocumentError{
			{Year: 2016, Month: "02", DocumentID: "b.pdf", Reason: batch.ReasonAnchorNotFound, Detail: "no table"},
		},
		Anomalies: []table.Anomaly{
			{Year: 2016, Month: 3, SourceRow: 9, Raw: "short", FieldCount: 3},
		},
	}

	if err := s.SaveBatch(context.Background(), res); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	batchID := res.BatchID.String()
	counts := map[string]int{
		"batches":            1,
		"production_volumes": 1,
		"materials_used":     1,
		"document_errors":    1,
		"parse_anomalies":    1,
	}
	for tbl, want := range counts {
		var n int
		if err := s.db.QueryRowContext(context.Background(),
			"SELECT COUNT(*) FROM "+tbl+" WHERE batch_id = ?", batchID,
		).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", tbl, err)
		}
		if n != want {
			t.Errorf("%s rows = %d, want %d", tbl, n, want)
		}
	}

	var (
		dataType, taxStatus, month, label string
		monthCurrent                      sql.NullFloat64
		monthPriorYear                    sql.NullFloat64
	)
	err := s.db.QueryRowContext(context.Background(), `
		SELECT data_type, tax_status, month, type, month_current, month_prior_year
		FROM production_volumes WHERE batch_id = ?`, batchID,
	).Scan(&dataType, &taxStatus, &month, &label, &monthCurrent, &monthPriorYear)
	if err != nil {
		t.Fatalf("select production row: %v", err)
	}
	if dataType != "Beer Production" || taxStatus != "Totals" || month != "01" || label != "Production" {
		t.Errorf("row = (%s, %s, %s, %s)", dataType, taxStatus, month, label)
	}
	if !monthCurrent.Valid || monthCurrent.Float64 != 15191907 {
		t.Errorf("month_current = %+v, want 15191907", monthCurrent)
	}
	if monthPriorYear.Valid {
		t.Errorf("month_prior_year = %+v, want NULL", monthPriorYear)
	}
}

func TestSaveBatchEmptyResult(t *testing.T) {
	s := testStore(t)
	res := batch.Result{BatchID: uuid.New()}
	if err := s.SaveBatch(context.Background(), res); err != nil {
		t.Fatalf("SaveBatch on an empty result failed: %v", err)
	}
	var n int
	if err := s.db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM batches").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("batches rows = %d, want 1", n)
	}
}

func TestOpenInitializesSchemaIdempotently(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "beerstats.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for i := 0; i < 2; i++ {
		s, err := Open(context.Background(), Config{DSN: dsn}, logger)
		if err != nil {
			t.Fatalf("Open #%d failed: %v", i+1, err)
		}
		s.Close()
	}
}

func TestRebind(t *testing.T) {
	sqliteStore := &Store{driver: "sqlite"}
	if got := sqliteStore.rebind("INSERT INTO t VALUES (?, ?)"); got != "INSERT INTO t VALUES (?, ?)" {
		t.Errorf("sqlite rebind changed the query: %q", got)
	}
	pgStore := &Store{driver: "pgx"}
	if got := pgStore.rebind("INSERT INTO t VALUES (?, ?, ?)"); got != "INSERT INTO t VALUES ($1, $2, $3)" {
		t.Errorf("pgx rebind = %q", got)
	}
}

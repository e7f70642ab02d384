package ingest

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Report files are named ttb_beer_<year>_<month>.pdf; a dash separator is
// tolerated since mirrors of the archive use both.
var reportName = regexp.MustCompile(`(?i)^ttb_beer_(\d{4})[-_](\d{2})\.pdf$`)

type DirStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
}

// ScanDirectory walks root and returns one Document per report file, sorted
// by (year, month). Unreadable entries are skipped and counted, never fatal
// to the scan.
func ScanDirectory(root string, logger *slog.Logger) ([]Document, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var docs []Document
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			logger.Warn("ingest.scan.skip", "path", path, "error", walkErr)
			stats.Skipped++
			return nil // continue walking
		}
		if d.IsDir() {
			return nil
		}
		m := reportName.FindStringSubmatch(filepath.Base(path))
		if m == nil {
			return nil
		}
		year, _ := strconv.Atoi(m[1])
		doc := Document{Year: year, Month: m[2], ID: path}
		if _, err := doc.MonthInt(); err != nil {
			logger.Warn("ingest.scan.skip", "path", path, "error", err)
			stats.Skipped++
			return nil
		}
		stats.Matched++
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return docs, stats, err
	}

	SortDocuments(docs)
	logger.Info("ingest.scan.ok", "root", root, "scanned", stats.Scanned, "matched", stats.Matched, "skipped", stats.Skipped)
	return docs, stats, nil
}

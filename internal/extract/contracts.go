package extract

import (
	"context"
	"time"
)

// LineExtractor turns a document identifier into the report's raw text lines.
// The table-recovery core consumes only this contract; it never touches the
// binary PDF format itself.
type LineExtractor interface {
	ExtractLines(ctx context.Context, documentID string) (Result, error)
}

type Result struct {
	Lines    []string
	Text     string
	Pages    int
	Method   string // "pdf-text"
	Duration time.Duration
	Warnings []string
}

package table

import (
	"regexp"
	"strings"
)

// A run of two or more whitespace characters is a column boundary. A single
// space is label text ("In bottles and cans").
var fieldBoundary = regexp.MustCompile(`\s{2,}`)

// Split converts a whitespace-aligned table line into its fields. Thousands
// separators are removed first so numeric fields come out as plain digit
// strings. Fields carry no leading or trailing whitespace; a blank line
// yields nil.
func Split(line string) []string {
	line = strings.ReplaceAll(line, ",", "")
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	return fieldBoundary.Split(line, -1)
}

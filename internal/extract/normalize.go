package extract

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// Normalize folds line endings and collapses blank-line runs while leaving
// intra-line spacing alone: runs of spaces are the table's column boundaries
// and must reach the splitter intact. Tabs widen to two spaces so a lone tab
// still reads as a boundary.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, "\t", "  ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.Join(lines, "\n")
}

// Lines normalizes a text block and splits it into lines.
func Lines(text string) []string {
	return strings.Split(Normalize(text), "\n")
}

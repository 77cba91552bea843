package http

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var yenPrinter = message.NewPrinter(language.Japanese)

// formatYen renders whole yen with grouping, e.g. "¥125,000".
func formatYen(v int64) string {
	if v < 0 {
		return "-" + yenPrinter.Sprintf("¥%d", -v)
	}
	return yenPrinter.Sprintf("¥%d", v)
}

// formatCount renders an integer with grouping separators.
func formatCount(n int) string {
	return yenPrinter.Sprintf("%d", n)
}

// sanitizeInput trims whitespace and drops control characters other than
// tab, newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

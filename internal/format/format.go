// Package format renders counts, ratios and sizes for console output.
package format

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer groups digits the way the console report expects ("258,000").
var printer = message.NewPrinter(language.English)

// Chars formats a character count with thousands separators.
// Examples: "0", "999", "75,000", "1,234,567"
func Chars(n int) string {
	return printer.Sprintf("%d", n)
}

// Ratio formats an original/compressed size ratio as "N.N:1".
// A zero compressed size is treated as 1 to keep the ratio finite.
func Ratio(original, compressed int) string {
	return fmt.Sprintf("%.1f:1", float64(original)/float64(max(compressed, 1)))
}

// Size formats a size in bytes for human display.
// Uses MB for sizes >= 1MB, KB otherwise.
func Size(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	if bytes >= mb {
		return fmt.Sprintf("%d MB", bytes/mb)
	}
	if bytes >= kb {
		return fmt.Sprintf("%d KB", bytes/kb)
	}
	return fmt.Sprintf("%d bytes", bytes)
}

package utils

import "github.com/mattn/go-runewidth"

// TruncateString shortens s to at most width cells, ending it with an
// ellipsis when anything was cut.
func TruncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// PadRight pads s with spaces to exactly width cells, truncating if needed.
func PadRight(s string, width int) string {
	return runewidth.FillRight(TruncateString(s, width), width)
}

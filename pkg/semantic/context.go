package semantic

import (
	"strings"
)

const DefaultWindow = 120

// Surrounding returns up to window bytes on either side of the first
// case-insensitive occurrence of text in full. When text does not occur,
// the head of full is returned.
func Surrounding(text, full string, window int) string {
	if window <= 0 {
		return ""
	}

	pos := indexFold(full, text)

	if pos < 0 {
		return strings.TrimSpace(truncate(full, 0, window))
	}

	start := max(0, pos-window)
	end := min(len(full), pos+len(text)+window)

	return strings.TrimSpace(truncate(full, start, end))
}

func indexFold(s, substr string) int {
	if substr == "" {
		return -1
	}

	for i := 0; i+len(substr) <= len(s); i++ {
		if isRuneStart(s[i]) && strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}

	return -1
}

// truncate slices s to [start, end) widened to rune boundaries.
func truncate(s string, start, end int) string {
	end = min(end, len(s))

	for start > 0 && !isRuneStart(s[start]) {
		start--
	}

	for end < len(s) && !isRuneStart(s[end]) {
		end++
	}

	return s[start:end]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

package output

import (
	"fmt"
	"strings"
)

// Indent prefixes every line of text with the given number of spaces.
func Indent(spaces int, text string) string {
	prefix := strings.Repeat(" ", spaces)
	return prefix + strings.ReplaceAll(text, "\n", "\n"+prefix)
}

func Plural(count int, singular string, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// Count renders e.g. "1 course" or "3 courses".
func Count(count int, singular string, plural string) string {
	return fmt.Sprintf("%d %s", count, Plural(count, singular, plural))
}

const (
	kibibyte = 1024
	mebibyte = 1024 * kibibyte
)

func Filesize(bytes int64) string {
	switch {
	case bytes >= mebibyte:
		return fmt.Sprintf("%.1f MiB (%d bytes)", float64(bytes)/mebibyte, bytes)
	case bytes > kibibyte:
		return fmt.Sprintf("%.0f KiB (%d bytes)", float64(bytes)/kibibyte, bytes)
	}
	return fmt.Sprintf("%d bytes", bytes)
}

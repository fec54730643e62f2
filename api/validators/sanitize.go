package validators

import "strings"

// SanitizeString trims surrounding whitespace and strips control characters
// from free-text input before it reaches filters and persistence.
func SanitizeString(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, trimmed)
}

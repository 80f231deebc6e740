package validators

import (
	"strings"
	"unicode/utf8"
)

// Characters stripped from free-text inputs before they reach storage.
const strippedChars = "'\"`;"

// SanitizeString trims whitespace, removes quoting characters, and
// truncates to maxLen runes when maxLen is positive.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedChars, r) {
			return -1
		}
		return r
	}, input)
	trimmed := strings.TrimSpace(cleaned)
	if maxLen > 0 && utf8.RuneCountInString(trimmed) > maxLen {
		runes := []rune(trimmed)
		return string(runes[:maxLen])
	}
	return trimmed
}

// SanitizeOptional sanitizes a nullable string, returning nil when the
// result is empty.
func SanitizeOptional(input *string, maxLen int) *string {
	if input == nil {
		return nil
	}
	cleaned := SanitizeString(*input, maxLen)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

package utils

import (
	"fmt"
	"unicode"
)

// IsValidQuery checks if a text prefix is worth sending to the engine.
// Returns false for empty strings, all-digit strings, strings with
// characters the sanitizer would drop anyway, and repetitive mashes like
// "dddd". The REPL applies this unless filtering is disabled.
func IsValidQuery(s string) bool {
	if len(s) == 0 {
		return false
	}
	if IsOnlyNumbers(s) {
		return false
	}
	if ContainsSpecialChars(s) {
		return false
	}
	if IsRepetitive(s) {
		return false
	}
	return true
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// HasIndexableChars reports whether a string contains at least one letter
// or digit, i.e. whether the sanitizer can turn it into a non-empty token
// sequence. Spaces and punctuation alone sanitize away to nothing.
func HasIndexableChars(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// ContainsSpecialChars checks if a string contains characters outside the
// engine's allow-list of letters, digits and spaces.
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
			return true
		}
	}
	return false
}

// IsRepetitive checks if a string is one character repeated 3+ times
// (e.g. "aaa", "www").
func IsRepetitive(s string) bool {
	if len(s) <= 2 {
		return false
	}
	firstChar := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != firstChar {
			return false
		}
	}
	return true
}

// FormatWithCommas formats an integer with comma separators for REPL output
func FormatWithCommas(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	str := fmt.Sprintf("%d", n)
	result := ""
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(char)
	}
	return result
}

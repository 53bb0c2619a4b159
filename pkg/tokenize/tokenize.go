// Package tokenize converts raw input into the canonical token sequences the
// trie indexes: sanitized character or word tokens for text, interval or
// pitch-class tokens for melodies. Normalization is pure and deterministic,
// so an entry indexed at build time and a query typed later land on the same
// token path regardless of casing, stray whitespace, or melody key.
package tokenize

import "fmt"

// ValidationError reports raw input the normalizers refuse to tokenize.
// Valid-but-empty input is not an error; it normalizes to an empty sequence.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TextMode selects the token granularity of a TextNormalizer. The mode is
// fixed per normalizer so build-time and query-time tokenization always
// agree.
type TextMode int

const (
	// ModeChar tokenizes into single characters, spaces included.
	ModeChar TextMode = iota
	// ModeWord tokenizes into whitespace-separated words.
	ModeWord
)

func (m TextMode) String() string {
	if m == ModeWord {
		return "word"
	}
	return "char"
}

// ParseTextMode maps a config string to a TextMode.
func ParseTextMode(s string) (TextMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "char", "character", "letter":
		return ModeChar, true
	case "word", "sentence":
		return ModeWord, true
	}
	return ModeChar, false
}

// TextNormalizer sanitizes raw strings into canonical token sequences.
// Sanitization keeps letters, digits and spaces, lowercases, and collapses
// whitespace runs, so inputs a user would consider the same query produce
// the same sequence.
type TextNormalizer struct {
	mode TextMode
}

// NewTextNormalizer creates a normalizer with the given token mode.
func NewTextNormalizer(mode TextMode) *TextNormalizer {
	return &TextNormalizer{mode: mode}
}

// Mode returns the token mode this normalizer was built with.
func (n *TextNormalizer) Mode() TextMode {
	return n.mode
}

// Sanitize returns the canonical string form of raw: lowercased, stripped to
// the letter/digit/space allow-list, whitespace collapsed and trimmed.
// Returns a *ValidationError when raw is not valid UTF-8.
func (n *TextNormalizer) Sanitize(raw string) (string, error) {
	if !utf8.ValidString(raw) {
		return "", &ValidationError{Input: raw, Reason: "not valid UTF-8 text"}
	}
	var b strings.Builder
	b.Grow(len(raw))
	lastSpace := true
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
		// Anything else is punctuation or control and is dropped.
	}
	return strings.TrimRight(b.String(), " "), nil
}

// Normalize sanitizes raw and splits it into tokens per the configured mode.
// A string that sanitizes to nothing yields an empty sequence, not an error.
func (n *TextNormalizer) Normalize(raw string) ([]string, error) {
	clean, err := n.Sanitize(raw)
	if err != nil {
		return nil, err
	}
	if clean == "" {
		return nil, nil
	}
	if n.mode == ModeWord {
		return strings.Fields(clean), nil
	}
	toks := make([]string, 0, utf8.RuneCountInString(clean))
	for _, r := range clean {
		toks = append(toks, string(r))
	}
	return toks, nil
}

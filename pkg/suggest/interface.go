// Package suggest is the core facade layer: it binds a normalizer to a trie
// per engine and exposes the sequence-in, candidates-out contract the server
// and CLI consume.
package suggest

import (
	"github.com/bastiangx/seqserve/pkg/corpus"
	"github.com/bastiangx/seqserve/pkg/tokenize"
)

// TextSuggester is the surface the server and CLI need from a text engine.
type TextSuggester interface {
	// Suggest returns entries matching the raw prefix, capped at limit.
	Suggest(rawPrefix string, limit int) ([]string, error)

	// Len returns the number of stored (sequence, entry) pairs.
	Len() int

	// Stats returns counters about the engine and its cache.
	Stats() map[string]int
}

// MelodySuggester is the surface the server and CLI need from a melody
// engine.
type MelodySuggester interface {
	// Suggest returns melodies matching the query notes, capped at limit.
	Suggest(events []tokenize.NoteEvent, limit int) ([]*corpus.Melody, error)

	// SuggestTokens completes from an already-encoded token prefix.
	SuggestTokens(toks []int, limit int) []*corpus.Melody

	// Len returns the number of stored (sequence, melody) pairs.
	Len() int

	// Stats returns counters about the engine.
	Stats() map[string]int
}

package suggest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/bastiangx/seqserve/pkg/corpus"
	"github.com/bastiangx/seqserve/pkg/tokenize"
	"github.com/bastiangx/seqserve/pkg/trie"
	"github.com/charmbracelet/log"
)

// MelodyEngine completes melodies from a few notes. The trie indexes each
// melody by the token sequence its bound normalizer produces, interval
// tokens by default, so a query hummed in a different key still lands on
// the same path. Trie values are melody names; the melodies themselves live
// in a side table so callers get the full note sequence back.
type MelodyEngine struct {
	norm     *tokenize.MelodyNormalizer
	trie     *trie.Trie[int, string]
	melodies map[string]*corpus.Melody
	mu       sync.RWMutex
}

// NewMelodyEngine creates an empty engine with the given token encoding.
func NewMelodyEngine(enc tokenize.MelodyEncoding) *MelodyEngine {
	return &MelodyEngine{
		norm:     tokenize.NewMelodyNormalizer(enc),
		trie:     trie.New[int, string](),
		melodies: make(map[string]*corpus.Melody),
	}
}

// Encoding returns the token encoding the engine was built with.
func (e *MelodyEngine) Encoding() tokenize.MelodyEncoding {
	return e.norm.Encoding()
}

// Len returns the number of stored (sequence, melody) pairs.
func (e *MelodyEngine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trie.Len()
}

// Add indexes one melody under its token sequence. A melody that fails the
// corpus invariants is rejected with a ValidationError. Re-adding a melody
// under a name already indexed replaces the stored note sequence and, when
// the tokens changed, removes the old trie path so a query matching the old
// sequence cannot return the new notes.
func (e *MelodyEngine) Add(m *corpus.Melody) error {
	if m == nil || !m.Valid() {
		name := ""
		if m != nil {
			name = m.Name
		}
		return &tokenize.ValidationError{Input: name, Reason: "melody violates corpus invariants"}
	}
	toks, err := e.norm.Normalize(m.Notes)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if prev, ok := e.melodies[m.Name]; ok {
		prevToks, perr := e.norm.Normalize(prev.Notes)
		if perr == nil && !slices.Equal(prevToks, toks) {
			e.trie.Discard(prevToks, m.Name)
			log.Warnf("Melody %q re-added with different notes, replacing", m.Name)
		}
	}
	e.melodies[m.Name] = m
	e.trie.Insert(toks, m.Name)
	return nil
}

// Build indexes a melody corpus and returns how many pairs were inserted.
func (e *MelodyEngine) Build(melodies []*corpus.Melody) (int, error) {
	before := e.Len()
	for i, m := range melodies {
		if err := e.Add(m); err != nil {
			return e.Len() - before, fmt.Errorf("melody %d: %w", i+1, err)
		}
	}
	return e.Len() - before, nil
}

// Suggest normalizes the query notes with the engine's own encoding and
// returns every melody whose token sequence starts with the result, capped
// at limit (limit <= 0 means all).
func (e *MelodyEngine) Suggest(events []tokenize.NoteEvent, limit int) ([]*corpus.Melody, error) {
	toks, err := e.norm.Normalize(events)
	if err != nil {
		return nil, err
	}
	return e.SuggestTokens(toks, limit), nil
}

// SuggestTokens completes from an already-encoded token prefix: signed
// intervals for interval engines, pitch classes for pitch-class engines.
// Useful when the caller works in token space directly, like the melody
// REPL.
func (e *MelodyEngine) SuggestTokens(toks []int, limit int) []*corpus.Melody {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := e.trie.AutocompleteN(toks, limit)
	out := make([]*corpus.Melody, 0, len(names))
	for _, name := range names {
		if m, ok := e.melodies[name]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Lookup returns the melodies whose token sequence is exactly the
// normalized query.
func (e *MelodyEngine) Lookup(events []tokenize.NoteEvent) ([]*corpus.Melody, error) {
	toks, err := e.norm.Normalize(events)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := e.trie.Lookup(toks)
	out := make([]*corpus.Melody, 0, len(names))
	for _, name := range names {
		if m, ok := e.melodies[name]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// RemoveTokens drops every melody whose token sequence starts with the
// given prefix and returns how many were removed.
func (e *MelodyEngine) RemoveTokens(toks []int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Collect the names first; the trie only reports a count.
	var doomed []string
	_ = e.trie.Visit(toks, func(_ []int, name string) error {
		doomed = append(doomed, name)
		return nil
	})
	removed := e.trie.Remove(toks)
	for _, name := range doomed {
		delete(e.melodies, name)
	}
	return removed
}

// Stats reports engine counters.
func (e *MelodyEngine) Stats() map[string]int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return map[string]int{
		"totalEntries":  e.trie.Len(),
		"namedMelodies": len(e.melodies),
	}
}

package suggest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bastiangx/seqserve/pkg/corpus"
	"github.com/bastiangx/seqserve/pkg/tokenize"
	"github.com/bastiangx/seqserve/pkg/trie"
	"github.com/charmbracelet/log"
)

// keySep joins tokens into cache keys. Sanitized tokens only contain
// letters, digits and spaces, so the unit separator can never collide.
const keySep = "\x1f"

// defaultCacheEntries is the result cache size when the caller does not
// configure one.
const defaultCacheEntries = 4096

// TextEngine completes sanitized text entries. The normalizer is bound at
// construction and used for both inserts and queries; that single binding is
// what guarantees a query tokenizes onto the same trie path as the entry it
// should match.
type TextEngine struct {
	norm  *tokenize.TextNormalizer
	trie  *trie.Trie[string, string]
	cache *ResultCache
	mu    sync.RWMutex
}

// NewTextEngine creates an empty engine with the given token mode and the
// default result cache size.
func NewTextEngine(mode tokenize.TextMode) *TextEngine {
	return NewTextEngineWithCache(mode, defaultCacheEntries)
}

// NewTextEngineWithCache creates an empty engine with an explicit result
// cache size. cacheEntries <= 0 disables caching.
func NewTextEngineWithCache(mode tokenize.TextMode, cacheEntries int) *TextEngine {
	return &TextEngine{
		norm:  tokenize.NewTextNormalizer(mode),
		trie:  trie.New[string, string](),
		cache: NewResultCache(cacheEntries),
	}
}

// Mode returns the token mode the engine was built with.
func (e *TextEngine) Mode() tokenize.TextMode {
	return e.norm.Mode()
}

// Len returns the number of stored (sequence, entry) pairs.
func (e *TextEngine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trie.Len()
}

// Add sanitizes raw and indexes it under its own token sequence. Entries
// that sanitize to nothing are skipped, matching how corpus lines with only
// punctuation behave. Re-adding an entry is a no-op.
func (e *TextEngine) Add(raw string) error {
	clean, err := e.norm.Sanitize(raw)
	if err != nil {
		return err
	}
	if clean == "" {
		log.Debugf("Skipping entry with no indexable characters: %q", raw)
		return nil
	}
	toks, err := e.norm.Normalize(clean)
	if err != nil {
		return err
	}
	e.mu.Lock()
	inserted := e.trie.Insert(toks, clean)
	e.mu.Unlock()
	if inserted {
		e.cache.Clear()
	}
	return nil
}

// Build indexes every line of a corpus and returns how many pairs were
// inserted. The first invalid line aborts the build.
func (e *TextEngine) Build(lines []string) (int, error) {
	before := e.Len()
	for i, line := range lines {
		if err := e.Add(line); err != nil {
			return e.Len() - before, fmt.Errorf("corpus line %d: %w", i+1, err)
		}
	}
	return e.Len() - before, nil
}

// BuildSentences indexes a weighted sentence corpus. Weights do not affect
// suggestion order; the total is logged so corpus changes show up in debug
// output.
func (e *TextEngine) BuildSentences(entries []corpus.SentenceEntry) (int, error) {
	before := e.Len()
	var totalWeight float64
	for i, entry := range entries {
		if err := e.Add(entry.Text); err != nil {
			return e.Len() - before, fmt.Errorf("corpus row %d: %w", i+1, err)
		}
		totalWeight += entry.Weight
	}
	log.Debugf("Indexed %d sentences, total corpus weight %.1f", e.Len()-before, totalWeight)
	return e.Len() - before, nil
}

// Suggest returns every stored entry whose token sequence starts with the
// normalized rawPrefix, capped at limit (limit <= 0 means all). Order is
// the trie's deterministic traversal order. An unmatched prefix is a normal
// empty result, not an error.
func (e *TextEngine) Suggest(rawPrefix string, limit int) ([]string, error) {
	toks, err := e.norm.Normalize(rawPrefix)
	if err != nil {
		return nil, err
	}
	key := strings.Join(toks, keySep)
	if cached, ok := e.cache.Get(key); ok {
		return capResults(cached, limit), nil
	}
	// Put happens under the same read lock as the traversal, so a
	// concurrent mutation's cache Clear always lands after the Put and no
	// stale list can outlive it.
	e.mu.RLock()
	results := e.trie.Autocomplete(toks)
	e.cache.Put(key, results)
	e.mu.RUnlock()

	return capResults(results, limit), nil
}

// Lookup returns the entries stored at exactly the normalized raw sequence.
func (e *TextEngine) Lookup(raw string) ([]string, error) {
	toks, err := e.norm.Normalize(raw)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trie.Lookup(toks), nil
}

// Remove drops every entry matching the normalized rawPrefix and returns
// how many pairs were removed.
func (e *TextEngine) Remove(rawPrefix string) (int, error) {
	toks, err := e.norm.Normalize(rawPrefix)
	if err != nil {
		return 0, err
	}
	e.mu.Lock()
	removed := e.trie.Remove(toks)
	e.mu.Unlock()
	if removed > 0 {
		e.cache.Clear()
	}
	return removed, nil
}

// Stats reports engine and cache counters.
func (e *TextEngine) Stats() map[string]int {
	stats := e.cache.Stats()
	stats["totalEntries"] = e.Len()
	return stats
}

func capResults[T any](results []T, limit int) []T {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

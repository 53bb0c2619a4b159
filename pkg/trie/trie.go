// Package trie implements the generic prefix tree the completion engines are
// built on. Sequences of ordered tokens map to sets of values at terminal
// nodes; retrieval walks only the subtree under the queried prefix, so lookup
// cost depends on the size of the match, not on the size of the whole tree.
package trie

import (
	"cmp"
	"errors"
	"slices"
)

// ErrStop can be returned from a Visit callback to end the walk early.
// Visit swallows it and returns nil.
var ErrStop = errors.New("trie: stop visit")

// Trie is a prefix tree over token sequences of type K storing values of
// type V. Tokens need an ordering so enumeration is deterministic; values
// need equality so terminal sets can absorb duplicate inserts.
//
// A Trie is not synchronized. Callers that mix inserts with queries guard it
// themselves (the suggest engines wrap it in a RWMutex).
type Trie[K cmp.Ordered, V comparable] struct {
	root *node[K, V]
	size int
}

// node is one prefix position. values keeps insertion order, membership
// keeps set semantics. Both are nil until the node becomes terminal.
type node[K cmp.Ordered, V comparable] struct {
	children   map[K]*node[K, V]
	values     []V
	membership map[V]struct{}
}

// New creates an empty trie.
func New[K cmp.Ordered, V comparable]() *Trie[K, V] {
	return &Trie[K, V]{root: &node[K, V]{}}
}

// Len returns the number of distinct (sequence, value) pairs stored.
func (t *Trie[K, V]) Len() int {
	return t.size
}

// Insert stores value at the node reached by seq, creating nodes as needed.
// Inserting the empty sequence makes the root terminal. Returns false if the
// exact (seq, value) pair was already present.
func (t *Trie[K, V]) Insert(seq []K, value V) bool {
	n := t.root
	for _, tok := range seq {
		child := n.children[tok]
		if child == nil {
			if n.children == nil {
				n.children = make(map[K]*node[K, V])
			}
			child = &node[K, V]{}
			n.children[tok] = child
		}
		n = child
	}
	if _, dup := n.membership[value]; dup {
		return false
	}
	if n.membership == nil {
		n.membership = make(map[V]struct{})
	}
	n.membership[value] = struct{}{}
	n.values = append(n.values, value)
	t.size++
	return true
}

// Lookup returns the values whose sequence is exactly seq, in insertion
// order. A missing path or a non-terminal node both yield an empty slice.
func (t *Trie[K, V]) Lookup(seq []K) []V {
	n := t.walk(seq)
	if n == nil || len(n.values) == 0 {
		return nil
	}
	return slices.Clone(n.values)
}

// Autocomplete returns every value stored at or below the node reached by
// prefix. The order is deterministic: depth-first, children in token-sort
// order, values at one node in insertion order. The empty prefix enumerates
// the whole trie.
func (t *Trie[K, V]) Autocomplete(prefix []K) []V {
	return t.AutocompleteN(prefix, 0)
}

// AutocompleteN is Autocomplete capped at limit values. A limit <= 0 means
// no cap.
func (t *Trie[K, V]) AutocompleteN(prefix []K, limit int) []V {
	var out []V
	err := t.Visit(prefix, func(_ []K, value V) error {
		out = append(out, value)
		if limit > 0 && len(out) >= limit {
			return ErrStop
		}
		return nil
	})
	if err != nil {
		// Visit only surfaces callback errors, and ours never fails.
		return out
	}
	return out
}

// Visit walks the subtree under prefix depth-first, children in token-sort
// order, calling fn once per stored (sequence, value) pair. The seq slice
// passed to fn is reused between calls; callers that retain it must copy.
// Returning ErrStop from fn ends the walk without error; any other error
// aborts the walk and is returned.
func (t *Trie[K, V]) Visit(prefix []K, fn func(seq []K, value V) error) error {
	n := t.walk(prefix)
	if n == nil {
		return nil
	}
	seq := slices.Clone(prefix)
	err := visit(n, seq, fn)
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}

func visit[K cmp.Ordered, V comparable](n *node[K, V], seq []K, fn func([]K, V) error) error {
	for _, value := range n.values {
		if err := fn(seq, value); err != nil {
			return err
		}
	}
	for _, tok := range sortedTokens(n) {
		if err := visit(n.children[tok], append(seq, tok), fn); err != nil {
			return err
		}
	}
	return nil
}

// Remove drops every (sequence, value) pair whose sequence starts with
// prefix and prunes any node chains left childless and non-terminal.
// Returns the number of pairs removed. An unmatched prefix removes nothing.
func (t *Trie[K, V]) Remove(prefix []K) int {
	if len(prefix) == 0 {
		removed := t.size
		t.root = &node[K, V]{}
		t.size = 0
		return removed
	}
	// Track the path so emptied ancestors can be pruned afterwards.
	path := make([]*node[K, V], 0, len(prefix))
	n := t.root
	for _, tok := range prefix {
		path = append(path, n)
		n = n.children[tok]
		if n == nil {
			return 0
		}
	}
	removed := countPairs(n)
	delete(path[len(path)-1].children, prefix[len(prefix)-1])
	for i := len(path) - 1; i > 0; i-- {
		p := path[i]
		if len(p.children) > 0 || len(p.values) > 0 {
			break
		}
		delete(path[i-1].children, prefix[i-1])
	}
	t.size -= removed
	return removed
}

// Discard removes the single (seq, value) pair, pruning any node chain left
// childless and non-terminal. Other values stored at the same node are kept.
// Returns false if the pair was not present.
func (t *Trie[K, V]) Discard(seq []K, value V) bool {
	path := make([]*node[K, V], 0, len(seq))
	n := t.root
	for _, tok := range seq {
		path = append(path, n)
		n = n.children[tok]
		if n == nil {
			return false
		}
	}
	if _, ok := n.membership[value]; !ok {
		return false
	}
	delete(n.membership, value)
	idx := slices.Index(n.values, value)
	n.values = slices.Delete(n.values, idx, idx+1)
	for i := len(path) - 1; i >= 0; i-- {
		if len(n.values) > 0 || len(n.children) > 0 {
			break
		}
		delete(path[i].children, seq[i])
		n = path[i]
	}
	t.size--
	return true
}

// walk follows seq from the root and returns the node it ends at, or nil if
// the path does not exist.
func (t *Trie[K, V]) walk(seq []K) *node[K, V] {
	n := t.root
	for _, tok := range seq {
		n = n.children[tok]
		if n == nil {
			return nil
		}
	}
	return n
}

func countPairs[K cmp.Ordered, V comparable](n *node[K, V]) int {
	total := len(n.values)
	for _, child := range n.children {
		total += countPairs(child)
	}
	return total
}

func sortedTokens[K cmp.Ordered, V comparable](n *node[K, V]) []K {
	if len(n.children) == 0 {
		return nil
	}
	toks := make([]K, 0, len(n.children))
	for tok := range n.children {
		toks = append(toks, tok)
	}
	slices.Sort(toks)
	return toks
}

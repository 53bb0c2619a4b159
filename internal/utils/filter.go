package utils

import "strings"

// CreateRankList creates a slice of ranks based on position.
// The rank starts at 1 for the first item and increments for subsequent
// items. The engines return results in deterministic traversal order, so
// positional ranks are stable across identical queries.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := 0; i < count; i++ {
		ranks[i] = uint16(i + 1)
	}
	return ranks
}

// EchoFilter drops suggestions that merely echo the typed query, plus any
// case-insensitive duplicates, when rendering REPL output. The engines keep
// exact matches in their results on purpose (a stored entry equal to the
// prefix is still a match); this is display-side trimming only.
type EchoFilter struct {
	seen map[string]bool
}

// NewEchoFilter creates a filter that excludes the given query string.
func NewEchoFilter(query string) *EchoFilter {
	return &EchoFilter{seen: map[string]bool{strings.ToLower(query): true}}
}

// ShouldShow reports whether the suggestion should be rendered, recording
// it so later duplicates are dropped.
func (f *EchoFilter) ShouldShow(s string) bool {
	key := strings.ToLower(s)
	if f.seen[key] {
		return false
	}
	f.seen[key] = true
	return true
}
